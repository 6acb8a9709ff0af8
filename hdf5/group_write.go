package hdf5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/go-flo2d/internal/message"
	"github.com/robert-malhotra/go-flo2d/internal/object"
)

// pendingLink represents a link to be written to the parent group.
type pendingLink struct {
	link *message.Link
}

// CreateGroup creates a new subgroup with the given name.
// Attributes may be attached at creation time with WithGroupAttribute.
func (g *Group) CreateGroup(name string, opts ...GroupOption) (*Group, error) {
	if !g.file.writable {
		return nil, fmt.Errorf("file is not writable")
	}

	if name == "" {
		return nil, fmt.Errorf("group name cannot be empty")
	}

	options := &groupOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Calculate the path for the new group
	newPath := path.Join(g.path, name)
	if g.path == "/" {
		newPath = "/" + name
	}

	// Create an empty group object header, plus any requested attributes
	groupMessages := object.NewEmptyGroupHeader()
	var attrs []*message.Attribute
	for _, def := range options.attributes {
		attrMsg, err := createAttributeMessage(def.name, def.value)
		if err != nil {
			return nil, fmt.Errorf("creating group attribute %q: %w", def.name, err)
		}
		attrs = append(attrs, attrMsg)
		groupMessages = append(groupMessages, attrMsg)
	}

	// Calculate header size and allocate space
	headerSize := object.HeaderSize(g.file.writer, groupMessages)
	groupAddr := g.file.allocate(int64(headerSize))

	// Write the group object header
	w := g.file.writer.At(int64(groupAddr))
	if _, err := object.WriteHeader(w, groupMessages); err != nil {
		return nil, fmt.Errorf("writing group header: %w", err)
	}

	// Create a hard link from parent to this group
	link := message.NewHardLink(name, groupAddr)

	// Add the link to the parent group
	if err := g.addLink(link); err != nil {
		return nil, fmt.Errorf("adding link to parent: %w", err)
	}

	// Create the Group object. pendingLinks starts as a non-nil empty slice
	// so a later addLink does not try to reload state from the stale header.
	newGroup := &Group{
		file:         g.file,
		path:         newPath,
		header:       nil, // Will be loaded on demand if needed
		addr:         groupAddr,
		parent:       g,
		pendingLinks: []*message.Link{},
		pendingAttrs: attrs,
	}

	return newGroup, nil
}

// addLink adds a link message to this group.
// For writable files, this updates the group's object header.
func (g *Group) addLink(link *message.Link) error {
	if !g.file.writable {
		return fmt.Errorf("file is not writable")
	}

	// If pendingLinks is nil, we need to load existing links from the header
	if g.pendingLinks == nil {
		if err := g.loadExistingLinks(); err != nil {
			return fmt.Errorf("loading existing links: %w", err)
		}
	}

	g.pendingLinks = append(g.pendingLinks, link)

	// Rewrite the group's object header with the new link
	return g.rewriteHeader()
}

// HasMember reports whether the group directly contains a member (group
// or dataset) with the given name. Unlike OpenGroup, it consults the
// group's link state and therefore also works on groups of files opened
// only for writing, where no reader is available.
func (g *Group) HasMember(name string) bool {
	if g.pendingLinks == nil {
		if err := g.loadExistingLinks(); err != nil {
			return false
		}
	}
	for _, link := range g.pendingLinks {
		if link.Name == name {
			return true
		}
	}
	return false
}

// loadExistingLinks loads existing link and attribute messages from the
// group's object header.
func (g *Group) loadExistingLinks() error {
	g.pendingLinks = make([]*message.Link, 0)

	// If we don't have a header loaded, try to load it
	if g.header == nil && g.file.reader != nil {
		header, err := object.Read(g.file.reader, g.addr)
		if err != nil {
			// If we can't read the header, start fresh (this is OK for new groups)
			return nil
		}
		g.header = header
	}

	// If we have a header, extract existing link and attribute messages
	if g.header != nil {
		linkMsgs := g.header.GetMessages(message.TypeLink)
		for _, msg := range linkMsgs {
			if linkMsg, ok := msg.(*message.Link); ok {
				g.pendingLinks = append(g.pendingLinks, linkMsg)
			}
		}
		if g.pendingAttrs == nil {
			for _, msg := range g.header.GetMessages(message.TypeAttribute) {
				if attrMsg, ok := msg.(*message.Attribute); ok {
					g.pendingAttrs = append(g.pendingAttrs, attrMsg)
				}
			}
		}
	}

	return nil
}

// rewriteHeader rewrites the group's object header with all pending links
// and carried attributes.
func (g *Group) rewriteHeader() error {
	// Create group header with LinkInfo and all links
	messages := object.NewGroupHeader(g.pendingLinks)
	for _, attr := range g.pendingAttrs {
		messages = append(messages, attr)
	}

	// Calculate new header size with minimum chunk size for h5py compatibility
	headerSize := object.HeaderSizeWithMinChunk(g.file.writer, messages, object.MinGroupChunkSize)

	// Allocate new space (we can't resize in place, so allocate new)
	newAddr := g.file.allocate(int64(headerSize))

	// Write the new header
	w := g.file.writer.At(int64(newAddr))
	if _, err := object.WriteHeaderWithMinChunk(w, messages, object.MinGroupChunkSize); err != nil {
		return err
	}

	// Update our address
	oldAddr := g.addr
	g.addr = newAddr

	// If this is the root group, update the superblock
	if g.path == "/" {
		g.file.superblock.RootGroupAddress = newAddr
	} else {
		// Update parent's link to point to new address
		if err := g.updateParentLink(oldAddr, newAddr); err != nil {
			return err
		}
	}

	return nil
}

// updateParentLink updates the parent group's link to point to the new address.
func (g *Group) updateParentLink(oldAddr, newAddr uint64) error {
	// Get the name of this group
	name := path.Base(g.path)

	// Find parent in our hierarchy
	parent := g.findParent()
	if parent == nil {
		return nil // Root group, no parent
	}

	// Populate the parent's link state before touching it, otherwise the
	// rewrite below would drop its existing children.
	if parent.pendingLinks == nil {
		if err := parent.loadExistingLinks(); err != nil {
			return fmt.Errorf("loading parent links: %w", err)
		}
	}

	// Update the link in parent's pending links
	for _, link := range parent.pendingLinks {
		if link.Name == name {
			link.ObjectAddress = newAddr
			break
		}
	}

	// Rewrite parent's header
	return parent.rewriteHeader()
}

// findParent finds the parent group in the file's group hierarchy.
func (g *Group) findParent() *Group {
	if g.path == "/" {
		return nil
	}

	// Groups created or opened through this package carry a parent pointer.
	if g.parent != nil {
		return g.parent
	}

	parentPath := path.Dir(g.path)
	if parentPath == "" || parentPath == "." {
		parentPath = "/"
	}

	if parentPath == "/" {
		return g.file.root
	}

	return nil
}
