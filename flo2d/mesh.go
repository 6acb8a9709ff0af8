package flo2d

import "math"

// Vertex is a mesh corner point. Vertices are derived during geometry
// reconstruction; FLO-2D files never store them.
type Vertex struct {
	X, Y float64
}

// Face is one quadrilateral cell of the mesh, as four vertex indices in a
// fixed winding order.
type Face [4]int

// Extent is the bounding box of the mesh vertices.
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Statistics holds the minimum and maximum over a dataset or a group,
// ignoring missing values. For vector data the statistics are over the
// per-face magnitudes.
type Statistics struct {
	Min, Max float64
}

// Dataset is one time slice of values for a dataset group. Scalar groups
// carry one value per face; vector groups carry interleaved x/y pairs,
// two values per face. Values use NaN for "no data".
type Dataset struct {
	Time   float64
	Values []float64
	Stats  Statistics
}

// DatasetGroup is a named collection of time slices sharing a source
// locator and a scalar/vector and face/vertex classification. Groups
// produced by this package are always face-associated.
type DatasetGroup struct {
	Name       string
	URI        string
	Scalar     bool
	OnVertices bool
	Datasets   []*Dataset
	Stats      Statistics

	mesh *Mesh
}

// Mesh is a reconstructed FLO-2D grid: deduplicated vertices, one face
// per cell, and the dataset groups attached to it. Vertex and face counts
// are fixed once reconstruction completes; groups may be appended later.
type Mesh struct {
	SourceFile string
	Vertices   []Vertex
	Faces      []Face
	Extent     Extent
	Groups     []*DatasetGroup
}

// VertexCount returns the number of deduplicated vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces. It always equals the number of
// cell centers the mesh was built from.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// AddGroup appends a dataset group to the mesh. The mesh owns the group
// from then on.
func (m *Mesh) AddGroup(g *DatasetGroup) {
	m.Groups = append(m.Groups, g)
}

// Group returns the dataset group with the given name, or nil.
func (m *Mesh) Group(name string) *DatasetGroup {
	for _, g := range m.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// NewDatasetGroup creates a face-associated dataset group bound to the
// given mesh. The uri records where the group's data lives (or should be
// persisted to).
func NewDatasetGroup(mesh *Mesh, name, uri string, scalar bool) *DatasetGroup {
	return &DatasetGroup{
		Name:   name,
		URI:    uri,
		Scalar: scalar,
		mesh:   mesh,
	}
}

// Mesh returns the mesh the group is bound to.
func (g *DatasetGroup) Mesh() *Mesh {
	return g.mesh
}

// AddDataset computes the dataset's statistics, appends it to the group
// and folds it into the group statistics.
func (g *DatasetGroup) AddDataset(ds *Dataset) {
	if ds == nil || len(ds.Values) == 0 {
		return
	}
	ds.Stats = computeStatistics(ds.Values, !g.Scalar)
	g.Datasets = append(g.Datasets, ds)
	g.Stats = mergeStatistics(g.Stats, ds.Stats, len(g.Datasets) == 1)
}

// newDataset allocates a time slice with every value missing.
func newDataset(time float64, size int) *Dataset {
	values := make([]float64, size)
	for i := range values {
		values[i] = math.NaN()
	}
	return &Dataset{Time: time, Values: values}
}

func computeExtent(vertices []Vertex) Extent {
	if len(vertices) == 0 {
		return Extent{}
	}
	e := Extent{
		MinX: vertices[0].X, MaxX: vertices[0].X,
		MinY: vertices[0].Y, MaxY: vertices[0].Y,
	}
	for _, v := range vertices[1:] {
		e.MinX = math.Min(e.MinX, v.X)
		e.MaxX = math.Max(e.MaxX, v.X)
		e.MinY = math.Min(e.MinY, v.Y)
		e.MaxY = math.Max(e.MaxY, v.Y)
	}
	return e
}
