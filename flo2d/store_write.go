package flo2d

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-flo2d/hdf5"
)

// Attribute and dataset names of a persisted result sub-group.
const (
	dataTypeAttr    = "Data Type"
	compressionAttr = "DatasetCompression"
	timeUnitsAttr   = "TimeUnits"

	grouptypeScalar  = "DATASET SCALAR"
	grouptypeVector  = "DATASET VECTOR"
	grouptypeGeneric = "Generic"
)

// persistGroup writes one face-associated dataset group into the store at
// group.URI, creating the store with its bootstrap structure when it does
// not exist yet, or appending into the existing results group otherwise.
//
// A failure after store creation is not rolled back; the store may be
// left with bootstrap structure but no data group.
func persistGroup(group *DatasetGroup) error {
	if group.OnVertices {
		return fmt.Errorf("vertex data cannot be persisted, FLO-2D results are face-associated: %w", ErrUnsupportedLayout)
	}

	if fileExists(group.URI) {
		return appendToStore(group)
	}
	return createStore(group)
}

// createStore creates a fresh HDF5 store with the FLO-2D bootstrap
// metadata: a file version marker, a format type marker, and the results
// group, then writes the dataset group into it.
func createStore(group *DatasetGroup) error {
	f, err := hdf5.Create(group.URI)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer f.Close()

	root := f.Root()
	if _, err := root.CreateFloat32Dataset("File Version", []uint64{1}, []float32{1.0}); err != nil {
		return fmt.Errorf("writing file version: %w", err)
	}
	if _, err := root.CreateStringDataset("File Type", "Xmdf"); err != nil {
		return fmt.Errorf("writing file type: %w", err)
	}

	results, err := root.CreateGroup(resultsGroupName,
		hdf5.WithGroupAttribute(grouptypeAttr, grouptypeGeneric))
	if err != nil {
		return fmt.Errorf("creating results group: %w", err)
	}

	return writeGroup(results, group)
}

// appendToStore adds the dataset group to an existing store's results
// group.
func appendToStore(group *DatasetGroup) error {
	f, err := hdf5.OpenReadWrite(group.URI)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	results, err := f.OpenGroup(resultsGroupName)
	if err != nil {
		return fmt.Errorf("results group: %w", ErrInvalidData)
	}

	return writeGroup(results, group)
}

// uniqueGroupName returns a name not yet present under the results group,
// suffixing the base name with a monotonically increasing counter on
// collision. Membership is probed through the group's link state, which
// works on freshly created stores too.
func uniqueGroupName(results *hdf5.Group, base string) string {
	name := base
	for i := 0; ; i++ {
		if !results.HasMember(name) {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
}

// writeGroup serializes the dataset group under the results group:
// classification attributes, the time axis, per-slice min/max summaries,
// and the value array laid out [time][face] for scalar groups and
// [time][face][2] for vector groups. Every value passes through the
// sentinel encoding, so missing becomes the format-native zero.
func writeGroup(results *hdf5.Group, group *DatasetGroup) error {
	timesCount := len(group.Datasets)
	facesCount := group.Mesh().FaceCount()

	valCount := facesCount
	valueDims := []uint64{uint64(timesCount), uint64(facesCount)}
	groupType := grouptypeScalar
	if !group.Scalar {
		valCount *= 2
		valueDims = append(valueDims, 2)
		groupType = grouptypeVector
	}

	times := make([]float64, timesCount)
	mins := make([]float32, timesCount)
	maxs := make([]float32, timesCount)
	values := make([]float32, 0, timesCount*valCount)

	for i, ds := range group.Datasets {
		times[i] = ds.Time
		mins[i] = float32(ds.Stats.Min)
		maxs[i] = float32(ds.Stats.Max)
		for _, v := range ds.Values {
			values = append(values, float32(encodeSentinel(v)))
		}
	}

	// Member names cannot contain the store's path separator; slash-named
	// groups ("Depth/Maximums") are stored flat.
	name := uniqueGroupName(results, strings.ReplaceAll(group.Name, "/", "_"))
	sub, err := results.CreateGroup(name,
		hdf5.WithGroupAttribute(dataTypeAttr, int32(0)),
		hdf5.WithGroupAttribute(compressionAttr, int32(-1)),
		hdf5.WithGroupAttribute(grouptypeAttr, groupType),
		hdf5.WithGroupAttribute(timeUnitsAttr, "Hours"))
	if err != nil {
		return fmt.Errorf("creating group %q: %w", name, err)
	}

	if _, err := sub.CreateFloat32Dataset("Maxs", []uint64{uint64(timesCount)}, maxs); err != nil {
		return fmt.Errorf("group %q: writing Maxs: %w", name, err)
	}
	if _, err := sub.CreateFloat32Dataset("Mins", []uint64{uint64(timesCount)}, mins); err != nil {
		return fmt.Errorf("group %q: writing Mins: %w", name, err)
	}
	if _, err := sub.CreateFloat64Dataset("Times", []uint64{uint64(timesCount)}, times); err != nil {
		return fmt.Errorf("group %q: writing Times: %w", name, err)
	}
	if _, err := sub.CreateFloat32Dataset("Values", valueDims, values); err != nil {
		return fmt.Errorf("group %q: writing Values: %w", name, err)
	}

	return nil
}
