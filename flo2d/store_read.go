package flo2d

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-flo2d/hdf5"
)

// resultsGroupName is the fixed top-level group of the FLO-2D HDF5 result
// store.
const resultsGroupName = "TIMDEP NETCDF OUTPUT RESULTS"

const grouptypeAttr = "Grouptype"

// readStoreDatasets loads every result sub-group of the HDF5 store at
// storePath into the mesh. Any problem — file absent, unreadable store,
// missing group, attribute or array, or an array sized inconsistently
// with the mesh — returns an error without touching the mesh, so the
// caller can fall back to the text readers with no partial binary data
// left behind.
func readStoreDatasets(mesh *Mesh, storePath string) error {
	if !fileExists(storePath) {
		return fmt.Errorf("%s: %w", storePath, ErrFileNotFound)
	}

	f, err := hdf5.Open(storePath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	results, err := f.OpenGroup(resultsGroupName)
	if err != nil {
		return fmt.Errorf("results group: %w", err)
	}

	names, err := results.Members()
	if err != nil {
		return fmt.Errorf("listing results: %w", err)
	}

	facesCount := mesh.FaceCount()

	// Groups are collected first and attached only once every sub-group
	// read cleanly: a failure halfway must not leave a partial mix.
	var groups []*DatasetGroup

	for _, name := range names {
		grp, err := results.OpenGroup(name)
		if err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}

		typeAttr := grp.Attr(grouptypeAttr)
		if typeAttr == nil {
			return fmt.Errorf("group %q: missing %s attribute: %w", name, grouptypeAttr, ErrInvalidData)
		}
		groupType, err := typeAttr.ReadScalarString()
		if err != nil {
			return fmt.Errorf("group %q: reading %s: %w", name, grouptypeAttr, err)
		}
		isVector := strings.Contains(strings.ToLower(groupType), "vector")

		timesDs, err := grp.OpenDataset("Times")
		if err != nil {
			return fmt.Errorf("group %q: Times: %w", name, err)
		}
		timesteps := int(timesDs.NumElements())

		valuesDs, err := grp.OpenDataset("Values")
		if err != nil {
			return fmt.Errorf("group %q: Values: %w", name, err)
		}

		expected := facesCount * timesteps
		if isVector {
			expected *= 2
		}
		if int(valuesDs.NumElements()) != expected {
			return fmt.Errorf("group %q: %d values, want %d: %w", name, valuesDs.NumElements(), expected, ErrInvalidData)
		}

		times, err := timesDs.ReadFloat64()
		if err != nil {
			return fmt.Errorf("group %q: reading Times: %w", name, err)
		}
		values, err := valuesDs.ReadFloat32()
		if err != nil {
			return fmt.Errorf("group %q: reading Values: %w", name, err)
		}

		group := NewDatasetGroup(mesh, name, storePath, !isVector)
		for ts := 0; ts < timesteps; ts++ {
			var ds *Dataset
			if isVector {
				ds = newDataset(times[ts], 2*facesCount)
				for i := 0; i < facesCount; i++ {
					idx := 2 * (ts*facesCount + i)
					ds.Values[2*i] = decodeSentinel(float64(values[idx]))
					ds.Values[2*i+1] = decodeSentinel(float64(values[idx+1]))
				}
			} else {
				ds = newDataset(times[ts], facesCount)
				for i := 0; i < facesCount; i++ {
					ds.Values[i] = decodeSentinel(float64(values[ts*facesCount+i]))
				}
			}
			group.AddDataset(ds)
		}
		groups = append(groups, group)
	}

	for _, group := range groups {
		mesh.AddGroup(group)
	}
	return nil
}
