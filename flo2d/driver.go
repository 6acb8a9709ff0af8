package flo2d

import (
	"fmt"

	"github.com/robert-malhotra/go-flo2d/hdf5"
)

// DriverName tags meshes and dataset groups produced by this package.
const DriverName = "FLO2D"

// Driver loads FLO-2D result sets and persists dataset groups back into
// the FLO-2D HDF5 store. The zero value is ready to use. A load either
// produces a complete mesh or fails outright; partially built meshes are
// never returned.
type Driver struct{}

// CanReadMesh reports whether the mandatory geometry files (CADPTS.DAT
// and FPLAIN.DAT) exist alongside the given main file.
func (d *Driver) CanReadMesh(uri string) bool {
	return fileExists(fileInDir(uri, cadptsFile)) && fileExists(fileInDir(uri, fplainFile))
}

// CanReadDatasets reports whether uri is an HDF5 store containing the
// FLO-2D results group.
func (d *Driver) CanReadDatasets(uri string) bool {
	if !fileExists(uri) {
		return false
	}
	f, err := hdf5.Open(uri)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = f.OpenGroup(resultsGroupName)
	return err == nil
}

// Load reconstructs the mesh next to the main file and attaches every
// result it can find. Results come from TIMDEP.HDF5 when present and
// valid; otherwise the text outputs (TIMDEP.OUT, DEPTH.OUT, VELFP.OUT,
// VELOC.OUT) are read instead, never both. The bed elevation from
// FPLAIN.DAT is always attached as a static group.
func (d *Driver) Load(uri string) (*Mesh, error) {
	if !fileExists(uri) {
		return nil, fmt.Errorf("%s: %w", uri, ErrFileNotFound)
	}
	cells, err := parseCellCenters(uri)
	if err != nil {
		return nil, err
	}
	elevations, err := parseConnectivity(uri, cells)
	if err != nil {
		return nil, err
	}
	size, err := cellSize(cells)
	if err != nil {
		return nil, err
	}

	mesh := buildMesh(uri, cells, size/2.0)
	addStaticGroup(mesh, groupBedElevation, uri, elevations)

	if err := readStoreDatasets(mesh, fileInDir(uri, storeFile)); err != nil {
		// The store is absent or unusable; fall back to the text outputs.
		if err := parseTimeVarying(uri, mesh, elevations); err != nil {
			return nil, err
		}
		if err := parseMaxDepth(uri, mesh, elevations); err != nil {
			return nil, err
		}
		if err := parseMaxVelocity(uri, mesh); err != nil {
			return nil, err
		}
	}

	return mesh, nil
}

// LoadDatasetsInto augments an existing mesh with the result groups of
// the HDF5 store at uri. Unlike Load, a store problem is surfaced to the
// caller here; there is nothing to fall back to.
func (d *Driver) LoadDatasetsInto(mesh *Mesh, uri string) error {
	if mesh == nil {
		return fmt.Errorf("nil mesh: %w", ErrIncompatibleMesh)
	}
	if !fileExists(uri) {
		return fmt.Errorf("%s: %w", uri, ErrFileNotFound)
	}
	if err := readStoreDatasets(mesh, uri); err != nil {
		return fmt.Errorf("reading datasets: %w", ErrInvalidData)
	}
	return nil
}

// Persist writes a face-associated dataset group into the HDF5 store at
// the group's URI, creating the store if needed. Vertex-associated groups
// are rejected with ErrUnsupportedLayout. A failure after store creation
// may leave the bootstrap structure behind without the data group.
func (d *Driver) Persist(group *DatasetGroup) error {
	return persistGroup(group)
}
