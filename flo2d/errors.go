// Package flo2d reads FLO-2D hydraulic simulation results into a mesh with
// time-series dataset groups, and writes dataset groups back into the
// FLO-2D HDF5 result store.
//
// The FLO-2D text formats never store mesh vertices or faces explicitly;
// only cell centers and neighbor ids exist on disk. The package
// reconstructs the quadrilateral mesh from those, then attaches results
// read either from the TIMDEP.HDF5 store or, when that is absent or
// unusable, from the plain-text output files.
package flo2d

import "errors"

// Common errors
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrIncompatibleMesh  = errors.New("incompatible mesh")
	ErrInvalidData       = errors.New("invalid data")
	ErrUnsupportedLayout = errors.New("unsupported layout")
)
