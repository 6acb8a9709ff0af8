package flo2d

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"
)

// Group names are fixed by the format; the HDF5 store uses the same names
// for its result sub-groups.
const (
	groupBedElevation  = "Bed Elevation"
	groupDepth         = "Depth"
	groupVelocity      = "Velocity"
	groupWaterLevel    = "Water Level"
	groupMaxDepth      = "Depth/Maximums"
	groupMaxWaterLevel = "Water Level/Maximums"
	groupMaxVelocity   = "Velocity/Maximums"
)

// parseTimeVarying reads TIMDEP.OUT, the optional time-varying results.
// The file is a sequence of slices: a single-field line carries the slice
// time, followed by one record per face in strict file order. Records have
// 5 fields (FLO-2D: id, depth, velocity, velocity x, velocity y) or 6
// (FLO-2D Pro, with a trailing water surface elevation). Each slice yields
// one dataset in each of the Depth, Velocity and Water Level groups; the
// water level is the depth plus the face's bed elevation.
func parseTimeVarying(mainFile string, mesh *Mesh, elevations []float64) error {
	path := fileInDir(mainFile, timdepFile)
	f, err := os.Open(path)
	if err != nil {
		return nil // optional file
	}
	defer f.Close()

	facesCount := mesh.FaceCount()

	depthGroup := NewDatasetGroup(mesh, groupDepth, mainFile, true)
	waterLevelGroup := NewDatasetGroup(mesh, groupWaterLevel, mainFile, true)
	velocityGroup := NewDatasetGroup(mesh, groupVelocity, mainFile, false)

	var depthDs, waterLevelDs, velocityDs *Dataset
	faceIdx := 0
	sliceWrites := 0

	flush := func() {
		depthGroup.AddDataset(depthDs)
		velocityGroup.AddDataset(velocityDs)
		waterLevelGroup.AddDataset(waterLevelDs)
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch len(fields) {
		case 1:
			time, err := parseFloat(fields[0])
			if err != nil {
				return fmt.Errorf("%s: %w", timdepFile, err)
			}
			if sliceWrites > 0 {
				flush()
			}
			depthDs = newDataset(time, facesCount)
			velocityDs = newDataset(time, 2*facesCount)
			waterLevelDs = newDataset(time, facesCount)
			faceIdx = 0
			sliceWrites = 0

		case 5, 6:
			if depthDs == nil {
				return fmt.Errorf("%s: record before first time marker: %w", timdepFile, ErrMalformedRecord)
			}
			if faceIdx == facesCount {
				return fmt.Errorf("%s: more than %d records in one time slice: %w", timdepFile, facesCount, ErrIncompatibleMesh)
			}

			vx, err := parseFloat(fields[3])
			if err != nil {
				return fmt.Errorf("%s: %w", timdepFile, err)
			}
			vy, err := parseFloat(fields[4])
			if err != nil {
				return fmt.Errorf("%s: %w", timdepFile, err)
			}
			velocityDs.Values[2*faceIdx] = decodeSentinel(vx)
			velocityDs.Values[2*faceIdx+1] = decodeSentinel(vy)

			d, err := parseFloat(fields[1])
			if err != nil {
				return fmt.Errorf("%s: %w", timdepFile, err)
			}
			depth := decodeSentinel(d)
			depthDs.Values[faceIdx] = depth

			if !math.IsNaN(depth) {
				depth += elevations[faceIdx]
			}
			waterLevelDs.Values[faceIdx] = depth

			faceIdx++
			sliceWrites++

		default:
			return fmt.Errorf("%s: unexpected %d-field record: %w", timdepFile, len(fields), ErrMalformedRecord)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", timdepFile, err)
	}

	if depthDs != nil {
		flush()
	}

	mesh.AddGroup(depthGroup)
	mesh.AddGroup(velocityGroup)
	mesh.AddGroup(waterLevelGroup)
	return nil
}
