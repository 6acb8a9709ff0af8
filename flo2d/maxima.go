package flo2d

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"
)

// addStaticGroup attaches a single-slice (time 0) scalar face group.
func addStaticGroup(mesh *Mesh, name, uri string, values []float64) {
	group := NewDatasetGroup(mesh, name, uri, true)
	ds := &Dataset{Time: 0.0, Values: values}
	group.AddDataset(ds)
	mesh.AddGroup(group)
}

// parseStaticMaxima reads one of the optional 4-field maxima files
// ("id x y value", one line per face in file order) into a per-face
// buffer. The buffer must be sized to the mesh's face count; unlisted
// trailing faces stay missing.
func parseStaticMaxima(path, name string, buf []float64, overwrite bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", name, ErrFileNotFound)
	}
	defer f.Close()

	faceIdx := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if faceIdx == len(buf) {
			return fmt.Errorf("%s: more than %d records: %w", name, len(buf), ErrIncompatibleMesh)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 {
			return fmt.Errorf("%s: expected 4 fields, got %d: %w", name, len(fields), ErrMalformedRecord)
		}
		v, err := parseFloat(fields[3])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		val := decodeSentinel(v)
		if !overwrite || !math.IsNaN(val) {
			buf[faceIdx] = val
		}
		faceIdx++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// parseMaxDepth reads DEPTH.OUT, the optional per-face maximum depth, and
// produces the static maximum depth and maximum water level groups. The
// water level maximum is the depth maximum plus the face's bed elevation.
func parseMaxDepth(mainFile string, mesh *Mesh, elevations []float64) error {
	path := fileInDir(mainFile, depthFile)
	if !fileExists(path) {
		return nil // optional file
	}

	facesCount := mesh.FaceCount()
	maxDepth := make([]float64, facesCount)
	maxWaterLevel := make([]float64, facesCount)
	for i := range maxDepth {
		maxDepth[i] = math.NaN()
		maxWaterLevel[i] = math.NaN()
	}

	if err := parseStaticMaxima(path, depthFile, maxDepth, false); err != nil {
		return err
	}
	for i, v := range maxDepth {
		if !math.IsNaN(v) {
			v += elevations[i]
		}
		maxWaterLevel[i] = v
	}

	addStaticGroup(mesh, groupMaxDepth, mainFile, maxDepth)
	addStaticGroup(mesh, groupMaxWaterLevel, mainFile, maxWaterLevel)
	return nil
}

// parseMaxVelocity combines the two optional maximum-velocity files into
// one static group. VELFP.OUT (floodplain) seeds the buffer; VELOC.OUT
// (channel) overwrites a face only where it reports a value, since channel
// flow takes precedence where both exist.
//
// When VELFP.OUT is absent the whole group is skipped, even if VELOC.OUT
// is present. That mirrors the reference implementation; whether a
// channel-only dataset should be produced instead is an open question.
func parseMaxVelocity(mainFile string, mesh *Mesh) error {
	velfpPath := fileInDir(mainFile, velfpFile)
	if !fileExists(velfpPath) {
		return nil // optional, and VELOC.OUT alone contributes nothing
	}

	maxVel := make([]float64, mesh.FaceCount())
	for i := range maxVel {
		maxVel[i] = math.NaN()
	}

	if err := parseStaticMaxima(velfpPath, velfpFile, maxVel, false); err != nil {
		return err
	}

	velocPath := fileInDir(mainFile, velocFile)
	if fileExists(velocPath) {
		if err := parseStaticMaxima(velocPath, velocFile, maxVel, true); err != nil {
			return err
		}
	}

	addStaticGroup(mesh, groupMaxVelocity, mainFile, maxVel)
	return nil
}
