package flo2d

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReconstructsGrid(t *testing.T) {
	mesh := loadGrid2x2(t)

	// Four unit cells share corners; 16 synthesized corners collapse to 9.
	assert.Equal(t, 9, mesh.VertexCount())
	assert.Equal(t, 4, mesh.FaceCount())

	// Indices follow first occurrence, cells in file order.
	assert.Equal(t, Face{0, 1, 2, 3}, mesh.Faces[0])
	assert.Equal(t, Face{4, 5, 1, 0}, mesh.Faces[1])
	assert.Equal(t, Face{1, 6, 7, 2}, mesh.Faces[2])
	assert.Equal(t, Face{5, 8, 6, 1}, mesh.Faces[3])

	// Neighboring cells reference the exact same vertices.
	assert.Equal(t, mesh.Vertices[mesh.Faces[0][0]], mesh.Vertices[mesh.Faces[1][3]])
	assert.Equal(t, mesh.Vertices[mesh.Faces[0][1]], mesh.Vertices[mesh.Faces[1][2]])

	assert.Equal(t, Extent{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2}, mesh.Extent)
}

func TestLoadAttachesBedElevation(t *testing.T) {
	mesh := loadGrid2x2(t)

	g := mesh.Group(groupBedElevation)
	require.NotNil(t, g)
	assert.True(t, g.Scalar)
	assert.False(t, g.OnVertices)
	require.Len(t, g.Datasets, 1)
	assert.Equal(t, 0.0, g.Datasets[0].Time)
	assert.Equal(t, []float64{10, 20, 30, 40}, g.Datasets[0].Values)
	assert.Equal(t, Statistics{Min: 10, Max: 40}, g.Stats)
}

func TestCanReadMesh(t *testing.T) {
	var driver Driver

	uri := writeGrid2x2(t)
	assert.True(t, driver.CanReadMesh(uri))

	empty := filepath.Join(t.TempDir(), "BASE.DAT")
	assert.False(t, driver.CanReadMesh(empty))
}

func TestLoadMissingGeometry(t *testing.T) {
	var driver Driver

	t.Run("no main file", func(t *testing.T) {
		// Geometry siblings alone do not make a loadable result set.
		uri := writeGrid2x2(t)
		require.NoError(t, os.Remove(uri))
		_, err := driver.Load(uri)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("no cell centers", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("no connectivity", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		writeFixture(t, dir, cadptsFile, "1 0.5 0.5\n")
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestLoadMalformedGeometry(t *testing.T) {
	var driver Driver

	t.Run("bad field count", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		writeFixture(t, dir, cadptsFile, "1 0.5\n")
		writeFixture(t, dir, fplainFile, "1 0 0 0 0 0.04 10.0\n")
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("bad number", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		writeFixture(t, dir, cadptsFile, "1 0.5 north\n")
		writeFixture(t, dir, fplainFile, "1 0 0 0 0 0.04 10.0\n")
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("connectivity id outside mesh", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		writeFixture(t, dir, cadptsFile, "1 0.5 0.5\n")
		writeFixture(t, dir, fplainFile, "7 0 0 0 0 0.04 10.0\n")
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrIncompatibleMesh)
	})

	t.Run("connectivity shorter than cell list", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		writeFixture(t, dir, cadptsFile,
			"1 0.5 0.5\n"+
				"2 1.5 0.5\n"+
				"3 0.5 1.5\n"+
				"4 1.5 1.5\n")
		writeFixture(t, dir, fplainFile,
			"1 3 2 0 0 0.04 10.0\n"+
				"2 4 0 0 1 0.04 20.0\n"+
				"3 0 4 1 0 0.04 30.0\n")
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrIncompatibleMesh)
	})
}

func TestCellSize(t *testing.T) {
	t.Run("north neighbor", func(t *testing.T) {
		cells := []cellCenter{
			{id: 0, x: 0.5, y: 0.5, conn: [4]int{1, -1, -1, -1}},
			{id: 1, x: 0.5, y: 3.5, conn: [4]int{-1, -1, 0, -1}},
		}
		size, err := cellSize(cells)
		require.NoError(t, err)
		assert.Equal(t, 3.0, size)
	})

	// Only slot 0 is ever inspected: cells connected exclusively
	// east/west/south look isolated to the size scan.
	t.Run("no north neighbor anywhere", func(t *testing.T) {
		cells := []cellCenter{
			{id: 0, x: 0.5, y: 0.5, conn: [4]int{-1, 1, -1, -1}},
			{id: 1, x: 1.5, y: 0.5, conn: [4]int{-1, -1, -1, 0}},
		}
		_, err := cellSize(cells)
		assert.ErrorIs(t, err, ErrIncompatibleMesh)
	})

	t.Run("isolated single cell", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "BASE.DAT", "")
		writeFixture(t, dir, cadptsFile, "1 0.5 0.5\n")
		writeFixture(t, dir, fplainFile, "1 0 0 0 0 0.04 10.0\n")
		var driver Driver
		_, err := driver.Load(filepath.Join(dir, "BASE.DAT"))
		assert.ErrorIs(t, err, ErrIncompatibleMesh)
	})
}

func TestVertexKey(t *testing.T) {
	assert.Equal(t, int64(1002000), vertexKey(Vertex{X: 1, Y: 2}))

	// Corners computed from opposite sides of a shared edge land on the
	// same key despite floating point noise.
	a := vertexKey(Vertex{X: 0.5 + 0.5, Y: 0.5 + 0.5})
	b := vertexKey(Vertex{X: 1.5 - 0.5, Y: 1.5 - 0.5})
	assert.Equal(t, a, b)

	// Millimeter-scale separation stays distinct.
	assert.NotEqual(t,
		vertexKey(Vertex{X: 100, Y: 100}),
		vertexKey(Vertex{X: 100.001, Y: 100}))
}

func TestComputeExtent(t *testing.T) {
	assert.Equal(t, Extent{}, computeExtent(nil))

	e := computeExtent([]Vertex{{X: 2, Y: -1}, {X: -3, Y: 4}, {X: 0, Y: 0}})
	assert.Equal(t, Extent{MinX: -3, MaxX: 2, MinY: -1, MaxY: 4}, e)
}

func TestComputeStatistics(t *testing.T) {
	t.Run("scalar skips missing", func(t *testing.T) {
		st := computeStatistics([]float64{math.NaN(), 3, -1, math.NaN(), 7}, false)
		assert.Equal(t, Statistics{Min: -1, Max: 7}, st)
	})

	t.Run("vector uses magnitudes", func(t *testing.T) {
		st := computeStatistics([]float64{3, 4, math.NaN(), math.NaN(), 0, 1}, true)
		assert.Equal(t, Statistics{Min: 1, Max: 5}, st)
	})
}
