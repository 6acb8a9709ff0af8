package flo2d

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFixture writes one result file into dir.
func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// writeGrid2x2 writes the mandatory geometry files of a 2x2 grid with
// unit cell size and returns the main file path. Cells are numbered
//
//	3 4
//	1 2
//
// with bed elevations 10, 20, 30, 40.
func writeGrid2x2(t *testing.T) string {
	t.Helper()
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
			"3 0 4 1 0 0.04 30.0\n"+
			"4 0 0 3 2 0.04 40.0\n")
	return filepath.Join(dir, "BASE.DAT")
}

func loadGrid2x2(t *testing.T) *Mesh {
	t.Helper()
	var driver Driver
	mesh, err := driver.Load(writeGrid2x2(t))
	require.NoError(t, err)
	return mesh
}
