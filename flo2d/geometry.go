package flo2d

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// cellCenter is one record of CADPTS.DAT joined with its connectivity from
// FPLAIN.DAT. conn holds the four cardinal neighbor cell ids (north, east,
// south, west), -1 for an open boundary.
type cellCenter struct {
	id   int
	x, y float64
	conn [4]int
}

const (
	cadptsFile = "CADPTS.DAT"
	fplainFile = "FPLAIN.DAT"
	timdepFile = "TIMDEP.OUT"
	depthFile  = "DEPTH.OUT"
	velfpFile  = "VELFP.OUT"
	velocFile  = "VELOC.OUT"
	storeFile  = "TIMDEP.HDF5"
)

// fileInDir resolves a sibling file of the main result file.
func fileInDir(mainFile, name string) string {
	return filepath.Join(filepath.Dir(mainFile), name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseFloat(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", field, ErrMalformedRecord)
	}
	return v, nil
}

func parseInt(field string) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", field, ErrMalformedRecord)
	}
	return v, nil
}

// parseCellCenters reads CADPTS.DAT: one cell center per line as
// "id x y", ids numbered from 1 in the file.
func parseCellCenters(mainFile string) ([]cellCenter, error) {
	path := fileInDir(mainFile, cadptsFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cadptsFile, ErrFileNotFound)
	}
	defer f.Close()

	var cells []cellCenter
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s: expected 3 fields, got %d: %w", cadptsFile, len(fields), ErrMalformedRecord)
		}
		id, err := parseInt(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cadptsFile, err)
		}
		x, err := parseFloat(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cadptsFile, err)
		}
		y, err := parseFloat(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cadptsFile, err)
		}
		cells = append(cells, cellCenter{
			id:   id - 1, // numbered from 1
			x:    x,
			y:    y,
			conn: [4]int{-1, -1, -1, -1},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", cadptsFile, err)
	}
	return cells, nil
}

// parseConnectivity reads FPLAIN.DAT: "id north east south west roughness
// bedElevation" per line, neighbor ids numbered from 1 with 0 marking an
// open boundary. It fills in each cell's conn slots and returns the bed
// elevations in cell order.
func parseConnectivity(mainFile string, cells []cellCenter) ([]float64, error) {
	path := fileInDir(mainFile, fplainFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fplainFile, ErrFileNotFound)
	}
	defer f.Close()

	var elevations []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 7 {
			return nil, fmt.Errorf("%s: expected 7 fields, got %d: %w", fplainFile, len(fields), ErrMalformedRecord)
		}
		id, err := parseInt(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fplainFile, err)
		}
		idx := id - 1 // numbered from 1
		if idx < 0 || idx >= len(cells) {
			return nil, fmt.Errorf("%s: cell id %d outside mesh: %w", fplainFile, id, ErrIncompatibleMesh)
		}
		for j := 0; j < 4; j++ {
			neighbor, err := parseInt(fields[j+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fplainFile, err)
			}
			cells[idx].conn[j] = neighbor - 1 // 0 marks a boundary
		}
		elev, err := parseFloat(fields[6])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fplainFile, err)
		}
		elevations = append(elevations, elev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fplainFile, err)
	}
	// One record per cell; downstream readers index the elevations by face.
	if len(elevations) != len(cells) {
		return nil, fmt.Errorf("%s: %d records for %d cells: %w", fplainFile, len(elevations), len(cells), ErrIncompatibleMesh)
	}
	return elevations, nil
}

// cellSize finds the first cell that is not isolated from the others and
// returns the distance to that neighbor's center.
//
// Quirk kept from the reference implementation: the inner loop always
// inspects slot 0 (north), so only a north neighbor ever triggers the
// computation and the distance is always vertical. Cells connected only
// east/west/south are skipped. Fixing this would change results on
// existing data, so the behavior stands.
func cellSize(cells []cellCenter) (float64, error) {
	for i := range cells {
		for j := 0; j < 4; j++ {
			idx := cells[i].conn[0]
			if idx > -1 {
				if j == 0 || j == 2 {
					return math.Abs(cells[idx].y - cells[i].y), nil
				}
				return math.Abs(cells[idx].x - cells[i].x), nil
			}
		}
	}
	return 0, fmt.Errorf("no cell has a neighbor: %w", ErrIncompatibleMesh)
}

// Vertex deduplication key. The historical ordering key x*1e6 + y*1e3 is
// kept for compatibility and quantized to an integer so it can serve as a
// map key; corners whose keys round to the same integer collapse to one
// vertex. The key can alias for coordinate magnitudes beyond ~1e12 or
// sub-millimeter spacing; callers feed it projected coordinates where
// that does not occur.
const (
	vertexKeyScaleX = 1e6
	vertexKeyScaleY = 1e3
)

func vertexKey(v Vertex) int64 {
	return int64(math.Round(v.X*vertexKeyScaleX + v.Y*vertexKeyScaleY))
}

// cornerVertex synthesizes one corner of a square cell at the fixed
// quadrant offsets, in the winding order (+x,-y), (+x,+y), (-x,+y),
// (-x,-y).
func cornerVertex(position int, halfSize float64, cell cellCenter) Vertex {
	v := Vertex{X: cell.x, Y: cell.y}
	switch position {
	case 0:
		v.X += halfSize
		v.Y -= halfSize
	case 1:
		v.X += halfSize
		v.Y += halfSize
	case 2:
		v.X -= halfSize
		v.Y += halfSize
	case 3:
		v.X -= halfSize
		v.Y -= halfSize
	}
	return v
}

// buildMesh creates all faces from the cell centers. Vertices are not
// stored in FLO-2D files, so each cell's corners are synthesized and
// deduplicated across cells: adjacent cells sharing a corner reference
// the same vertex index, assigned in order of first occurrence.
func buildMesh(mainFile string, cells []cellCenter, halfSize float64) *Mesh {
	var vertices []Vertex
	faces := make([]Face, 0, len(cells))
	uniqueVertices := make(map[int64]int) // vertex key -> index

	for _, cell := range cells {
		var face Face
		for position := 0; position < 4; position++ {
			v := cornerVertex(position, halfSize, cell)
			key := vertexKey(v)
			idx, ok := uniqueVertices[key]
			if !ok {
				idx = len(vertices)
				uniqueVertices[key] = idx
				vertices = append(vertices, v)
			}
			face[position] = idx
		}
		faces = append(faces, face)
	}

	return &Mesh{
		SourceFile: mainFile,
		Vertices:   vertices,
		Faces:      faces,
		Extent:     computeExtent(vertices),
	}
}
