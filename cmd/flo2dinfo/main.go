// Inspection tool for FLO-2D result sets.
package main

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-flo2d/flo2d"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: flo2dinfo <main file>")
		fmt.Println("Loads the FLO-2D result set next to <main file> and prints a summary.")
		os.Exit(1)
	}

	uri := os.Args[1]

	var driver flo2d.Driver
	if !driver.CanReadMesh(uri) {
		fmt.Printf("ERROR: no CADPTS.DAT/FPLAIN.DAT next to %s\n", uri)
		os.Exit(1)
	}

	mesh, err := driver.Load(uri)
	if err != nil {
		fmt.Printf("ERROR: load failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s (%s) ===\n\n", uri, flo2d.DriverName)
	fmt.Printf("Vertices: %d\n", mesh.VertexCount())
	fmt.Printf("Faces:    %d\n", mesh.FaceCount())
	e := mesh.Extent
	fmt.Printf("Extent:   [%g, %g] x [%g, %g]\n\n", e.MinX, e.MaxX, e.MinY, e.MaxY)

	fmt.Printf("Dataset groups: %d\n", len(mesh.Groups))
	for _, g := range mesh.Groups {
		kind := "scalar"
		if !g.Scalar {
			kind = "vector"
		}
		fmt.Printf("  %-24s %s, %d timestep(s), min %g, max %g\n",
			g.Name, kind, len(g.Datasets), g.Stats.Min, g.Stats.Max)
	}
}
