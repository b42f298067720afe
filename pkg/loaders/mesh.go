package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// MeshData contains the raw data loaded from a mesh file
type MeshData struct {
	Vertices []r3.Vec    // Vertex positions
	Faces    []int       // Triangle indices (3 per triangle)
	Normals  []r3.Vec    // Per-vertex normals, indexed like Vertices - empty if not present
	Groups   []FaceGroup // Runs of faces sharing a material - empty if the file has none

	// Materials read from the file's material library, by name
	Materials map[string]*core.Material
}

// FaceGroup is a run of Faces indices [Start, Start+Count) using one material
type FaceGroup struct {
	Material string
	Start    int
	Count    int
}

// TriangleCount returns the number of triangles in the mesh
func (m *MeshData) TriangleCount() int {
	return len(m.Faces) / 3
}

// LoadMesh loads a mesh file, choosing the reader from the file extension
func LoadMesh(filename string, logger core.Logger) (*MeshData, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		return LoadOBJ(filename, logger)
	case ".stl":
		return LoadSTL(filename, logger)
	case ".ply":
		return LoadPLY(filename, logger)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q: %s", ext, filename)
	}
}
