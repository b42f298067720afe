package loaders

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// stlTriangleSize is the size of one binary STL record: a normal, three
// vertices and a 16-bit attribute count
const stlTriangleSize = 4*3*4 + 2

// LoadSTL loads a binary STL file. Identical vertices are merged so the
// mesh can be smooth shaded. The per-facet normals in the file are ignored.
func LoadSTL(filename string, logger core.Logger) (*MeshData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open STL file: %w", err)
	}
	defer file.Close()

	mesh, header, err := ReadSTL(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file %s: %w", filename, err)
	}

	if logger != nil {
		logger.Printf("Loaded STL %q: %d vertices, %d triangles in %v\n",
			header, len(mesh.Vertices), mesh.TriangleCount(), time.Since(startTime))
	}
	return mesh, nil
}

// ReadSTL reads a binary STL mesh from r and returns it with the file header
func ReadSTL(r io.Reader) (*MeshData, string, error) {
	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, "", fmt.Errorf("reading header: %w", err)
	}
	name := strings.TrimRight(string(header.H[:]), " \x00")

	mesh := &MeshData{
		Faces: make([]int, 0, 3*int(header.NTri)),
	}
	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	triBuf := make([]byte, stlTriangleSize)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, name, fmt.Errorf("reading triangle %d of %d: %w", i, header.NTri, err)
		}
		for v := 0; v < 3; v++ {
			for c := range vert {
				const start = 3 * 4 // Skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(mesh.Vertices)
				mesh.Vertices = append(mesh.Vertices, r3.Vec{
					X: float64(vert[0]),
					Y: float64(vert[1]),
					Z: float64(vert[2]),
				})
				vertMap[vert] = vertIndex
			}
			mesh.Faces = append(mesh.Faces, vertIndex)
		}
	}

	return mesh, name, nil
}
