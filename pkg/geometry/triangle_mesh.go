package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals []r3.Vec // Optional per-vertex normals, indexed like the vertices
	Smooth  bool     // Compute per-vertex normals when none are supplied
}

// NewTriangleMesh creates triangles from vertices and face indices.
// Every group of 3 face indices forms a triangle. All triangles share the
// given material. With options nil every triangle is flat shaded.
func NewTriangleMesh(vertices []r3.Vec, faces []int, material *core.Material, options *TriangleMeshOptions) ([]core.Shape, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face index count %d is not a multiple of 3", len(faces))
	}
	for _, idx := range faces {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("face index %d out of range [0, %d)", idx, len(vertices))
		}
	}

	var normals []r3.Vec
	if options != nil {
		switch {
		case options.Normals != nil:
			if len(options.Normals) != len(vertices) {
				return nil, fmt.Errorf("got %d normals for %d vertices", len(options.Normals), len(vertices))
			}
			normals = options.Normals
		case options.Smooth:
			normals = ComputeVertexNormals(vertices, faces)
		}
	}

	shapes := make([]core.Shape, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		p0, p1, p2 := vertices[i0], vertices[i1], vertices[i2]

		if normals != nil {
			shapes = append(shapes, NewSmoothTriangle(p0, p1, p2, material, normals[i0], normals[i1], normals[i2]))
		} else {
			shapes = append(shapes, NewTriangle(p0, p1, p2, material))
		}
	}

	return shapes, nil
}

// ComputeVertexNormals averages the area-weighted face normals around each
// vertex. Faces use the counter-clockwise winding (P1-P0)×(P2-P0).
func ComputeVertexNormals(vertices []r3.Vec, faces []int) []r3.Vec {
	sums := make([]r3.Vec, len(vertices))
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		// Unnormalized cross product weights by twice the face area
		n := r3.Cross(r3.Sub(vertices[i1], vertices[i0]), r3.Sub(vertices[i2], vertices[i0]))
		sums[i0] = r3.Add(sums[i0], n)
		sums[i1] = r3.Add(sums[i1], n)
		sums[i2] = r3.Add(sums[i2], n)
	}

	normals := make([]r3.Vec, len(vertices))
	for i, n := range sums {
		if r3.Norm2(n) == 0 {
			// Unreferenced or degenerate vertex
			normals[i] = r3.Vec{X: 0, Y: 1, Z: 0}
			continue
		}
		normals[i] = r3.Unit(n)
	}
	return normals
}
