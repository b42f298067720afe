package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry:
// a box, a pyramid and a smooth shaded icosahedron.
func NewTriangleMeshScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      r3.Vec{X: 0, Y: 2, Z: 6}, // Position camera to see the meshes
		LookAt:      r3.Vec{X: 0, Y: 1, Z: 0},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        45,
		AspectRatio: 16.0 / 9.0,
	}

	s := newScene(cameraConfig, RenderConfig{Width: 640, Height: 360, MaxDepth: 4}, cameraOverrides)
	s.Ambient = core.NewColor(0.1, 0.1, 0.1)
	s.Background = core.NewColor(0.5, 0.7, 1.0)

	groundMaterial := core.NewDiffuseMaterial(core.NewColor(0.4, 0.4, 0.4), core.NewColor(0.7, 0.7, 0.7))
	s.Shapes = append(s.Shapes, geometry.NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 1, Z: 0}, groundMaterial))

	red := core.NewPhongMaterial(core.NewColor(0.8, 0.2, 0.2), core.NewColor(0.8, 0.2, 0.2), core.NewColor(0.5, 0.5, 0.5), 30)
	blue := core.NewDiffuseMaterial(core.NewColor(0.2, 0.3, 0.8), core.NewColor(0.2, 0.3, 0.8))
	gold := core.NewPhongMaterial(core.NewColor(0.8, 0.6, 0.2), core.NewColor(0.8, 0.6, 0.2), core.NewColor(1, 1, 1), 80)

	meshes := []struct {
		vertices []r3.Vec
		faces    []int
		material *core.Material
		smooth   bool
	}{
		{boxVertices(r3.Vec{X: -2, Y: 0.5, Z: 0}, 1, math.Pi/6), boxFaces, red, false},
		{pyramidVertices(r3.Vec{X: 0, Y: 1, Z: 0}, 1.5, 2, math.Pi/4), pyramidFaces, blue, false},
		{icosahedronVertices(r3.Vec{X: 2, Y: 0.8, Z: 0}, 0.8), icosahedronFaces, gold, true},
	}
	for _, m := range meshes {
		triangles, err := geometry.NewTriangleMesh(m.vertices, m.faces, m.material, &geometry.TriangleMeshOptions{Smooth: m.smooth})
		if err != nil {
			// Static index tables, a failure here is a programming error
			panic(err)
		}
		s.Shapes = append(s.Shapes, triangles...)
	}

	s.AddPointLight(r3.Vec{X: 2, Y: 6, Z: 3}, core.NewColor(40, 38, 35))
	s.AddPointLight(r3.Vec{X: -3, Y: 4, Z: 2}, core.NewColor(10, 12, 14))

	return s
}

// Face tables wind counter-clockwise seen from outside

var boxFaces = []int{
	0, 2, 1, 0, 3, 2, // back (z-)
	4, 5, 6, 4, 6, 7, // front (z+)
	0, 7, 3, 0, 4, 7, // left (x-)
	1, 2, 6, 1, 6, 5, // right (x+)
	0, 1, 5, 0, 5, 4, // bottom (y-)
	3, 7, 6, 3, 6, 2, // top (y+)
}

var pyramidFaces = []int{
	0, 1, 2, 0, 2, 3, // base
	0, 4, 1, // back
	1, 4, 2, // right
	2, 4, 3, // front
	3, 4, 0, // left
}

var icosahedronFaces = []int{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

var yAxis = r3.Vec{X: 0, Y: 1, Z: 0}

// boxVertices returns the corners of a cube rotated by angle around the
// vertical axis through center.
func boxVertices(center r3.Vec, size, angle float64) []r3.Vec {
	h := size / 2
	corners := []r3.Vec{
		{X: -h, Y: -h, Z: -h}, // 0: left-bottom-back
		{X: +h, Y: -h, Z: -h}, // 1: right-bottom-back
		{X: +h, Y: +h, Z: -h}, // 2: right-top-back
		{X: -h, Y: +h, Z: -h}, // 3: left-top-back
		{X: -h, Y: -h, Z: +h}, // 4: left-bottom-front
		{X: +h, Y: -h, Z: +h}, // 5: right-bottom-front
		{X: +h, Y: +h, Z: +h}, // 6: right-top-front
		{X: -h, Y: +h, Z: +h}, // 7: left-top-front
	}
	return placeVertices(corners, center, angle)
}

func pyramidVertices(center r3.Vec, baseSize, height, angle float64) []r3.Vec {
	b := baseSize / 2
	h := height / 2
	corners := []r3.Vec{
		{X: -b, Y: -h, Z: -b}, // 0: left-back
		{X: +b, Y: -h, Z: -b}, // 1: right-back
		{X: +b, Y: -h, Z: +b}, // 2: right-front
		{X: -b, Y: -h, Z: +b}, // 3: left-front
		{X: 0, Y: +h, Z: 0},   // 4: apex
	}
	return placeVertices(corners, center, angle)
}

func icosahedronVertices(center r3.Vec, radius float64) []r3.Vec {
	phi := (1 + math.Sqrt(5)) / 2
	corners := []r3.Vec{
		{X: -1, Y: phi, Z: 0}, {X: 1, Y: phi, Z: 0}, {X: -1, Y: -phi, Z: 0}, {X: 1, Y: -phi, Z: 0},
		{X: 0, Y: -1, Z: phi}, {X: 0, Y: 1, Z: phi}, {X: 0, Y: -1, Z: -phi}, {X: 0, Y: 1, Z: -phi},
		{X: phi, Y: 0, Z: -1}, {X: phi, Y: 0, Z: 1}, {X: -phi, Y: 0, Z: -1}, {X: -phi, Y: 0, Z: 1},
	}
	for i, c := range corners {
		corners[i] = r3.Scale(radius, r3.Unit(c))
	}
	return placeVertices(corners, center, 0)
}

// placeVertices rotates local vertices around the y axis and moves them to center
func placeVertices(local []r3.Vec, center r3.Vec, angle float64) []r3.Vec {
	placed := make([]r3.Vec, len(local))
	for i, v := range local {
		if angle != 0 {
			v = r3.Rotate(v, angle, yAxis)
		}
		placed[i] = r3.Add(center, v)
	}
	return placed
}
