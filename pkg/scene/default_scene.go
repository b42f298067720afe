package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewDefaultScene creates the default scene: a phong, a mirror and a glass
// sphere on a ground plane in front of a wall made of two triangles, lit by
// a point light and a spot light.
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      r3.Vec{X: 0, Y: 1.2, Z: 4}, // Slightly above the spheres
		LookAt:      r3.Vec{X: 0, Y: 0.6, Z: -0.5},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        45,
		AspectRatio: 1,
	}

	s := newScene(cameraConfig, RenderConfig{MaxDepth: 5}, cameraOverrides)
	s.Ambient = core.NewColor(0.1, 0.1, 0.1)
	s.Background = core.NewColor(0.05, 0.05, 0.1)

	// Materials are shared between primitives
	ground := core.NewDiffuseMaterial(core.NewColor(0.5, 0.5, 0.5), core.NewColor(0.6, 0.6, 0.6))
	wall := core.NewDiffuseMaterial(core.NewColor(0.2, 0.3, 0.5), core.NewColor(0.3, 0.45, 0.7))
	red := core.NewPhongMaterial(
		core.NewColor(0.8, 0.2, 0.2),
		core.NewColor(0.8, 0.2, 0.2),
		core.NewColor(1, 1, 1),
		50,
	)
	mirror := core.NewMirrorMaterial(core.NewColor(0.8, 0.8, 0.8))
	glass := core.NewGlassMaterial(core.NewColor(0.1, 0.1, 0.1), core.NewColor(0.9, 0.9, 0.9), 1.5)

	s.Shapes = append(s.Shapes,
		geometry.NewPlane(r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}, ground),
		geometry.NewSphere(r3.Vec{X: -1.2, Y: 0.6, Z: -0.5}, 0.6, red),
		geometry.NewSphere(r3.Vec{X: 0.2, Y: 0.7, Z: -1.2}, 0.7, mirror),
		geometry.NewSphere(r3.Vec{X: 1.2, Y: 0.5, Z: 0.6}, 0.5, glass),
	)

	// Back wall, counter-clockwise seen from the camera
	a := r3.Vec{X: -3, Y: 0, Z: -3}
	b := r3.Vec{X: 3, Y: 0, Z: -3}
	c := r3.Vec{X: 3, Y: 3, Z: -3}
	d := r3.Vec{X: -3, Y: 3, Z: -3}
	s.Shapes = append(s.Shapes,
		geometry.NewTriangle(a, b, c, wall),
		geometry.NewTriangle(a, c, d, wall),
	)

	s.AddPointLight(r3.Vec{X: 2, Y: 5, Z: 3}, core.NewColor(30, 30, 30))
	s.AddSpotLight(
		r3.Vec{X: -3, Y: 4, Z: 2},    // from
		r3.Vec{X: -1, Y: 0, Z: -0.5}, // to
		core.NewColor(20, 18, 15),
		5,  // exponent
		40, // cutoff
	)

	return s
}
