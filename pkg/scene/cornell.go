package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewCornellScene creates a classic Cornell box with a mirror sphere and a
// glass sphere, lit by a ceiling area light.
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      r3.Vec{X: 278, Y: 278, Z: -800}, // Outside the box looking in
		LookAt:      r3.Vec{X: 278, Y: 278, Z: 0},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        40,
		AspectRatio: 1,
	}

	s := newScene(cameraConfig, RenderConfig{MaxDepth: 8}, cameraOverrides)
	s.Ambient = core.NewColor(0.05, 0.05, 0.05)
	s.Background = core.Black

	white := core.NewDiffuseMaterial(core.NewColor(0.73, 0.73, 0.73), core.NewColor(0.73, 0.73, 0.73))
	red := core.NewDiffuseMaterial(core.NewColor(0.65, 0.05, 0.05), core.NewColor(0.65, 0.05, 0.05))
	green := core.NewDiffuseMaterial(core.NewColor(0.12, 0.45, 0.15), core.NewColor(0.12, 0.45, 0.15))

	// Standard 555 unit box. Plane normals point into the box since
	// surfaces facing away from a light receive nothing from it.
	boxSize := 555.0
	s.Shapes = append(s.Shapes,
		geometry.NewPlane(r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}, white),        // floor
		geometry.NewPlane(r3.Vec{X: 0, Y: boxSize, Z: 0}, r3.Vec{X: 0, Y: -1, Z: 0}, white), // ceiling
		geometry.NewPlane(r3.Vec{X: 0, Y: 0, Z: boxSize}, r3.Vec{X: 0, Y: 0, Z: -1}, white), // back wall
		geometry.NewPlane(r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 1, Y: 0, Z: 0}, red),          // left wall
		geometry.NewPlane(r3.Vec{X: boxSize, Y: 0, Z: 0}, r3.Vec{X: -1, Y: 0, Z: 0}, green), // right wall
	)

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(r3.Vec{X: 185, Y: 82.5, Z: 169}, 82.5, core.NewMirrorMaterial(core.NewColor(0.8, 0.8, 0.9))),
		geometry.NewSphere(r3.Vec{X: 370, Y: 90, Z: 351}, 90,
			core.NewGlassMaterial(core.NewColor(0.1, 0.1, 0.1), core.NewColor(0.9, 0.9, 0.9), 1.5)),
	)

	// Ceiling light just below the ceiling so shadow rays do not hit it
	s.AddAreaLight(r3.Vec{X: boxSize / 2, Y: boxSize - 1, Z: boxSize / 2}, 130, core.NewColor(20, 20, 20), 6)

	return s
}
