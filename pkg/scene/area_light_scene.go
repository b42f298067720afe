package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// areaLightSamples is the grid resolution of the ceiling light
const areaLightSamples = 8

// NewAreaLightScene creates a few diffuse and phong spheres under a square
// area light, showing soft shadows.
func NewAreaLightScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      r3.Vec{X: 0, Y: 2.5, Z: 5},
		LookAt:      r3.Vec{X: 0, Y: 0.5, Z: 0},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        40,
		AspectRatio: 1,
	}

	s := newScene(cameraConfig, RenderConfig{MaxDepth: 3}, cameraOverrides)
	s.Ambient = core.NewColor(0.05, 0.05, 0.05)
	s.Background = core.Black

	ground := core.NewDiffuseMaterial(core.NewColor(0.8, 0.8, 0.8), core.NewColor(0.8, 0.8, 0.8))
	yellow := core.NewDiffuseMaterial(core.NewColor(0.8, 0.7, 0.2), core.NewColor(0.8, 0.7, 0.2))
	blue := core.NewPhongMaterial(
		core.NewColor(0.2, 0.3, 0.8),
		core.NewColor(0.2, 0.3, 0.8),
		core.NewColor(0.6, 0.6, 0.6),
		20,
	)

	s.Shapes = append(s.Shapes,
		geometry.NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 1, Z: 0}, ground),
		geometry.NewSphere(r3.Vec{X: -0.8, Y: 0.5, Z: 0}, 0.5, yellow),
		geometry.NewSphere(r3.Vec{X: 0.8, Y: 0.5, Z: 0}, 0.5, blue),
		geometry.NewSphere(r3.Vec{X: 0, Y: 0.3, Z: 1}, 0.3, yellow),
	)

	// 2x2 light 4 units up, total power 16 spread over 64 point lights
	s.AddAreaLight(r3.Vec{X: 0, Y: 4, Z: 0}, 2, core.NewColor(4, 4, 4), areaLightSamples)

	return s
}
