package scene

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// sunDistance places the sun far enough away that its shadows are nearly parallel
const sunDistance = 1000.0

// NewSunScene creates a small plaza of blocks lit by the sun as seen from
// the given location at time t. It fails if the sun is below the horizon.
func NewSunScene(t time.Time, latitude, longitude float64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		Center:      r3.Vec{X: 6, Y: 5, Z: 10},
		LookAt:      r3.Vec{X: 0, Y: 0.5, Z: 0},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        40,
		AspectRatio: 1,
	}

	s := newScene(cameraConfig, RenderConfig{MaxDepth: 3}, cameraOverrides)
	s.Ambient = core.NewColor(0.15, 0.17, 0.2)
	s.Background = core.NewColor(0.45, 0.65, 0.95)

	sun, err := lights.NewSunLight(t, latitude, longitude, r3.Vec{}, sunDistance, core.NewColor(1.2, 1.15, 1.05))
	if err != nil {
		return nil, fmt.Errorf("sun scene: %w", err)
	}
	s.Lights = append(s.Lights, sun)

	paving := core.NewDiffuseMaterial(core.NewColor(0.6, 0.58, 0.55), core.NewColor(0.6, 0.58, 0.55))
	stone := core.NewDiffuseMaterial(core.NewColor(0.75, 0.72, 0.68), core.NewColor(0.75, 0.72, 0.68))
	pool := core.NewMirrorMaterial(core.NewColor(0.5, 0.6, 0.7))
	s.Shapes = append(s.Shapes,
		geometry.NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 1, Z: 0}, paving),
		geometry.NewSphere(r3.Vec{X: 0, Y: 0.6, Z: 0}, 0.6, pool),
	)

	// Blocks at the four corners; each one's shadow shows the sun's bearing
	for i, corner := range []r3.Vec{{X: -3, Z: -3}, {X: 3, Z: -3}, {X: -3, Z: 3}, {X: 3, Z: 3}} {
		height := 1 + 0.5*float64(i)
		center := r3.Vec{X: corner.X, Y: height / 2, Z: corner.Z}
		vertices := make([]r3.Vec, 0, 8)
		for _, v := range boxVertices(r3.Vec{}, 1, 0) {
			vertices = append(vertices, r3.Add(center, r3.Vec{X: v.X, Y: v.Y * height, Z: v.Z}))
		}
		block, err := geometry.NewTriangleMesh(vertices, boxFaces, stone, nil)
		if err != nil {
			return nil, fmt.Errorf("sun scene block %d: %w", i, err)
		}
		s.Shapes = append(s.Shapes, block...)
	}

	return s, nil
}
