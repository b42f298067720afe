package lights

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight emits light equally in all directions from a single position
type PointLight struct {
	Position  r3.Vec
	Intensity core.Color
}

// NewPointLight creates a new point light
func NewPointLight(position r3.Vec, intensity core.Color) *PointLight {
	return &PointLight{
		Position:  position,
		Intensity: intensity,
	}
}

// Sample returns the light arriving at point with inverse-square falloff
func (pl *PointLight) Sample(point r3.Vec) core.LightSample {
	toLight := r3.Sub(pl.Position, point)
	return core.LightSample{
		Intensity: pl.Intensity.Scale(1 / r3.Norm2(toLight)),
		Position:  pl.Position,
		Direction: r3.Unit(toLight),
	}
}
