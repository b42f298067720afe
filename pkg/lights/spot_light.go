package lights

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SpotLight is a point light restricted to a cone around From→To
type SpotLight struct {
	From      r3.Vec
	To        r3.Vec
	Intensity core.Color
	Exponent  float64 // Falloff toward the cone edge, like a shininess exponent
	Cutoff    float64 // Full cone angle in degrees

	axis      r3.Vec
	cosCutoff float64
}

// NewSpotLight creates a new spot light
func NewSpotLight(from, to r3.Vec, intensity core.Color, exponent, cutoff float64) *SpotLight {
	return &SpotLight{
		From:      from,
		To:        to,
		Intensity: intensity,
		Exponent:  exponent,
		Cutoff:    cutoff,
		axis:      r3.Unit(r3.Sub(to, from)),
		cosCutoff: math.Cos(cutoff * (math.Pi / 180) / 2),
	}
}

// Sample returns the light arriving at point. Points outside the cone get a
// sample with black intensity and the usual direction.
func (sl *SpotLight) Sample(point r3.Vec) core.LightSample {
	l := r3.Unit(r3.Sub(point, sl.From))
	cosAlpha := r3.Dot(sl.axis, l)

	sample := core.LightSample{
		Intensity: core.Black,
		Position:  sl.From,
		Direction: r3.Scale(-1, l),
	}
	if cosAlpha > sl.cosCutoff {
		distance2 := r3.Norm2(r3.Sub(sl.From, point))
		sample.Intensity = sl.Intensity.Scale(math.Pow(cosAlpha, sl.Exponent) / distance2)
	}
	return sample
}
