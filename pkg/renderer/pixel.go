package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Gamma is the display gamma applied by EncodePixel
const Gamma = 2.2

// EncodePixel converts linear radiance to an 8-bit pixel:
// clamp(v*exposure, 0, 1)^(1/Gamma)*255, rounded, with full alpha.
func EncodePixel(c core.Color, exposure float64) color.RGBA {
	c = c.Scale(exposure).Clamp(0.0, 1.0).GammaCorrect(Gamma)

	return color.RGBA{
		R: toByte(c.R),
		G: toByte(c.G),
		B: toByte(c.B),
		A: 255,
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(255 * v))
}
