package lights

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewAreaLight discretizes a horizontal square light of the given size,
// centered at center, into an n×n grid of point lights. Each light carries
// intensity·size²/n² so the grid sums to the emitted power of the square.
// Lights are ordered row-major with j (z) outer and i (x) inner.
func NewAreaLight(center r3.Vec, size float64, intensity core.Color, n int) []*PointLight {
	if n <= 0 {
		return nil
	}

	fn := float64(n)
	share := intensity.Scale(size * size / fn / fn)

	grid := make([]*PointLight, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			position := r3.Vec{
				X: center.X + (float64(i)/fn-0.5)*size,
				Y: center.Y,
				Z: center.Z + (float64(j)/fn-0.5)*size,
			}
			grid = append(grid, NewPointLight(position, share))
		}
	}
	return grid
}
