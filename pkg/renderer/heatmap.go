package renderer

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HeatMap builds a plot of the rays traced per pixel. Shadow rays are
// included, so lit diffuse surfaces and deep glass both show up hot.
func HeatMap(pixels PixelGrid) *plot.Plot {
	plt := plot.New()
	plt.Title.Text = "Rays per pixel"
	plt.X.Label.Text = "x"
	plt.Y.Label.Text = "y"

	grid := newRayCountGrid(pixels)
	hm := plotter.NewHeatMap(grid, palette.Heat(256, 1))
	hm.Underflow = color.Black
	hm.Rasterized = true
	plt.Add(hm)

	return plt
}

// SaveHeatMap writes the rays-per-pixel heat map to path. The image format
// follows the file extension.
func SaveHeatMap(pixels PixelGrid, path string) error {
	width, height := pixels.Dims()
	if width == 0 || height == 0 {
		return fmt.Errorf("heat map %s: no pixel statistics", path)
	}

	plotWidth := 15 * vg.Centimeter
	plotHeight := plotWidth * vg.Length(height) / vg.Length(width)
	if err := HeatMap(pixels).Save(plotWidth, plotHeight+2*vg.Centimeter, path); err != nil {
		return fmt.Errorf("heat map %s: %w", path, err)
	}
	return nil
}

// rayCountGrid adapts a PixelGrid to plotter.GridXYZ. Plot rows grow
// upward, so row r is image row height-1-r.
type rayCountGrid struct {
	pixels   PixelGrid
	min, max float64
}

func newRayCountGrid(pixels PixelGrid) *rayCountGrid {
	g := &rayCountGrid{pixels: pixels}
	first := true
	for _, row := range pixels {
		for _, p := range row {
			v := float64(p.Total())
			if first || v < g.min {
				g.min = v
			}
			if first || v > g.max {
				g.max = v
			}
			first = false
		}
	}
	// Keep the palette scale finite for uniform images.
	if g.max <= g.min {
		g.max = g.min + 1
	}
	return g
}

func (g *rayCountGrid) Dims() (c, r int) {
	return g.pixels.Dims()
}

func (g *rayCountGrid) Z(c, r int) float64 {
	return float64(g.pixels[len(g.pixels)-1-r][c].Total())
}

func (g *rayCountGrid) X(c int) float64 {
	return float64(c)
}

func (g *rayCountGrid) Y(r int) float64 {
	return float64(r)
}

func (g *rayCountGrid) Min() float64 {
	return g.min
}

func (g *rayCountGrid) Max() float64 {
	return g.max
}
