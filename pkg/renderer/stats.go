package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Total number of pixels rendered
	Rays        int           // Primary and secondary rays traced
	ShadowRays  int           // Shadow rays traced
	MaxDepth    int           // Deepest recursion level reached by any pixel
	Duration    time.Duration // Wall clock time of the render
}

// AverageRaysPerPixel returns the mean number of rays of either kind per pixel
func (s RenderStats) AverageRaysPerPixel() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.Rays+s.ShadowRays) / float64(s.TotalPixels)
}

// add folds the stats of a single band into s
func (s *RenderStats) add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.Rays += other.Rays
	s.ShadowRays += other.ShadowRays
	if other.MaxDepth > s.MaxDepth {
		s.MaxDepth = other.MaxDepth
	}
}

// PixelStats records the tracing work spent on a single pixel
type PixelStats struct {
	integrator.TraceStats
}

// PixelGrid holds per-pixel statistics indexed [row][column]
type PixelGrid [][]PixelStats

// NewPixelGrid allocates a grid for a width x height image
func NewPixelGrid(width, height int) PixelGrid {
	grid := make(PixelGrid, height)
	for j := range grid {
		grid[j] = make([]PixelStats, width)
	}
	return grid
}

// Dims returns the grid width and height
func (g PixelGrid) Dims() (width, height int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g[0]), len(g)
}
