package renderer

import (
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

func TestRenderStats_Add(t *testing.T) {
	var total RenderStats
	total.add(RenderStats{TotalPixels: 10, Rays: 12, ShadowRays: 20, MaxDepth: 2})
	total.add(RenderStats{TotalPixels: 10, Rays: 10, ShadowRays: 18, MaxDepth: 1})

	expected := RenderStats{TotalPixels: 20, Rays: 22, ShadowRays: 38, MaxDepth: 2}
	if total != expected {
		t.Errorf("Expected %+v, got %+v", expected, total)
	}
	if avg := total.AverageRaysPerPixel(); avg != 3 {
		t.Errorf("Expected 3 rays per pixel, got %f", avg)
	}
}

func TestRenderStats_AverageEmpty(t *testing.T) {
	if avg := (RenderStats{}).AverageRaysPerPixel(); avg != 0 {
		t.Errorf("Expected 0 for an empty render, got %f", avg)
	}
}

func TestPixelGrid(t *testing.T) {
	grid := NewPixelGrid(3, 2)
	w, h := grid.Dims()
	if w != 3 || h != 2 {
		t.Fatalf("Expected 3x2 grid, got %dx%d", w, h)
	}

	grid[1][2].TraceStats = integrator.TraceStats{Rays: 4}
	if grid[1][2].Total() != 4 {
		t.Errorf("Expected 4 rays at (2,1), got %d", grid[1][2].Total())
	}

	if w, h := (PixelGrid{}).Dims(); w != 0 || h != 0 {
		t.Errorf("Expected empty dims, got %dx%d", w, h)
	}
}
