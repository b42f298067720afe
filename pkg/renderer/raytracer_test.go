package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func emptyScene(width, height, workers int, background core.Color) *scene.Scene {
	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.AspectRatio = float64(width) / float64(height)
	return &scene.Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Background:   background,
		Config: scene.RenderConfig{
			Width:       width,
			Height:      height,
			MaxDepth:    3,
			Exposure:    1,
			Workers:     workers,
			RowsPerTask: 1,
		},
	}
}

func TestRender_EmptySceneIsBackground(t *testing.T) {
	background := core.NewColor(0.5, 0.25, 0)
	expected := EncodePixel(background, 1)

	for _, workers := range []int{1, 3} {
		s := emptyScene(4, 4, workers, background)
		result, err := NewRaytracer(s, nil, nil).Render(context.Background())
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}

		for j := 0; j < 4; j++ {
			for i := 0; i < 4; i++ {
				if got := result.Image.RGBAAt(i, j); got != expected {
					t.Errorf("workers=%d: pixel (%d,%d) expected %v, got %v", workers, i, j, expected, got)
				}
				if rays := result.Pixels[j][i].Rays; rays != 1 {
					t.Errorf("workers=%d: pixel (%d,%d) expected 1 ray, got %d", workers, i, j, rays)
				}
			}
		}

		stats := result.Stats
		if stats.TotalPixels != 16 || stats.Rays != 16 || stats.ShadowRays != 0 || stats.MaxDepth != 0 {
			t.Errorf("workers=%d: unexpected stats %+v", workers, stats)
		}
	}
}

func TestRender_RowZeroIsTop(t *testing.T) {
	s := emptyScene(8, 8, 1, core.NewColor(0, 0, 1))
	s.Ambient = core.NewColor(1, 1, 1)
	floor := core.NewDiffuseMaterial(core.NewColor(1, 0, 0), core.Black)
	s.Shapes = []core.Shape{
		geometry.NewPlane(r3.Vec{X: 0, Y: -1, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}, floor),
	}

	result, err := NewRaytracer(s, nil, nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sky := EncodePixel(core.NewColor(0, 0, 1), 1)
	ground := EncodePixel(core.NewColor(1, 0, 0), 1)
	if got := result.Image.RGBAAt(4, 0); got != sky {
		t.Errorf("Expected top row to see the background %v, got %v", sky, got)
	}
	if got := result.Image.RGBAAt(4, 7); got != ground {
		t.Errorf("Expected bottom row to see the floor %v, got %v", ground, got)
	}
}

func TestRender_WorkerCountDoesNotChangeOutput(t *testing.T) {
	render := func(workers int) *RenderResult {
		s := scene.NewDefaultScene()
		s.ApplyRenderOverrides(scene.RenderConfig{Width: 24, Height: 16, Workers: workers, RowsPerTask: 3})
		result, err := NewRaytracer(s, nil, nil).Render(context.Background())
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		return result
	}

	sequential := render(1)
	for _, workers := range []int{2, 4, 7} {
		parallel := render(workers)
		if !bytes.Equal(sequential.Image.Pix, parallel.Image.Pix) {
			t.Errorf("workers=%d: image differs from the sequential render", workers)
		}
		got, want := parallel.Stats, sequential.Stats
		got.Duration, want.Duration = 0, 0
		if got != want {
			t.Errorf("workers=%d: expected stats %+v, got %+v", workers, want, got)
		}
	}

	if sequential.Stats.ShadowRays == 0 {
		t.Error("Expected the default scene to trace shadow rays")
	}
}

func TestRender_Cancelled(t *testing.T) {
	for _, workers := range []int{1, 4} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := emptyScene(4, 4, workers, core.Black)
		result, err := NewRaytracer(s, nil, nil).Render(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
		if result != nil {
			t.Errorf("workers=%d: expected no result for a cancelled render", workers)
		}
	}
}

func TestRender_InvalidSize(t *testing.T) {
	s := emptyScene(4, 4, 1, core.Black)
	s.Config.Width = 0
	if _, err := NewRaytracer(s, nil, nil).Render(context.Background()); err == nil {
		t.Error("Expected an error for a zero width image")
	}
}

func TestRowBands(t *testing.T) {
	tests := []struct {
		name        string
		height      int
		rowsPerTask int
		expected    []image.Rectangle
	}{
		{"even split", 4, 2, []image.Rectangle{image.Rect(0, 0, 5, 2), image.Rect(0, 2, 5, 4)}},
		{"short last band", 5, 2, []image.Rectangle{image.Rect(0, 0, 5, 2), image.Rect(0, 2, 5, 4), image.Rect(0, 4, 5, 5)}},
		{"band taller than image", 3, 10, []image.Rectangle{image.Rect(0, 0, 5, 3)}},
		{"zero means whole image", 3, 0, []image.Rectangle{image.Rect(0, 0, 5, 3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rowBands(5, tt.height, tt.rowsPerTask)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d bands, got %d: %v", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Band %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}
