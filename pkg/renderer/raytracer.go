package renderer

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// NewDefaultLogger returns a logger that writes timestamped lines to stderr
func NewDefaultLogger() core.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

// Raytracer renders a scene into an image, one band of rows at a time
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     scene.RenderConfig
	logger     core.Logger
}

// RenderResult is the output of a complete render
type RenderResult struct {
	Image  *image.RGBA
	Pixels PixelGrid // Tracing work per pixel, indexed [row][column]
	Stats  RenderStats
}

// NewRaytracer creates a raytracer for s using its render configuration.
// A nil integrator selects Whitted tracing; a nil logger discards output.
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, logger core.Logger) *Raytracer {
	if integ == nil {
		integ = integrator.NewWhittedIntegrator(s.Config.MaxDepth)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Raytracer{
		scene:      s,
		integrator: integ,
		config:     s.Config,
		logger:     logger,
	}
}

// PixelRay returns the primary ray for pixel (i, j). The camera is sampled at
// x = i/W, y = (H-1-j)/H so that row 0 is the top of the image.
func (rt *Raytracer) PixelRay(i, j int) core.Ray {
	x := float64(i) / float64(rt.config.Width)
	y := float64(rt.config.Height-1-j) / float64(rt.config.Height)
	return rt.scene.Camera.GetRay(x, y)
}

// RenderBounds traces every pixel inside bounds, writing colors to img and
// per-pixel work to pixels.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA, pixels PixelGrid) RenderStats {
	var stats RenderStats

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			var trace integrator.TraceStats
			c := rt.integrator.RayColor(rt.PixelRay(i, j), rt.scene, &trace)

			img.SetRGBA(i, j, EncodePixel(c, rt.config.Exposure))
			pixels[j][i].TraceStats = trace

			stats.add(RenderStats{
				TotalPixels: 1,
				Rays:        trace.Rays,
				ShadowRays:  trace.ShadowRays,
				MaxDepth:    trace.MaxDepth,
			})
		}
	}

	return stats
}

// Render traces the whole image. Bands of RowsPerTask rows are handed to
// Workers goroutines; with a single worker the bands are rendered in order on
// the calling goroutine. If ctx is cancelled no further bands are started and
// ctx.Err() is returned.
func (rt *Raytracer) Render(ctx context.Context) (*RenderResult, error) {
	width, height := rt.config.Width, rt.config.Height
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if rt.scene.Camera == nil {
		return nil, fmt.Errorf("scene has no camera")
	}

	result := &RenderResult{
		Image:  image.NewRGBA(image.Rect(0, 0, width, height)),
		Pixels: NewPixelGrid(width, height),
	}
	bands := rowBands(width, height, rt.config.RowsPerTask)

	rt.logger.Printf("Rendering %dx%d, max depth %d, %d shapes, %d lights, %d bands\n",
		width, height, rt.config.MaxDepth, len(rt.scene.Shapes), len(rt.scene.Lights), len(bands))
	startTime := time.Now()

	var err error
	if rt.config.Workers == 1 {
		err = rt.renderSequential(ctx, bands, result)
	} else {
		err = rt.renderParallel(ctx, bands, result)
	}
	if err != nil {
		rt.logger.Printf("Render stopped: %v\n", err)
		return nil, err
	}

	result.Stats.Duration = time.Since(startTime)
	rt.logger.Printf("Render completed in %v: %d rays, %d shadow rays, max depth %d\n",
		result.Stats.Duration, result.Stats.Rays, result.Stats.ShadowRays, result.Stats.MaxDepth)

	return result, nil
}

func (rt *Raytracer) renderSequential(ctx context.Context, bands []image.Rectangle, result *RenderResult) error {
	progress := newProgress(rt.logger, len(bands))
	for _, band := range bands {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Stats.add(rt.RenderBounds(band, result.Image, result.Pixels))
		progress.done()
	}
	return nil
}

func (rt *Raytracer) renderParallel(ctx context.Context, bands []image.Rectangle, result *RenderResult) error {
	pool := NewWorkerPool(rt, rt.config.Workers, len(bands))
	pool.Start(ctx)

	for i, band := range bands {
		pool.SubmitTask(RowTask{
			Bounds: band,
			TaskID: i,
			Image:  result.Image,
			Pixels: result.Pixels,
		})
	}

	progress := newProgress(rt.logger, len(bands))
	var firstErr error
	for range bands {
		res, ok := pool.GetResult()
		if !ok {
			break
		}
		if res.Error != nil {
			if firstErr == nil {
				firstErr = res.Error
			}
			continue
		}
		result.Stats.add(res.Stats)
		progress.done()
	}
	pool.Stop()

	return firstErr
}

// rowBands splits the image into full-width bands of rowsPerTask rows.
// The last band may be shorter.
func rowBands(width, height, rowsPerTask int) []image.Rectangle {
	if rowsPerTask <= 0 {
		rowsPerTask = height
	}
	var bands []image.Rectangle
	for y := 0; y < height; y += rowsPerTask {
		bands = append(bands, image.Rect(0, y, width, min(y+rowsPerTask, height)))
	}
	return bands
}

// progress logs each time another quarter of the bands is finished
type progress struct {
	logger    core.Logger
	total     int
	completed int
	quarter   int
}

func newProgress(logger core.Logger, total int) *progress {
	return &progress{logger: logger, total: total}
}

func (p *progress) done() {
	p.completed++
	if q := p.completed * 4 / p.total; q > p.quarter {
		p.quarter = q
		p.logger.Printf("%d%% of bands complete (%d/%d)\n", q*25, p.completed, p.total)
	}
}
