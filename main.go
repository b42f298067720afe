package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	scene     string
	scenesDir string
	out       string
	heatMap   string
	render    scene.RenderConfig
}

func parseFlags(args []string, stdout io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)

	fs.StringVar(&opts.scene, "scene", "default", "Built-in scene name or path to a .json scene file")
	fs.StringVar(&opts.scenesDir, "scenes", "scenes", "Directory searched for scene files when listing scenes")
	fs.StringVar(&opts.out, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.heatMap, "heatmap", "", "Also write a rays-per-pixel heat map to this path")
	fs.IntVar(&opts.render.Width, "width", 0, "Image width (0 keeps the scene's width)")
	fs.IntVar(&opts.render.Height, "height", 0, "Image height (0 keeps the scene's height)")
	fs.IntVar(&opts.render.MaxDepth, "depth", 0, "Maximum reflection/refraction depth (0 keeps the scene's depth)")
	fs.Float64Var(&opts.render.Exposure, "exposure", 0, "Exposure multiplier (0 keeps the scene's exposure)")
	fs.IntVar(&opts.render.Workers, "workers", 0, "Parallel workers, 1 renders sequentially (0 keeps the scene's setting)")
	fs.IntVar(&opts.render.RowsPerTask, "rows", 0, "Image rows per worker task (0 keeps the scene's setting)")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if *help {
		printHelp(stdout, fs, opts.scenesDir)
		return opts, flag.ErrHelp
	}
	return opts, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet, scenesDir string) {
	fmt.Fprintln(w, "Whitted Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)

	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		fmt.Fprintf(w, "Could not list scenes: %v\n", err)
		return
	}
	fmt.Fprintln(w, "Available scenes:")
	for _, group := range response.Groups {
		fmt.Fprintf(w, "  %s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "    %-16s %s\n", info.ID, info.Description)
		}
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger core.Logger) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	logger.Printf("Loading scene %s...\n", opts.scene)
	s, err := scene.NewScene(opts.scene, logger)
	if err != nil {
		return err
	}
	s.ApplyRenderOverrides(opts.render)

	raytracer := renderer.NewRaytracer(s, nil, logger)
	result, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.scene, err)
	}
	logger.Printf("Average rays per pixel: %.2f\n", result.Stats.AverageRaysPerPixel())

	filename := opts.out
	if filename == "" {
		outputDir := createOutputDir(opts.scene)
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(filename, result.Image); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if opts.heatMap != "" {
		if err := renderer.SaveHeatMap(result.Pixels, opts.heatMap); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Heat map saved as %s\n", opts.heatMap)
	}

	return nil
}

// createOutputDir returns the output directory for a scene: the scene ID
// for built-in scenes, the file name without extension for scene files.
func createOutputDir(sceneName string) string {
	base := sceneName
	if strings.EqualFold(filepath.Ext(sceneName), ".json") {
		base = strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	}
	return filepath.Join("output", base)
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return file.Close()
}
