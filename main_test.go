package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{
		"-scene", "cornell", "-width", "32", "-height", "16", "-depth", "2",
		"-exposure", "1.5", "-workers", "1", "-rows", "4", "-out", "a.png", "-heatmap", "h.png",
	}, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := scene.RenderConfig{Width: 32, Height: 16, MaxDepth: 2, Exposure: 1.5, Workers: 1, RowsPerTask: 4}
	if opts.render != expected {
		t.Errorf("Expected %+v, got %+v", expected, opts.render)
	}
	if opts.scene != "cornell" || opts.out != "a.png" || opts.heatMap != "h.png" {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestParseFlags_Help(t *testing.T) {
	var out bytes.Buffer
	_, err := parseFlags([]string{"-help", "-scenes", t.TempDir()}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Expected flag.ErrHelp, got %v", err)
	}

	for _, info := range scene.ListBuiltInScenes() {
		if !strings.Contains(out.String(), info.ID) {
			t.Errorf("Expected help to list scene %q", info.ID)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "render.png")
	heat := filepath.Join(dir, "heat.png")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-scene", "default", "-width", "16", "-height", "12", "-out", out, "-heatmap", heat,
	}, &stdout, quietLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	file, err := os.Open(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Expected a valid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("Expected 16x12 image, got %dx%d", b.Dx(), b.Dy())
	}

	if _, err := os.Stat(heat); err != nil {
		t.Errorf("Expected heat map file: %v", err)
	}
	if !strings.Contains(stdout.String(), out) {
		t.Errorf("Expected output path in %q", stdout.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"unknown scene", []string{"-scene", "nonexistent"}, scene.ErrUnknownScene},
		{"missing scene file", []string{"-scene", "does/not/exist.json"}, os.ErrNotExist},
		{"bad flag", []string{"-width", "wide"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, io.Discard, quietLogger())
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "render.png")
	err := run(ctx, []string{"-width", "8", "-height", "8", "-out", out}, io.Discard, quietLogger())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("Expected no output file for a cancelled render")
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name      string
		sceneName string
		expected  string
	}{
		{"built-in scene", "default", filepath.Join("output", "default")},
		{"cornell scene", "cornell", filepath.Join("output", "cornell")},
		{"scene file", "scenes/my-scene.json", filepath.Join("output", "my-scene")},
		{"upper case extension", "nested/dir/Room.JSON", filepath.Join("output", "Room")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := createOutputDir(tt.sceneName); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
