package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Epsilon is the minimum ray parameter accepted by scene queries. It keeps
// secondary rays from hitting the surface they start on.
const Epsilon = 0.0001

// Scene contains all the elements needed for rendering.
// A scene is not modified once rendering starts.
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Shapes       []core.Shape // Objects in the scene
	Lights       []core.Light // Lights in the scene
	Ambient      core.Color   // Ambient light, multiplied by each material's Ka
	Background   core.Color   // Color of rays that escape the scene
	Config       RenderConfig
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width       int     `json:"width"`       // Image width
	Height      int     `json:"height"`      // Image height
	MaxDepth    int     `json:"maxDepth"`    // Maximum reflection/refraction depth
	Exposure    float64 `json:"exposure"`    // Linear multiplier applied before gamma
	Workers     int     `json:"workers"`     // Parallel render workers, 1 renders sequentially on the caller
	RowsPerTask int     `json:"rowsPerTask"` // Image rows handed to a worker at a time
}

// DefaultRenderConfig returns the configuration used when a scene sets none
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:       400,
		Height:      400,
		MaxDepth:    5,
		Exposure:    1.0,
		Workers:     1,
		RowsPerTask: 10,
	}
}

// MergeRenderConfig returns base with every positive field of override applied
func MergeRenderConfig(base, override RenderConfig) RenderConfig {
	merged := base
	if override.Width > 0 {
		merged.Width = override.Width
	}
	if override.Height > 0 {
		merged.Height = override.Height
	}
	if override.MaxDepth > 0 {
		merged.MaxDepth = override.MaxDepth
	}
	if override.Exposure > 0 {
		merged.Exposure = override.Exposure
	}
	if override.Workers > 0 {
		merged.Workers = override.Workers
	}
	if override.RowsPerTask > 0 {
		merged.RowsPerTask = override.RowsPerTask
	}
	return merged
}

// ApplyRenderOverrides merges override into the render configuration. When
// the image size changes the camera is rebuilt to match its aspect ratio.
func (s *Scene) ApplyRenderOverrides(override RenderConfig) {
	s.Config = MergeRenderConfig(s.Config, override)
	if override.Width > 0 || override.Height > 0 {
		s.CameraConfig.AspectRatio = float64(s.Config.Width) / float64(s.Config.Height)
		s.Camera = geometry.NewCamera(s.CameraConfig)
	}
}

// Hit returns the nearest intersection along ray with t > Epsilon.
// Every shape is tested against the interval shrunk by earlier hits. On a
// tie the earlier shape wins.
func (s *Scene) Hit(ray core.Ray) (*core.Intersection, bool) {
	var closest *core.Intersection
	tMax := math.MaxFloat64

	for _, shape := range s.Shapes {
		hit, ok := shape.Hit(ray, Epsilon, tMax)
		if !ok {
			continue
		}
		// Planes and triangles accept t == tMax
		if closest == nil || hit.T < closest.T {
			closest = hit
			tMax = hit.T
		}
	}

	return closest, closest != nil
}

// GetPrimitiveCount returns the number of primitives the scene query tests
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(position r3.Vec, intensity core.Color) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// AddSpotLight adds a spot light shining from "from" toward "to"
func (s *Scene) AddSpotLight(from, to r3.Vec, intensity core.Color, exponent, cutoff float64) {
	s.Lights = append(s.Lights, lights.NewSpotLight(from, to, intensity, exponent, cutoff))
}

// AddAreaLight adds a square area light discretized into n×n point lights
func (s *Scene) AddAreaLight(center r3.Vec, size float64, intensity core.Color, n int) {
	for _, light := range lights.NewAreaLight(center, size, intensity, n) {
		s.Lights = append(s.Lights, light)
	}
}

// newScene creates an empty scene with merged camera and render settings
func newScene(cameraConfig geometry.CameraConfig, config RenderConfig, cameraOverrides []geometry.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	return &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]core.Shape, 0),
		Lights:       make([]core.Light, 0),
		Config:       MergeRenderConfig(DefaultRenderConfig(), config),
	}
}
