package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	Center      r3.Vec  `json:"center"`      // Eye position
	LookAt      r3.Vec  `json:"lookAt"`      // Point the camera looks at
	Up          r3.Vec  `json:"up"`          // Up direction
	VFov        float64 `json:"vfov"`        // Vertical field of view in degrees
	AspectRatio float64 `json:"aspectRatio"` // Width / height
}

// DefaultCameraConfig looks down -Z from the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      r3.Vec{X: 0, Y: 0, Z: 0},
		LookAt:      r3.Vec{X: 0, Y: 0, Z: -1},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        60,
		AspectRatio: 1,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (r3.Vec{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (r3.Vec{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (r3.Vec{}) {
		merged.Up = override.Up
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	return merged
}

// Camera generates primary rays for normalized image coordinates
type Camera struct {
	origin          r3.Vec
	lowerLeftCorner r3.Vec
	horizontal      r3.Vec
	vertical        r3.Vec
}

// NewCamera creates a camera from its configuration
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis: w points backward, u right, v up
	w := r3.Unit(r3.Sub(config.Center, config.LookAt))
	u := r3.Unit(r3.Cross(config.Up, w))
	v := r3.Cross(w, u)

	horizontal := r3.Scale(viewportWidth, u)
	vertical := r3.Scale(viewportHeight, v)
	lowerLeftCorner := r3.Sub(r3.Sub(r3.Sub(config.Center, r3.Scale(0.5, horizontal)), r3.Scale(0.5, vertical)), w)

	return &Camera{
		origin:          config.Center,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay returns the ray through image coordinates (x, y) with 0 <= x,y < 1,
// where (0, 0) is the lower left corner.
func (c *Camera) GetRay(x, y float64) core.Ray {
	direction := r3.Sub(
		r3.Add(r3.Add(c.lowerLeftCorner, r3.Scale(x, c.horizontal)), r3.Scale(y, c.vertical)),
		c.origin,
	)
	return core.NewRay(c.origin, direction)
}
