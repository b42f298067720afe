package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance arriving along ray. When stats is
	// non-nil the rays traced for this call are added to it.
	RayColor(ray core.Ray, scene *scene.Scene, stats *TraceStats) core.Color
}

// TraceStats counts the work done while tracing
type TraceStats struct {
	Rays       int // Primary and secondary rays
	ShadowRays int // Occlusion tests toward lights
	MaxDepth   int // Deepest recursion level reached
}

// Add accumulates other into s
func (s *TraceStats) Add(other TraceStats) {
	s.Rays += other.Rays
	s.ShadowRays += other.ShadowRays
	if other.MaxDepth > s.MaxDepth {
		s.MaxDepth = other.MaxDepth
	}
}

// Total returns the number of rays of either kind
func (s TraceStats) Total() int {
	return s.Rays + s.ShadowRays
}

func (s *TraceStats) countRay(depth int) {
	if s == nil {
		return
	}
	s.Rays++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
}

func (s *TraceStats) countShadowRay() {
	if s == nil {
		return
	}
	s.ShadowRays++
}
