package core

import "gonum.org/v1/gonum/spatial/r3"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the nearest intersection with tMin < t < tMax, if any
	Hit(ray Ray, tMin, tMax float64) (*Intersection, bool)
}

// Light interface for objects that illuminate a shading point
type Light interface {
	// Sample returns the light arriving at point.
	// The sample direction points FROM the shading point TO the light.
	Sample(point r3.Vec) LightSample
}

// LightSample is a single light query result at a shading point
type LightSample struct {
	Intensity Color  // Intensity after falloff
	Position  r3.Vec // Position of the light
	Direction r3.Vec // Unit direction from shading point to light
}
