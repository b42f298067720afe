package core

import "gonum.org/v1/gonum/spatial/r3"

// Ray is a half line with a unit direction
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// NewRay creates a new ray, normalizing the direction.
// A zero-length direction is not a valid ray.
func NewRay(origin, direction r3.Vec) Ray {
	return Ray{Origin: origin, Direction: r3.Unit(direction)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}
