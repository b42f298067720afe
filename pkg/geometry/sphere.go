package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   r3.Vec
	Radius   float64
	Material *core.Material
	radius2  float64
}

// NewSphere creates a new sphere
func NewSphere(center r3.Vec, radius float64, material *core.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
		radius2:  radius * radius,
	}
}

// Hit tests if a ray intersects with the sphere.
// The smaller root wins when it lies in (tMin, tMax); otherwise the larger
// one is tried, which covers rays starting inside the sphere.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	oc := r3.Sub(ray.Origin, s.Center)

	// Quadratic coefficients with A = 1 for a unit direction
	b := 2 * r3.Dot(oc, ray.Direction)
	c := r3.Norm2(oc) - s.radius2

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / 2
	t2 := (-b + sqrtD) / 2

	var t float64
	switch {
	case tMin < t1 && t1 < tMax:
		t = t1
	case tMin < t2 && t2 < tMax:
		t = t2
	default:
		return nil, false
	}

	position := ray.At(t)
	return &core.Intersection{
		T:        t,
		Position: position,
		Normal:   r3.Unit(r3.Sub(position, s.Center)),
		Material: s.Material,
	}, true
}
