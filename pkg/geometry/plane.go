package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    r3.Vec         // A point on the plane
	Normal   r3.Vec         // Unit normal vector
	Material *core.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal r3.Vec, material *core.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   r3.Unit(normal),
		Material: material,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	denominator := r3.Dot(ray.Direction, p.Normal)

	// Parallel ray never meets the plane
	if denominator == 0 {
		return nil, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := r3.Dot(r3.Sub(p.Point, ray.Origin), p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	// The plane normal is returned as is, whichever side the ray came from
	return &core.Intersection{
		T:        t,
		Position: ray.At(t),
		Normal:   p.Normal,
		Material: p.Material,
	}, true
}
