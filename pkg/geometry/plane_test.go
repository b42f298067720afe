package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// Horizontal plane at y=0
	plane := NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 1, Z: 0}, testMaterial)

	ray := core.NewRay(r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: 0, Y: -1, Z: 0})

	hit, isHit := plane.Hit(ray, 0.0001, math.MaxFloat64)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if !vecClose(hit.Position, r3.Vec{}, 1e-9) {
		t.Errorf("Expected hit point at origin, got %v", hit.Position)
	}
}

func TestPlane_Hit_ParallelRay(t *testing.T) {
	plane := NewPlane(r3.Vec{X: 0, Y: -1, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}, testMaterial)

	origins := []r3.Vec{
		{X: 0, Y: 1, Z: 0},
		{X: 5, Y: -1, Z: 3}, // lying in the plane
		{X: -2, Y: -10, Z: 7},
	}
	directions := []r3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: 1},
	}

	for _, o := range origins {
		for _, d := range directions {
			ray := core.NewRay(o, d)
			if hit, isHit := plane.Hit(ray, 0.0001, math.MaxFloat64); isHit {
				t.Errorf("Expected miss for parallel ray from %v along %v, got t=%f", o, d, hit.T)
			}
		}
	}
}

func TestPlane_Hit_BehindRay(t *testing.T) {
	plane := NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 1, Z: 0}, testMaterial)

	// Intersection lies behind the ray origin
	ray := core.NewRay(r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0})

	if hit, isHit := plane.Hit(ray, 0.0001, math.MaxFloat64); isHit {
		t.Errorf("Expected miss for intersection behind ray, but got hit at t=%f", hit.T)
	}
}

func TestPlane_Hit_NormalNotFlipped(t *testing.T) {
	plane := NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 2, Z: 0}, testMaterial)

	tests := []struct {
		name      string
		origin    r3.Vec
		direction r3.Vec
	}{
		{"from above", r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: 0, Y: -1, Z: 0}},
		{"from below", r3.Vec{X: 0, Y: -1, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Hit(core.NewRay(tt.origin, tt.direction), 0.0001, math.MaxFloat64)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if !vecClose(hit.Normal, r3.Vec{X: 0, Y: 1, Z: 0}, 1e-12) {
				t.Errorf("Expected fixed normal (0,1,0), got %v", hit.Normal)
			}
		})
	}
}

func TestPlane_Hit_Range(t *testing.T) {
	plane := NewPlane(r3.Vec{X: 0, Y: 0, Z: -3}, r3.Vec{X: 0, Y: 0, Z: 1}, testMaterial)
	ray := core.NewRay(r3.Vec{}, r3.Vec{X: 0, Y: 0, Z: -1})

	if _, isHit := plane.Hit(ray, 0.0001, 2.9); isHit {
		t.Error("Expected miss when the plane is beyond tMax")
	}
	if _, isHit := plane.Hit(ray, 3.1, 10); isHit {
		t.Error("Expected miss when the plane is before tMin")
	}
}
