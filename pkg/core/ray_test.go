package core

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewRay_NormalizesDirection(t *testing.T) {
	ray := NewRay(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 0, Y: 3, Z: 4})

	if math.Abs(r3.Norm(ray.Direction)-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", r3.Norm(ray.Direction))
	}
	expected := r3.Vec{X: 0, Y: 0.6, Z: 0.8}
	if !vecClose(ray.Direction, expected, 1e-12) {
		t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(r3.Vec{X: 1, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 0, Z: -2})

	tests := []struct {
		t        float64
		expected r3.Vec
	}{
		{0, r3.Vec{X: 1, Y: 0, Z: 0}},
		{1, r3.Vec{X: 1, Y: 0, Z: -1}},
		{4.5, r3.Vec{X: 1, Y: 0, Z: -4.5}},
		{-1, r3.Vec{X: 1, Y: 0, Z: 1}},
	}

	for _, tt := range tests {
		p := ray.At(tt.t)
		if !vecClose(p, tt.expected, 1e-12) {
			t.Errorf("At(%v): expected %v, got %v", tt.t, tt.expected, p)
		}
	}
}
