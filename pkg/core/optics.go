package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Reflect mirrors l about n: r = 2(n·l)n - l.
// l points away from the surface, as does the result.
func Reflect(l, n r3.Vec) r3.Vec {
	return r3.Sub(r3.Scale(2*r3.Dot(n, l), n), l)
}

// Refract bends l through a surface with normal n and index of refraction ior
// using Snell's law. The relative index is 1/ior when n·l < 0 and ior
// otherwise. It returns false on total internal reflection.
func Refract(l, n r3.Vec, ior float64) (r3.Vec, bool) {
	mu := ior
	if r3.Dot(n, l) < 0 {
		mu = 1 / ior
	}

	cosI := r3.Dot(l, n)
	sinI2 := 1 - cosI*cosI
	if mu*mu*sinI2 > 1 {
		return r3.Vec{}, false
	}

	sinR := mu * math.Sqrt(sinI2)
	cosR := math.Sqrt(1 - sinR*sinR)

	var r r3.Vec
	if cosI > 0 {
		r = r3.Scale(-mu*cosI+cosR, n)
	} else {
		r = r3.Scale(-mu*cosI-cosR, n)
	}
	r = r3.Add(r, r3.Scale(mu, l))

	return r3.Unit(r), true
}
