package integrator

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// WhittedIntegrator implements recursive Whitted ray tracing: local phong
// shading with hard shadows for ordinary surfaces, and mirror reflection and
// refraction for specular ones.
type WhittedIntegrator struct {
	maxDepth int
}

// NewWhittedIntegrator creates an integrator that spawns reflection and
// refraction rays up to maxDepth levels deep
func NewWhittedIntegrator(maxDepth int) *WhittedIntegrator {
	return &WhittedIntegrator{maxDepth: maxDepth}
}

// RayColor computes the color seen along a primary ray
func (w *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene, stats *TraceStats) core.Color {
	return w.trace(ray, s, 0, stats)
}

// trace returns the color along ray at the given recursion depth.
// A surface with Kr or Kt is never shaded locally, even when it also has
// diffuse terms. Once depth reaches maxDepth such a surface is black.
func (w *WhittedIntegrator) trace(ray core.Ray, s *scene.Scene, depth int, stats *TraceStats) core.Color {
	stats.countRay(depth)

	hit, ok := s.Hit(ray)
	if !ok {
		return s.Background
	}

	m := hit.Material
	if !m.IsSpecular() {
		return s.Ambient.Mul(m.Ka).Add(w.shade(ray, hit, s, stats))
	}

	color := core.Black
	if depth >= w.maxDepth {
		return color
	}

	if m.Kr != nil {
		reflected := core.NewRay(hit.Position, core.Reflect(r3.Scale(-1, ray.Direction), hit.Normal))
		color = color.Add(m.Kr.Mul(w.trace(reflected, s, depth+1, stats)))
	}

	if m.Kt != nil {
		// Transmission refracts the reversed direction, except alongside a
		// reflective term where the incoming direction itself is bent.
		// No transmission on total internal reflection.
		incoming := r3.Scale(-1, ray.Direction)
		if m.Kr != nil {
			incoming = ray.Direction
		}
		if refracted, ok := core.Refract(incoming, hit.Normal, m.IOR); ok {
			color = color.Add(m.Kt.Mul(w.trace(core.NewRay(hit.Position, refracted), s, depth+1, stats)))
		}
	}

	return color
}

// shade sums the diffuse and specular light arriving at hit from every
// light that is not occluded
func (w *WhittedIntegrator) shade(ray core.Ray, hit *core.Intersection, s *scene.Scene, stats *TraceStats) core.Color {
	color := core.Black
	m := hit.Material
	n := hit.Normal
	v := r3.Scale(-1, ray.Direction)

	for _, light := range s.Lights {
		sample := light.Sample(hit.Position)

		stats.countShadowRay()
		distance := r3.Norm(r3.Sub(sample.Position, hit.Position))
		if blocker, ok := s.Hit(core.NewRay(hit.Position, sample.Direction)); ok && blocker.T < distance {
			continue
		}

		l := sample.Direction
		color = color.Add(sample.Intensity.Mul(m.Kd).Scale(math.Max(r3.Dot(n, l), 0)))

		if m.Ks != nil {
			r := core.Reflect(l, n)
			color = color.Add(sample.Intensity.Mul(*m.Ks).Scale(math.Pow(math.Max(r3.Dot(r, v), 0), m.P)))
		}
	}

	return color
}
