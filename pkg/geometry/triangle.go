package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// singularDeterminant is the determinant magnitude below which the
// intersection system is treated as having no solution.
const singularDeterminant = 1e-12

// Triangle represents a single triangle defined by three vertices.
// When all three vertex normals are set, hits report the interpolated
// shading normal instead of the flat face normal.
type Triangle struct {
	P0, P1, P2 r3.Vec
	N0, N1, N2 *r3.Vec
	Material   *core.Material
	normal     r3.Vec // Cached face normal
}

// NewTriangle creates a new flat-shaded triangle
func NewTriangle(p0, p1, p2 r3.Vec, material *core.Material) *Triangle {
	t := &Triangle{
		P0:       p0,
		P1:       p1,
		P2:       p2,
		Material: material,
	}
	t.computeNormal()
	return t
}

// NewSmoothTriangle creates a triangle with per-vertex normals
func NewSmoothTriangle(p0, p1, p2 r3.Vec, material *core.Material, n0, n1, n2 r3.Vec) *Triangle {
	t := NewTriangle(p0, p1, p2, material)
	n0, n1, n2 = r3.Unit(n0), r3.Unit(n1), r3.Unit(n2)
	t.N0, t.N1, t.N2 = &n0, &n1, &n2
	return t
}

// computeNormal caches (P2-P0)×(P2-P1); the winding is fixed here
func (t *Triangle) computeNormal() {
	t.normal = r3.Unit(r3.Cross(r3.Sub(t.P2, t.P0), r3.Sub(t.P2, t.P1)))
}

// Barycentric solves O + t·d = α·P0 + β·P1 + γ·P2 for the ray.
// It returns false when the system is singular, the ray parameter is
// outside [tMin, tMax] or behind the origin, or the point lies outside
// the triangle.
func (t *Triangle) Barycentric(ray core.Ray, tMin, tMax float64) (tHit, alpha, beta, gamma float64, ok bool) {
	e0 := r3.Sub(t.P2, t.P0)
	e1 := r3.Sub(t.P2, t.P1)
	d := ray.Direction

	// Columns: d, P2-P0, P2-P1
	m := r3.NewMat([]float64{
		d.X, e0.X, e1.X,
		d.Y, e0.Y, e1.Y,
		d.Z, e0.Z, e1.Z,
	})
	if math.Abs(m.Det()) < singularDeterminant {
		return 0, 0, 0, 0, false
	}

	rhs := r3.Sub(t.P2, ray.Origin)
	var x mat.VecDense
	if err := x.SolveVec(m, mat.NewVecDense(3, []float64{rhs.X, rhs.Y, rhs.Z})); err != nil {
		return 0, 0, 0, 0, false
	}

	tHit, alpha, beta = x.AtVec(0), x.AtVec(1), x.AtVec(2)
	gamma = 1 - alpha - beta
	if tHit < tMin || tHit > tMax || tHit < 0 || alpha < 0 || beta < 0 || alpha+beta > 1 {
		return 0, 0, 0, 0, false
	}
	return tHit, alpha, beta, gamma, true
}

// Hit tests if a ray intersects with the triangle
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	tHit, alpha, beta, gamma, ok := t.Barycentric(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	return &core.Intersection{
		T:        tHit,
		Position: ray.At(tHit),
		Normal:   t.shadingNormal(alpha, beta, gamma),
		Material: t.Material,
	}, true
}

// shadingNormal interpolates the vertex normals, or falls back to the face normal
func (t *Triangle) shadingNormal(alpha, beta, gamma float64) r3.Vec {
	if t.N0 == nil || t.N1 == nil || t.N2 == nil {
		return t.normal
	}
	n := r3.Add(r3.Add(r3.Scale(alpha, *t.N0), r3.Scale(beta, *t.N1)), r3.Scale(gamma, *t.N2))
	return r3.Unit(n)
}

// GetNormal returns the triangle's face normal
func (t *Triangle) GetNormal() r3.Vec {
	return t.normal
}
