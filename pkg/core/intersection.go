package core

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMissingIOR is returned for transmissive materials without an index of refraction
var ErrMissingIOR = errors.New("transmissive material requires a positive index of refraction")

// Intersection is the result of a successful ray/shape test
type Intersection struct {
	T        float64   // Ray parameter of the hit
	Position r3.Vec    // Hit point, ray.At(T)
	Normal   r3.Vec    // Unit surface normal
	Material *Material // Material of the shape that was hit, shared
}

// Material describes how a surface responds to light.
// Ks, Kr and Kt are optional: nil means the surface has no specular,
// reflective or transmissive term at all.
type Material struct {
	Ka  Color   // Ambient coefficient
	Kd  Color   // Diffuse coefficient
	Ks  *Color  // Specular coefficient
	P   float64 // Shininess exponent
	Kr  *Color  // Reflectivity
	Kt  *Color  // Transmissivity
	IOR float64 // Index of refraction, required with Kt
}

// NewDiffuseMaterial creates a material with ambient and diffuse terms only
func NewDiffuseMaterial(ka, kd Color) *Material {
	return &Material{Ka: ka, Kd: kd}
}

// NewPhongMaterial creates a material with a specular highlight
func NewPhongMaterial(ka, kd, ks Color, p float64) *Material {
	return &Material{Ka: ka, Kd: kd, Ks: &ks, P: p}
}

// NewMirrorMaterial creates a purely reflective material
func NewMirrorMaterial(kr Color) *Material {
	return &Material{Kr: &kr}
}

// NewGlassMaterial creates a reflective and transmissive material
func NewGlassMaterial(kr, kt Color, ior float64) *Material {
	return &Material{Kr: &kr, Kt: &kt, IOR: ior}
}

// IsSpecular reports whether the surface spawns reflection or refraction rays
// instead of being shaded locally.
func (m *Material) IsSpecular() bool {
	return m.Kr != nil || m.Kt != nil
}

// Validate checks the material for inconsistent terms
func (m *Material) Validate() error {
	if m.Kt != nil && m.IOR <= 0 {
		return fmt.Errorf("ior %g: %w", m.IOR, ErrMissingIOR)
	}
	return nil
}
