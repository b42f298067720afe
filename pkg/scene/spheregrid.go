package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 10

// oklchToRGB converts OKLCH color values to linear RGB clamped to [0, 1].
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to cone responses, then cubed
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b
	lc, mc, sc = lc*lc*lc, mc*mc*mc, sc*sc*sc

	return core.NewColor(
		+4.0767416621*lc-3.3077115913*mc+0.2309699292*sc,
		-1.2684380046*lc+2.6097574011*mc-0.3413193965*sc,
		-0.0041960863*lc-0.7034186147*mc+1.7076147010*sc,
	).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of colored phong spheres on a plane,
// every third one a tinted mirror, lit by a single distant point light.
func NewSphereGridScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      r3.Vec{X: 4.5, Y: 6, Z: 18},
		LookAt:      r3.Vec{X: 4.5, Y: 0.8, Z: 4.5},
		Up:          r3.Vec{X: 0, Y: 1, Z: 0},
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}

	s := newScene(cameraConfig, RenderConfig{Width: 640, Height: 360, MaxDepth: 4}, cameraOverrides)
	s.Ambient = core.NewColor(0.1, 0.1, 0.12)
	s.Background = core.NewColor(0.5, 0.7, 1.0)

	ground := core.NewDiffuseMaterial(core.NewColor(0.5, 0.5, 0.5), core.NewColor(0.5, 0.5, 0.5))
	s.Shapes = append(s.Shapes, geometry.NewPlane(r3.Vec{}, r3.Vec{X: 0, Y: 1, Z: 0}, ground))

	// The grid covers a 9x9 square centered on the camera's look-at point
	const extent = 9.0
	spacing := extent / float64(sphereGridSize-1)
	radius := spacing * 0.35

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			center := r3.Vec{
				X: float64(i)*spacing - extent/2 + 4.5,
				Y: radius, // Resting on the ground
				Z: float64(j)*spacing - extent/2 + 4.5,
			}

			// Hue varies across x, chroma across z
			hue := float64(i) / float64(sphereGridSize-1) * 360
			chroma := 0.05 + float64(j)/float64(sphereGridSize-1)*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			var m *core.Material
			if (i+j)%3 == 0 {
				m = core.NewMirrorMaterial(color.Scale(0.9))
			} else {
				m = core.NewPhongMaterial(color.Scale(0.3), color, core.NewColor(0.5, 0.5, 0.5), 40)
			}
			s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, m))
		}
	}

	// Distance squared is about 1000, so this lands near unit irradiance
	s.AddPointLight(r3.Vec{X: 20, Y: 25, Z: 20}, core.NewColor(1200, 1150, 1100))

	return s
}
