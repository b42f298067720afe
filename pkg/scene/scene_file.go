package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ErrUnknownMaterial is returned when a shape names a material the file does not define
var ErrUnknownMaterial = errors.New("unknown material")

// Vec3 is a point or direction written as [x, y, z]
type Vec3 [3]float64

// RGB is a linear color written as [r, g, b]
type RGB [3]float64

func (v Vec3) vec() r3.Vec      { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }
func (c RGB) color() core.Color { return core.NewColor(c[0], c[1], c[2]) }

// FileConfig is the JSON document read by LoadFile
type FileConfig struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Camera     CameraCfg              `json:"camera"`
	Render     RenderConfig           `json:"render"`
	Ambient    RGB                    `json:"ambient"`
	Background RGB                    `json:"background"`
	Materials  map[string]MaterialCfg `json:"materials"`
	Shapes     []ShapeCfg             `json:"shapes"`
	Lights     []LightCfg             `json:"lights"`
}

// CameraCfg mirrors geometry.CameraConfig with array vectors
type CameraCfg struct {
	Center      Vec3    `json:"center"`
	LookAt      Vec3    `json:"lookAt"`
	Up          Vec3    `json:"up"`
	VFov        float64 `json:"vfov"`
	AspectRatio float64 `json:"aspectRatio,omitempty"` // defaults to width/height
}

// MaterialCfg describes a named material. Absent ks, kr and kt mean the
// surface has no such term.
type MaterialCfg struct {
	Ka  RGB     `json:"ka"`
	Kd  RGB     `json:"kd"`
	Ks  *RGB    `json:"ks,omitempty"`
	P   float64 `json:"p,omitempty"`
	Kr  *RGB    `json:"kr,omitempty"`
	Kt  *RGB    `json:"kt,omitempty"`
	IOR float64 `json:"ior,omitempty"`
}

// ShapeCfg is one entry of the shapes list, selected by Type:
// "sphere", "plane", "triangle" or "mesh".
type ShapeCfg struct {
	Type     string `json:"type"`
	Material string `json:"material,omitempty"`

	// sphere
	Center Vec3    `json:"center"`
	Radius float64 `json:"radius"`

	// plane
	Point  Vec3 `json:"point"`
	Normal Vec3 `json:"normal"`

	// triangle, with optional per-vertex normals
	Vertices []Vec3 `json:"vertices,omitempty"`
	Normals  []Vec3 `json:"normals,omitempty"`

	// mesh, relative to the scene file
	File   string `json:"file,omitempty"`
	Smooth bool   `json:"smooth,omitempty"`
}

// LightCfg is one entry of the lights list, selected by Type:
// "point", "spot", "area" or "sun".
type LightCfg struct {
	Type      string `json:"type"`
	Intensity RGB    `json:"intensity"`

	// point
	Position Vec3 `json:"position"`

	// spot
	From     Vec3    `json:"from"`
	To       Vec3    `json:"to"`
	Exponent float64 `json:"exponent"`
	Cutoff   float64 `json:"cutoff"`

	// area
	Center  Vec3    `json:"center"`
	Size    float64 `json:"size"`
	Samples int     `json:"samples"`

	// sun: Intensity is the irradiance arriving at Target
	Time      string  `json:"time"` // RFC 3339
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Target    Vec3    `json:"target"`
	Distance  float64 `json:"distance"`
}

// LoadFile reads a JSON scene file. Mesh paths are resolved relative to
// the file. Materials are built once and shared by every shape naming them.
func LoadFile(path string, logger core.Logger) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	s, err := cfg.Build(filepath.Dir(path), logger)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	if logger != nil {
		logger.Printf("Loaded scene %s: %d shapes, %d lights, %d materials\n",
			path, len(s.Shapes), len(s.Lights), len(cfg.Materials))
	}
	return s, nil
}

// Build validates the configuration and constructs the scene. Relative mesh
// paths are resolved against dir.
func (cfg *FileConfig) Build(dir string, logger core.Logger) (*Scene, error) {
	if len(cfg.Lights) == 0 && logger != nil {
		logger.Printf("Warning: scene has no lights, only ambient light will be visible\n")
	}

	render := MergeRenderConfig(DefaultRenderConfig(), cfg.Render)
	cameraConfig := geometry.CameraConfig{
		Center:      cfg.Camera.Center.vec(),
		LookAt:      cfg.Camera.LookAt.vec(),
		Up:          cfg.Camera.Up.vec(),
		VFov:        cfg.Camera.VFov,
		AspectRatio: cfg.Camera.AspectRatio,
	}
	if cameraConfig.AspectRatio == 0 {
		cameraConfig.AspectRatio = float64(render.Width) / float64(render.Height)
	}
	cameraConfig = geometry.MergeCameraConfig(geometry.DefaultCameraConfig(), cameraConfig)

	s := newScene(cameraConfig, render, nil)
	s.Ambient = cfg.Ambient.color()
	s.Background = cfg.Background.color()

	materials := make(map[string]*core.Material, len(cfg.Materials))
	for name, mc := range cfg.Materials {
		m, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	for i, sc := range cfg.Shapes {
		shapes, err := sc.Build(materials, dir, logger)
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, sc.Type, err)
		}
		s.Shapes = append(s.Shapes, shapes...)
	}

	for i, lc := range cfg.Lights {
		built, err := lc.Build()
		if err != nil {
			return nil, fmt.Errorf("light %d (%s): %w", i, lc.Type, err)
		}
		s.Lights = append(s.Lights, built...)
	}

	return s, nil
}

// Build constructs and validates the material
func (mc MaterialCfg) Build() (*core.Material, error) {
	m := &core.Material{
		Ka:  mc.Ka.color(),
		Kd:  mc.Kd.color(),
		P:   mc.P,
		IOR: mc.IOR,
	}
	if mc.Ks != nil {
		ks := mc.Ks.color()
		m.Ks = &ks
	}
	if mc.Kr != nil {
		kr := mc.Kr.color()
		m.Kr = &kr
	}
	if mc.Kt != nil {
		kt := mc.Kt.color()
		m.Kt = &kt
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Build constructs the primitives for the entry. Meshes expand to one
// triangle per face.
func (sc ShapeCfg) Build(materials map[string]*core.Material, dir string, logger core.Logger) ([]core.Shape, error) {
	material, ok := materials[sc.Material]
	if !ok && (sc.Type != "mesh" || sc.Material != "") {
		return nil, fmt.Errorf("%q: %w", sc.Material, ErrUnknownMaterial)
	}

	switch sc.Type {
	case "sphere":
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("radius must be > 0, got %g", sc.Radius)
		}
		return []core.Shape{geometry.NewSphere(sc.Center.vec(), sc.Radius, material)}, nil

	case "plane":
		if sc.Normal == (Vec3{}) {
			return nil, fmt.Errorf("plane normal must be non-zero")
		}
		return []core.Shape{geometry.NewPlane(sc.Point.vec(), sc.Normal.vec(), material)}, nil

	case "triangle":
		if len(sc.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d", len(sc.Vertices))
		}
		p0, p1, p2 := sc.Vertices[0].vec(), sc.Vertices[1].vec(), sc.Vertices[2].vec()
		switch len(sc.Normals) {
		case 0:
			return []core.Shape{geometry.NewTriangle(p0, p1, p2, material)}, nil
		case 3:
			n0, n1, n2 := sc.Normals[0].vec(), sc.Normals[1].vec(), sc.Normals[2].vec()
			return []core.Shape{geometry.NewSmoothTriangle(p0, p1, p2, material, n0, n1, n2)}, nil
		default:
			return nil, fmt.Errorf("triangle needs 0 or 3 normals, got %d", len(sc.Normals))
		}

	case "mesh":
		path := sc.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		mesh, err := loaders.LoadMesh(path, logger)
		if err != nil {
			return nil, err
		}
		return meshShapes(mesh, material, sc.Smooth)

	default:
		return nil, fmt.Errorf("unknown shape type %q", sc.Type)
	}
}

// meshShapes turns loaded mesh data into triangles. A nil material means
// each face group uses the material the mesh file assigns to it.
func meshShapes(mesh *loaders.MeshData, material *core.Material, smooth bool) ([]core.Shape, error) {
	options := &geometry.TriangleMeshOptions{Smooth: smooth}
	if smooth && len(mesh.Normals) > 0 {
		options.Normals = mesh.Normals
	}

	if material != nil || len(mesh.Groups) == 0 {
		if material == nil {
			material = defaultMeshMaterial
		}
		return geometry.NewTriangleMesh(mesh.Vertices, mesh.Faces, material, options)
	}

	// Per-group materials. Vertex normals are computed over the whole mesh
	// so that smoothing crosses group boundaries.
	if smooth && options.Normals == nil {
		options.Normals = geometry.ComputeVertexNormals(mesh.Vertices, mesh.Faces)
	}

	var shapes []core.Shape
	for _, g := range mesh.Groups {
		m, ok := mesh.Materials[g.Material]
		if !ok {
			m = defaultMeshMaterial
		}
		group, err := geometry.NewTriangleMesh(mesh.Vertices, mesh.Faces[g.Start:g.Start+g.Count], m, options)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Material, err)
		}
		shapes = append(shapes, group...)
	}
	return shapes, nil
}

// defaultMeshMaterial is used for mesh faces with no material
var defaultMeshMaterial = core.NewDiffuseMaterial(core.NewColor(0.1, 0.1, 0.1), core.NewColor(0.8, 0.8, 0.8))

// Build constructs the lights for the entry. Area lights expand to their
// point light grid.
func (lc LightCfg) Build() ([]core.Light, error) {
	intensity := lc.Intensity.color()

	switch lc.Type {
	case "point":
		return []core.Light{lights.NewPointLight(lc.Position.vec(), intensity)}, nil

	case "spot":
		if lc.Cutoff <= 0 || lc.Cutoff > 180 {
			return nil, fmt.Errorf("cutoff must be in (0, 180] degrees, got %g", lc.Cutoff)
		}
		return []core.Light{lights.NewSpotLight(lc.From.vec(), lc.To.vec(), intensity, lc.Exponent, lc.Cutoff)}, nil

	case "area":
		if lc.Samples <= 0 {
			return nil, fmt.Errorf("area light samples must be > 0, got %d", lc.Samples)
		}
		grid := lights.NewAreaLight(lc.Center.vec(), lc.Size, intensity, lc.Samples)
		built := make([]core.Light, len(grid))
		for i, l := range grid {
			built[i] = l
		}
		return built, nil

	case "sun":
		t, err := time.Parse(time.RFC3339, lc.Time)
		if err != nil {
			return nil, fmt.Errorf("sun time: %w", err)
		}
		distance := lc.Distance
		if distance <= 0 {
			distance = sunDistance
		}
		sun, err := lights.NewSunLight(t, lc.Latitude, lc.Longitude, lc.Target.vec(), distance, intensity)
		if err != nil {
			return nil, err
		}
		return []core.Light{sun}, nil

	default:
		return nil, fmt.Errorf("unknown light type %q", lc.Type)
	}
}
