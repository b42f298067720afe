package server

import (
	"fmt"
	"net/http"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the nearest object along a pixel's primary ray
type InspectResult struct {
	Hit   *core.Intersection
	Shape core.Shape
}

// inspectPixel casts the primary ray of pixel (x, y) and reports the nearest
// hit together with the shape that produced it
func inspectPixel(sceneObj *scene.Scene, x, y int) (InspectResult, bool) {
	ray := renderer.NewRaytracer(sceneObj, nil, nil).PixelRay(x, y)

	hit, ok := sceneObj.Hit(ray)
	if !ok {
		return InspectResult{}, false
	}

	// Scene.Hit does not say which shape answered, so repeat the scan
	for _, shape := range sceneObj.Shapes {
		if shapeHit, ok := shape.Hit(ray, scene.Epsilon, hit.T); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: hit, Shape: shape}, true
		}
	}
	return InspectResult{Hit: hit}, true
}

// extractMaterialInfo describes a material's coefficients
func extractMaterialInfo(m *core.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"ka": colorArray(m.Ka),
		"kd": colorArray(m.Kd),
	}
	if m.Ks != nil {
		properties["ks"] = colorArray(*m.Ks)
		properties["shininess"] = m.P
	}
	if m.Kr != nil {
		properties["kr"] = colorArray(*m.Kr)
	}
	if m.Kt != nil {
		properties["kt"] = colorArray(*m.Kt)
		properties["ior"] = m.IOR
	}

	switch {
	case m.Kt != nil:
		return "transparent", properties
	case m.Kr != nil:
		return "mirror", properties
	case m.Ks != nil:
		return "phong", properties
	default:
		return "diffuse", properties
	}
}

// extractGeometryInfo describes the shape that was hit
func extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch g := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(g.Center)
		properties["radius"] = g.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(g.Point)
		properties["normal"] = vecArray(g.Normal)
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vecArray(g.P0), vecArray(g.P1), vecArray(g.P2)}
		properties["smooth"] = g.N0 != nil
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports what the primary ray of a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req, nil)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.Config
	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Pixel (%d, %d) outside %dx%d image", pixelX, pixelY, config.Width, config.Height))
		return
	}

	result, ok := inspectPixel(sceneObj, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.Hit.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		MaterialType: materialType,
		Point:        vecArray(result.Hit.Position),
		Normal:       vecArray(result.Hit.Normal),
		Distance:     result.Hit.T,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func vecArray(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}
