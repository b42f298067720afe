package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ErrUnknownScene is returned for a scene name that is neither built in nor a file
var ErrUnknownScene = errors.New("unknown scene")

// builtInGroup is the group name of the scenes compiled into the binary
const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by NewScene
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse lists every available scene by group
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Sun position used by the built-in sun scene: midsummer noon in Boston
var (
	sunSceneTime      = time.Date(2024, time.June, 21, 16, 0, 0, 0, time.UTC)
	sunSceneLatitude  = 42.36
	sunSceneLongitude = -71.06
)

type builtInScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

func builtIn(id, name, description string, build func() (*Scene, error)) builtInScene {
	return builtInScene{
		info: SceneInfo{
			ID:          id,
			Name:        name,
			DisplayName: name,
			Description: description,
			Group:       builtInGroup,
			Type:        "builtin",
		},
		build: build,
	}
}

func infallible(f func(...geometry.CameraConfig) *Scene) func() (*Scene, error) {
	return func() (*Scene, error) { return f(), nil }
}

var builtInScenes = []builtInScene{
	builtIn("default", "Default Scene", "Phong, mirror and glass spheres with a point and a spot light",
		infallible(NewDefaultScene)),
	builtIn("area-light", "Area Light", "Soft shadows from a discretized square light",
		infallible(NewAreaLightScene)),
	builtIn("cornell", "Cornell Box", "Cornell box with a mirror and a glass sphere",
		infallible(NewCornellScene)),
	builtIn("sphere-grid", "Sphere Grid", "A hundred phong and mirror spheres under one point light",
		infallible(NewSphereGridScene)),
	builtIn("triangle-mesh", "Triangle Mesh", "Box, pyramid and smooth shaded icosahedron meshes",
		infallible(NewTriangleMeshScene)),
	builtIn("sun", "Sunlit Plaza", "Blocks lit by the midsummer noon sun over Boston",
		func() (*Scene, error) { return NewSunScene(sunSceneTime, sunSceneLatitude, sunSceneLongitude) }),
}

// NewScene returns the built-in scene with the given ID, or loads the scene
// file when name ends in .json.
func NewScene(name string, logger core.Logger) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadFile(name, logger)
	}
	for _, b := range builtInScenes {
		if b.info.ID == name {
			return b.build()
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
}

// ListBuiltInScenes returns the metadata of every built-in scene
func ListBuiltInScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtInScenes))
	for i, b := range builtInScenes {
		infos[i] = b.info
	}
	return infos
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields
// an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseSceneFileMetadata(filePath)
		if err != nil {
			// Skip unreadable files, the rest are still usable
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneFileMetadata reads the name, description and group of a scene
// file, falling back to values derived from the file name.
func ParseSceneFileMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:          filePath,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, err
	}
	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return info, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	if meta.Name != "" {
		info.Name = meta.Name
		info.DisplayName = meta.Name
	}
	if meta.Group != "" {
		info.Group = meta.Group
	}
	info.Description = meta.Description

	return info, nil
}

// ListAllScenes returns built-in scenes and the scene files in dir, grouped
// by category with the built-in group first.
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	files, err := ListSceneFiles(dir)
	if err != nil {
		return response, err
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range append(ListBuiltInScenes(), files...) {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
