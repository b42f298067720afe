package loaders

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

type testLogger struct {
	messages []string
}

func (l *testLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const squareOBJ = `# unit square in the xy plane
mtllib square.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
usemtl red
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`

const squareMTL = `newmtl red
Kd 1 0 0
`

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "square.mtl", squareMTL)
	path := writeFile(t, dir, "square.obj", squareOBJ)

	mesh, err := LoadOBJ(path, &testLogger{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	if len(mesh.Vertices) != 4 {
		t.Errorf("Expected 4 vertices, got %d", len(mesh.Vertices))
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Fatalf("Expected one normal per vertex, got %d for %d vertices", len(mesh.Normals), len(mesh.Vertices))
	}
	for i, n := range mesh.Normals {
		if math.Abs(n.Z-1) > 1e-6 {
			t.Errorf("Normal %d: expected (0,0,1), got %v", i, n)
		}
	}
	for _, idx := range mesh.Faces {
		if idx < 0 || idx >= len(mesh.Vertices) {
			t.Errorf("Face index %d out of range", idx)
		}
	}

	red, ok := mesh.Materials["red"]
	if !ok {
		t.Fatalf("Expected material %q, got %v", "red", mesh.Materials)
	}
	if red.Kd != core.NewColor(1, 0, 0) {
		t.Errorf("Expected red diffuse color, got %v", red.Kd)
	}

	found := false
	for _, g := range mesh.Groups {
		if g.Material == "red" && g.Count == 6 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a group of 6 indices using %q, got %+v", "red", mesh.Groups)
	}
}

func TestLoadOBJ_MissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"), nil); err == nil {
		t.Error("Expected an error for a missing OBJ file")
	}
}
