package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const squarePLY = `ply
format ascii 1.0
comment unit square as a single quad
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

// writeBinaryPLY encodes vertices with normals and triangles as a binary PLY
func writeBinaryPLY(t *testing.T, order binary.ByteOrder, format string, vertices, normals []r3.Vec, faces [][3]int32) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString("element vertex " + strconv.Itoa(len(vertices)) + "\n")
	buf.WriteString("property float x\nproperty float y\nproperty float z\n")
	buf.WriteString("property float nx\nproperty float ny\nproperty float nz\n")
	buf.WriteString("property uchar red\n")
	buf.WriteString("element face " + strconv.Itoa(len(faces)) + "\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("property int flags\n")
	buf.WriteString("end_header\n")

	for i, v := range vertices {
		n := normals[i]
		binary.Write(&buf, order, [6]float32{float32(v.X), float32(v.Y), float32(v.Z), float32(n.X), float32(n.Y), float32(n.Z)})
		buf.WriteByte(200)
	}
	for _, f := range faces {
		buf.WriteByte(3)
		binary.Write(&buf, order, f)
		binary.Write(&buf, order, int32(7))
	}
	return buf.Bytes()
}

func TestReadPLY_ASCIIQuadIsFanned(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(squarePLY))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}

	if len(mesh.Vertices) != 4 {
		t.Errorf("Expected 4 vertices, got %d", len(mesh.Vertices))
	}
	if len(mesh.Normals) != 0 {
		t.Errorf("Expected no normals, got %d", len(mesh.Normals))
	}

	expectedFaces := []int{0, 1, 2, 0, 2, 3}
	if len(mesh.Faces) != len(expectedFaces) {
		t.Fatalf("Expected %d face indices, got %v", len(expectedFaces), mesh.Faces)
	}
	for i, idx := range expectedFaces {
		if mesh.Faces[i] != idx {
			t.Errorf("Face index %d: expected %d, got %d", i, idx, mesh.Faces[i])
		}
	}
	if mesh.Vertices[2] != (r3.Vec{X: 1, Y: 1, Z: 0}) {
		t.Errorf("Expected vertex 2 at (1,1,0), got %v", mesh.Vertices[2])
	}
}

func TestReadPLY_Binary(t *testing.T) {
	vertices := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	normals := []r3.Vec{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}}
	faces := [][3]int32{{0, 1, 2}, {0, 3, 1}}

	tests := []struct {
		name   string
		order  binary.ByteOrder
		format string
	}{
		{"little endian", binary.LittleEndian, "binary_little_endian"},
		{"big endian", binary.BigEndian, "binary_big_endian"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := writeBinaryPLY(t, tt.order, tt.format, vertices, normals, faces)
			mesh, err := ReadPLY(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("ReadPLY failed: %v", err)
			}

			if mesh.TriangleCount() != 2 {
				t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
			}
			for i := range vertices {
				if mesh.Vertices[i] != vertices[i] {
					t.Errorf("Vertex %d: expected %v, got %v", i, vertices[i], mesh.Vertices[i])
				}
				if mesh.Normals[i] != normals[i] {
					t.Errorf("Normal %d: expected %v, got %v", i, normals[i], mesh.Normals[i])
				}
			}
			expectedFaces := []int{0, 1, 2, 0, 3, 1}
			for i, idx := range expectedFaces {
				if mesh.Faces[i] != idx {
					t.Errorf("Face index %d: expected %d, got %d", i, idx, mesh.Faces[i])
				}
			}
		})
	}
}

func TestReadPLY_Truncated(t *testing.T) {
	vertices := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	normals := []r3.Vec{{Z: 1}, {Z: 1}, {Z: 1}}
	data := writeBinaryPLY(t, binary.LittleEndian, "binary_little_endian", vertices, normals, [][3]int32{{0, 1, 2}})

	_, err := ReadPLY(bytes.NewReader(data[:len(data)-6]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadPLY_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"missing end_header", "ply\nformat ascii 1.0\nelement vertex 0\n"},
		{"missing format", "ply\nelement vertex 0\nend_header\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"unknown type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n0\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"vertex without z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n"},
		{"index out of range", strings.Replace(squarePLY, "4 0 1 2 3", "3 0 1 9", 1)},
		{"degenerate face", strings.Replace(squarePLY, "4 0 1 2 3", "2 0 1", 1)},
		{"bad number", strings.Replace(squarePLY, "1 1 0", "1 one 0", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.data))
			if !errors.Is(err, ErrPLYFormat) {
				t.Errorf("Expected ErrPLYFormat, got %v", err)
			}
		})
	}
}

func TestLoadMesh_PLYByExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "square.PLY", squarePLY)
	logger := &testLogger{}

	mesh, err := LoadMesh(path, logger)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	if len(logger.messages) == 0 {
		t.Error("Expected a load message to be logged")
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply"), nil); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
