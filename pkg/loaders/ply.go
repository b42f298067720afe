package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrPLYFormat is returned for malformed or unsupported PLY files
var ErrPLYFormat = errors.New("invalid PLY file")

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Elements []plyElement
}

// plyElement is one element block, such as "vertex" or "face"
type plyElement struct {
	Name  string
	Count int
	Props []plyProperty
}

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	Name     string
	Type     string // Scalar type, or the item type of a list
	IsList   bool
	ListType string // For list properties, the type of the count
}

// LoadPLY loads an ASCII or binary PLY file. Polygon faces are split into
// triangle fans. Vertex normals are kept when nx, ny and nz are all present.
func LoadPLY(filename string, logger core.Logger) (*MeshData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY file %s: %w", filename, err)
	}

	if logger != nil {
		logger.Printf("Loaded PLY: %d vertices, %d triangles in %v\n",
			len(mesh.Vertices), mesh.TriangleCount(), time.Since(startTime))
	}
	return mesh, nil
}

// ReadPLY reads a PLY mesh from r
func ReadPLY(r io.Reader) (*MeshData, error) {
	br := bufio.NewReader(r)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	case "binary_little_endian":
		values = &plyBinaryReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrPLYFormat, header.Format)
	}

	mesh := &MeshData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readPLYVertices(values, element, mesh)
		case "face":
			err = readPLYFaces(values, element, mesh)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s element: %w", element.Name, err)
		}
	}

	for _, idx := range mesh.Faces {
		if idx < 0 || idx >= len(mesh.Vertices) {
			return nil, fmt.Errorf("%w: face index %d out of range [0, %d)", ErrPLYFormat, idx, len(mesh.Vertices))
		}
	}
	return mesh, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(br *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}
	first := true

	for {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: missing end_header", ErrPLYFormat)
			}
			return nil, fmt.Errorf("reading header: %w", err)
		}

		parts := strings.Fields(line)
		if first {
			if len(parts) != 1 || parts[0] != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrPLYFormat)
			}
			first = false
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("%w: missing format line", ErrPLYFormat)
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad format line %q", ErrPLYFormat, strings.TrimSpace(line))
			}
			header.Format = parts[1]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrPLYFormat, strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrPLYFormat, parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before element", ErrPLYFormat)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrPLYFormat, parts[0])
		}
	}
}

// parsePLYProperty parses the fields of a property line after "property"
func parsePLYProperty(parts []string) (plyProperty, error) {
	var prop plyProperty
	if len(parts) >= 4 && parts[0] == "list" {
		prop = plyProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}
	} else if len(parts) >= 2 && parts[0] != "list" {
		prop = plyProperty{Type: parts[0], Name: parts[1]}
	} else {
		return prop, fmt.Errorf("%w: invalid property definition %v", ErrPLYFormat, parts)
	}

	if plyTypeSize(prop.Type) == 0 || (prop.IsList && plyTypeSize(prop.ListType) == 0) {
		return prop, fmt.Errorf("%w: unsupported type in property %s", ErrPLYFormat, prop.Name)
	}
	return prop, nil
}

func readPLYVertices(values plyValueReader, element plyElement, mesh *MeshData) error {
	position := [3]int{-1, -1, -1}
	normal := [3]int{-1, -1, -1}
	for i, prop := range element.Props {
		if prop.IsList {
			continue
		}
		switch prop.Name {
		case "x":
			position[0] = i
		case "y":
			position[1] = i
		case "z":
			position[2] = i
		case "nx":
			normal[0] = i
		case "ny":
			normal[1] = i
		case "nz":
			normal[2] = i
		}
	}
	if position[0] < 0 || position[1] < 0 || position[2] < 0 {
		return fmt.Errorf("%w: vertex element needs x, y and z", ErrPLYFormat)
	}
	hasNormals := normal[0] >= 0 && normal[1] >= 0 && normal[2] >= 0

	mesh.Vertices = make([]r3.Vec, 0, element.Count)
	if hasNormals {
		mesh.Normals = make([]r3.Vec, 0, element.Count)
	}

	scalars := make([]float64, len(element.Props))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Props {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return err
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", v, err)
			}
			scalars[i] = value
		}

		mesh.Vertices = append(mesh.Vertices, r3.Vec{X: scalars[position[0]], Y: scalars[position[1]], Z: scalars[position[2]]})
		if hasNormals {
			mesh.Normals = append(mesh.Normals, r3.Vec{X: scalars[normal[0]], Y: scalars[normal[1]], Z: scalars[normal[2]]})
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, element plyElement, mesh *MeshData) error {
	mesh.Faces = make([]int, 0, 3*element.Count)

	var polygon []int
	for f := 0; f < element.Count; f++ {
		for _, prop := range element.Props {
			isIndices := prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			if !isIndices {
				if err := skipPLYProperty(values, prop); err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			if count < 3 {
				return fmt.Errorf("%w: face %d has %v vertices", ErrPLYFormat, f, count)
			}

			polygon = polygon[:0]
			for k := 0; k < int(count); k++ {
				idx, err := values.read(prop.Type)
				if err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				polygon = append(polygon, int(idx))
			}

			// Triangle fan around the first vertex
			for k := 1; k+1 < len(polygon); k++ {
				mesh.Faces = append(mesh.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, element plyElement) error {
	for n := 0; n < element.Count; n++ {
		for _, prop := range element.Props {
			if err := skipPLYProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop plyProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop plyProperty) error {
	count, err := values.read(prop.ListType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.read(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// plyValueReader reads successive scalar values of the body
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (a *plyASCIIReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q", ErrPLYFormat, dataType, a.scanner.Text())
	}
	return value, nil
}

type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinaryReader) read(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
