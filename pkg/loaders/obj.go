package loaders

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/udhos/gwob"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// defaultOBJAmbient scales the diffuse color of library materials into their ambient term
var defaultOBJAmbient = core.NewColor(0.1, 0.1, 0.1)

// LoadOBJ loads a Wavefront OBJ file along with its material library, if any.
// Faces are triangulated by the parser. Vertex normals are kept when the file
// has them.
func LoadOBJ(filename string, logger core.Logger) (*MeshData, error) {
	startTime := time.Now()

	options := &gwob.ObjParserOptions{
		LogStats:      logger != nil,
		Logger:        func(msg string) { logger.Printf("%s\n", msg) },
		IgnoreNormals: false,
	}
	if logger == nil {
		options.Logger = func(string) {}
	}

	obj, err := gwob.NewObjFromFile(filename, options)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ file %s: %w", filename, err)
	}

	mesh := objToMesh(obj)

	if obj.Mtllib != "" {
		lib, err := readMaterialLib(filename, obj.Mtllib, options)
		if err != nil {
			return nil, err
		}
		mesh.Materials = make(map[string]*core.Material, len(lib.Lib))
		for name, m := range lib.Lib {
			mesh.Materials[name] = objMaterial(m)
		}
	}

	if logger != nil {
		logger.Printf("Loaded OBJ: %d vertices, %d triangles, %d materials in %v\n",
			len(mesh.Vertices), mesh.TriangleCount(), len(mesh.Materials), time.Since(startTime))
	}
	return mesh, nil
}

// readMaterialLib reads the material library next to the OBJ file, falling
// back to the path as written in the file
func readMaterialLib(objPath, mtllib string, options *gwob.ObjParserOptions) (gwob.MaterialLib, error) {
	lib, err := gwob.ReadMaterialLibFromFile(filepath.Join(filepath.Dir(objPath), mtllib), options)
	if err == nil {
		return lib, nil
	}
	lib, err = gwob.ReadMaterialLibFromFile(mtllib, options)
	if err != nil {
		return gwob.MaterialLib{}, fmt.Errorf("failed to read material library %s: %w", mtllib, err)
	}
	return lib, nil
}

// objToMesh unpacks the parser's interleaved vertex buffer
func objToMesh(obj *gwob.Obj) *MeshData {
	stride := obj.StrideSize / 4
	positionOffset := obj.StrideOffsetPosition / 4
	normalOffset := obj.StrideOffsetNormal / 4
	vertexCount := len(obj.Coord) / stride

	mesh := &MeshData{
		Vertices: make([]r3.Vec, vertexCount),
		Faces:    make([]int, len(obj.Indices)),
	}
	if obj.NormCoordFound {
		mesh.Normals = make([]r3.Vec, vertexCount)
	}

	for i := 0; i < vertexCount; i++ {
		base := stride * i
		mesh.Vertices[i] = r3.Vec{
			X: obj.Coord64(base + positionOffset),
			Y: obj.Coord64(base + positionOffset + 1),
			Z: obj.Coord64(base + positionOffset + 2),
		}
		if obj.NormCoordFound {
			mesh.Normals[i] = r3.Unit(r3.Vec{
				X: obj.Coord64(base + normalOffset),
				Y: obj.Coord64(base + normalOffset + 1),
				Z: obj.Coord64(base + normalOffset + 2),
			})
		}
	}
	copy(mesh.Faces, obj.Indices)

	for _, g := range obj.Groups {
		if g.IndexCount == 0 {
			continue
		}
		mesh.Groups = append(mesh.Groups, FaceGroup{
			Material: g.Usemtl,
			Start:    g.IndexBegin,
			Count:    g.IndexCount,
		})
	}

	return mesh
}

// objMaterial converts a material library entry into a diffuse material.
// Only the diffuse color is read from the library; the ambient term is
// derived from it.
func objMaterial(m *gwob.Material) *core.Material {
	kd := core.NewColor(float64(m.Kd[0]), float64(m.Kd[1]), float64(m.Kd[2]))
	return core.NewDiffuseMaterial(defaultOBJAmbient.Mul(kd), kd)
}
