package models

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/whitted/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into meshes, one per triangle primitive.
type GLTFLoader struct {
	// SmoothNormals selects averaged normals when the asset has none.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{SmoothNormals: true}
}

// LoadGLB loads a GLTF or binary GLTF (.glb) file.
func LoadGLB(path string) ([]*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file. Each triangle primitive becomes its own
// Mesh with its own bounds.
func (l *GLTFLoader) Load(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var meshes []*Mesh
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// lines and points have no surface to hit
				continue
			}
			name := m.Name
			if name == "" {
				name = fmt.Sprintf("mesh%d", mi)
			}
			mesh, err := l.readPrimitive(doc, prim, fmt.Sprintf("%s/%d", name, pi))
			if err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", name, err)
			}
			if mesh == nil {
				continue
			}
			meshes = append(meshes, mesh)
		}
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%s: no triangle primitives", path)
	}
	return meshes, nil
}

// readPrimitive extracts geometry from one GLTF primitive. It returns nil
// for primitives without positions.
func (l *GLTFLoader) readPrimitive(doc *gltf.Document, prim *gltf.Primitive, name string) (*Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals []math3d.Vec3
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = readVec3Accessor(doc, idx); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs []math3d.Vec2
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readVec2Accessor(doc, idx); err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
	}

	var tangents [][4]float32
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		accessor := doc.Accessors[idx]
		if accessor.Type != gltf.AccessorVec4 {
			return nil, fmt.Errorf("read tangents: expected VEC4, got %v", accessor.Type)
		}
		data, err := readAccessorData(doc, accessor)
		if err != nil {
			return nil, fmt.Errorf("read tangents: %w", err)
		}
		tangents, _ = data.([][4]float32)
	}

	mesh := NewMesh(name)
	mesh.Vertices = make([]MeshVertex, len(positions))
	for i, p := range positions {
		v := MeshVertex{Position: p}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			// GLTF puts V=0 at the top of the image
			v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
		}
		if i < len(tangents) && i < len(normals) {
			t := tangents[i]
			v.Tangent = math3d.V3(float64(t[0]), float64(t[1]), float64(t[2])).Normalize()
			// w carries the handedness of the bitangent
			v.Bitangent = v.Normal.Cross(v.Tangent).Scale(float64(t[3])).Normalize()
		}
		mesh.Vertices[i] = v
	}

	if prim.Indices != nil {
		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Tri(indices[i], indices[i+1], indices[i+2]))
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.Faces = append(mesh.Faces, Tri(i, i+1, i+2))
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.finish(l.SmoothNormals)
	return mesh, nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	data, err := readAccessorData(doc, doc.Accessors[accessorIdx])
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	result := make([]int, len(v))
	for i, x := range v {
		result[i] = int(x)
	}
	return result
}

// readFloats reads n little-endian float32 components per element. Unused
// trailing components stay zero.
func readFloats(buf []byte, n, start, stride, count int) ([][4]float32, error) {
	if stride == 0 {
		stride = n * 4
	}
	if count > 0 && start+(count-1)*stride+n*4 > len(buf) {
		return nil, fmt.Errorf("accessor overruns buffer (%d bytes)", len(buf))
	}
	result := make([][4]float32, count)
	for i := range count {
		offset := start + i*stride
		for j := range n {
			result[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[offset+j*4:]))
		}
	}
	return result, nil
}

// readAccessorData reads raw data from a GLTF accessor. gltf.Open has
// already resolved embedded and external buffers into Buffer.Data.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec4:
		return readFloats(bufData, 4, start, stride, count)
	case gltf.AccessorVec3:
		return readFloats(bufData, 3, start, stride, count)
	case gltf.AccessorVec2:
		return readFloats(bufData, 2, start, stride, count)

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}
		if count > 0 && start+(count-1)*stride+stride > len(bufData) {
			return nil, fmt.Errorf("index accessor overruns buffer (%d bytes)", len(bufData))
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}
