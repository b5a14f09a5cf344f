// Package models provides mesh loading and representation for whitted.
package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// ErrInvalidFace is returned by Validate for faces with fewer than three
// vertices or with indices outside the vertex list.
var ErrInvalidFace = errors.New("invalid face")

// Mesh is an indexed polygon mesh in model-local space.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box in local space (see CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position  math3d.Vec3
	Normal    math3d.Vec3
	UV        math3d.Vec2
	Tangent   math3d.Vec3
	Bitangent math3d.Vec3
}

// Face is a convex polygon given as indices into Mesh.Vertices. Faces with
// more than three vertices are treated as a triangle fan around V[0].
type Face struct {
	V []int
}

// Tri builds a triangular face.
func Tri(a, b, c int) Face {
	return Face{V: []int{a, b, c}}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// Validate checks that every face is a polygon over existing vertices.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if len(f.V) < 3 {
			return fmt.Errorf("mesh %q face %d has %d vertices: %w", m.Name, i, len(f.V), ErrInvalidFace)
		}
		for _, idx := range f.V {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("mesh %q face %d references vertex %d of %d: %w", m.Name, i, idx, len(m.Vertices), ErrInvalidFace)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// TriangleCount returns the number of triangles after fan triangulation.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		if len(f.V) >= 3 {
			n += len(f.V) - 2
		}
	}
	return n
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceNormal returns the unnormalized polygon normal using Newell's method,
// which tolerates slightly non-planar polygons.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	var n math3d.Vec3
	for i, idx := range f.V {
		cur := m.Vertices[idx].Position
		next := m.Vertices[f.V[(i+1)%len(f.V)]].Position
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces keep the normal of the last face that touches them.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, idx := range f.V {
			m.Vertices[idx].Normal = n
		}
	}
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		n := m.faceNormal(f) // area weighted, normalize later
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// CalculateTangents derives per-vertex tangent and bitangent vectors from
// positions and UVs. Vertices whose UVs are degenerate get an arbitrary
// orthonormal frame around their normal.
func (m *Mesh) CalculateTangents() {
	tan := make([]math3d.Vec3, len(m.Vertices))
	bit := make([]math3d.Vec3, len(m.Vertices))

	for _, f := range m.Faces {
		for k := 1; k+1 < len(f.V); k++ {
			i0, i1, i2 := f.V[0], f.V[k], f.V[k+1]
			v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

			e1 := v1.Position.Sub(v0.Position)
			e2 := v2.Position.Sub(v0.Position)
			d1 := v1.UV.Sub(v0.UV)
			d2 := v2.UV.Sub(v0.UV)

			det := d1.X*d2.Y - d2.X*d1.Y
			if det == 0 {
				continue
			}
			r := 1 / det
			t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(r)
			b := e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(r)

			for _, idx := range [3]int{i0, i1, i2} {
				tan[idx] = tan[idx].Add(t)
				bit[idx] = bit[idx].Add(b)
			}
		}
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		// Gram-Schmidt against the normal
		t := tan[i].Sub(n.Scale(n.Dot(tan[i]))).Normalize()
		if t.LenSq() == 0 {
			t = orthogonal(n)
		}
		b := bit[i].Normalize()
		if b.LenSq() == 0 {
			b = n.Cross(t).Normalize()
		}
		m.Vertices[i].Tangent = t
		m.Vertices[i].Bitangent = b
	}
}

// orthogonal returns some unit vector perpendicular to n.
func orthogonal(n math3d.Vec3) math3d.Vec3 {
	axis := math3d.V3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		axis = math3d.V3(0, 1, 0)
	}
	return n.Cross(axis).Normalize()
}

// Transform bakes mat into the vertex data and recomputes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := mat.NormalMatrix()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulPoint(v.Position)
		v.Normal = nm.MulDir(v.Normal).Normalize()
		v.Tangent = mat.MulDir(v.Tangent).Normalize()
		v.Bitangent = mat.MulDir(v.Bitangent).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	for i, f := range m.Faces {
		clone.Faces[i] = Face{V: append([]int(nil), f.V...)}
	}
	return clone
}

// finish fills in whatever derived data a loader did not provide.
func (m *Mesh) finish(smooth bool) {
	if !m.HasNormals() {
		if smooth {
			m.CalculateSmoothNormals()
		} else {
			m.CalculateNormals()
		}
	}
	hasTangents := false
	for _, v := range m.Vertices {
		if v.Tangent.LenSq() > 0 {
			hasTangents = true
			break
		}
	}
	if !hasTangents {
		m.CalculateTangents()
	}
	m.CalculateBounds()
}
