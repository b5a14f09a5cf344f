package raytrace

import (
	"errors"
	"fmt"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
)

// ErrSingularTransform is returned when a model's placement cannot be
// inverted, so rays cannot be taken into its local frame.
var ErrSingularTransform = errors.New("singular model transform")

// Material holds Phong coefficients. Ka scales each light's color for the
// ambient term, Ks weights the specular highlight and the reflected ray, Kt
// weights the transmitted ray.
type Material struct {
	Ka, Ks, Kt Color
	Shininess  float64
}

// frame caches a model's placement and its derived matrices.
type frame struct {
	toWorld math3d.Mat4
	toLocal math3d.Mat4
	normal  math3d.Mat4
}

func newFrame(toWorld math3d.Mat4) (frame, error) {
	inv, ok := toWorld.Inverse()
	if !ok {
		return frame{}, ErrSingularTransform
	}
	return frame{
		toWorld: toWorld,
		toLocal: inv,
		normal:  toWorld.NormalMatrix(),
	}, nil
}

// Model is something a Scene can intersect. The set of implementations is
// closed; *MeshModel is the only one.
type Model interface {
	// Name identifies the model in logs.
	Name() string
	// Transform returns the model-to-world matrix.
	Transform() math3d.Mat4
	Material() Material
	// Bounds returns the box around the geometry in local space.
	Bounds() AABB
	// IntersectLocal finds the nearest hit of a ray already expressed in
	// the model's local frame.
	IntersectLocal(r Ray) (LocalHit, bool)

	frame() *frame
}

// meshPart is one mesh of a model together with its local bounds.
type meshPart struct {
	mesh   *models.Mesh
	bounds AABB
}

// MeshModel is a placed group of polygon meshes sharing one material.
// It is immutable once built and safe for concurrent reads.
type MeshModel struct {
	name     string
	placed   frame
	material Material
	parts    []meshPart
	bounds   AABB
}

var _ Model = (*MeshModel)(nil)

// NewMeshModel places meshes in the world with toWorld. The meshes are
// copied; later changes to the arguments do not affect the model. Meshes
// without normals get flat normals.
func NewMeshModel(name string, meshes []*models.Mesh, toWorld math3d.Mat4, mat Material) (*MeshModel, error) {
	f, err := newFrame(toWorld)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}

	m := &MeshModel{
		name:     name,
		placed:   f,
		material: mat,
		parts:    make([]meshPart, 0, len(meshes)),
		bounds:   EmptyAABB(),
	}
	for _, src := range meshes {
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		mesh := src.Clone()
		if !mesh.HasNormals() {
			mesh.CalculateNormals()
		}
		b := EmptyAABB()
		for _, v := range mesh.Vertices {
			b = b.Extend(v.Position)
		}
		m.parts = append(m.parts, meshPart{mesh: mesh, bounds: b})
		m.bounds = m.bounds.Union(b)
	}
	return m, nil
}

// WithTransform returns a copy of the model placed with toWorld. Geometry
// is shared between the two models.
func (m *MeshModel) WithTransform(toWorld math3d.Mat4) (*MeshModel, error) {
	f, err := newFrame(toWorld)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", m.name, err)
	}
	c := *m
	c.placed = f
	return &c, nil
}

func (m *MeshModel) Name() string           { return m.name }
func (m *MeshModel) Transform() math3d.Mat4 { return m.placed.toWorld }
func (m *MeshModel) Material() Material     { return m.material }
func (m *MeshModel) Bounds() AABB           { return m.bounds }
func (m *MeshModel) frame() *frame          { return &m.placed }

// WorldBounds returns the local bounds carried into world space.
func (m *MeshModel) WorldBounds() AABB {
	return m.bounds.Transform(m.placed.toWorld)
}

// TriangleCount returns the number of triangles after fan triangulation.
func (m *MeshModel) TriangleCount() int {
	n := 0
	for _, p := range m.parts {
		n += p.mesh.TriangleCount()
	}
	return n
}

// IntersectLocal scans every face of every mesh whose bounds the ray
// crosses. Polygons are fanned around their first vertex. A triangle hit
// counts when it is strictly interior and r.TMin <= t < best.
func (m *MeshModel) IntersectLocal(r Ray) (LocalHit, bool) {
	if !m.bounds.Intersect(r) {
		return LocalHit{}, false
	}

	best := LocalHit{T: r.TMax}
	found := false
	for pi, part := range m.parts {
		if !part.bounds.Intersect(r) {
			continue
		}
		verts := part.mesh.Vertices
		for fi, f := range part.mesh.Faces {
			v0 := &verts[f.V[0]]
			for k := 1; k+1 < len(f.V); k++ {
				v1, v2 := &verts[f.V[k]], &verts[f.V[k+1]]

				alpha, beta, gamma, t, ok := planeHit(r, v0.Position, v1.Position, v2.Position)
				if !ok || alpha <= 0 || beta <= 0 || gamma <= 0 {
					continue
				}
				if t < r.TMin || t >= best.T {
					continue
				}

				n := v0.Normal.Scale(alpha).
					Add(v1.Normal.Scale(beta)).
					Add(v2.Normal.Scale(gamma)).
					Normalize()
				best = LocalHit{
					T:      t,
					Point:  r.At(t),
					Normal: n,
					Alpha:  alpha,
					Beta:   beta,
					Gamma:  gamma,
					Mesh:   pi,
					Face:   fi,
				}
				found = true
			}
		}
	}
	return best, found
}
