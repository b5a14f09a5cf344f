package models

import "github.com/taigrr/whitted/pkg/math3d"

// NewTriangle builds a single-triangle mesh with a flat normal.
func NewTriangle(name string, a, b, c math3d.Vec3) *Mesh {
	m := NewMesh(name)
	m.Vertices = []MeshVertex{
		{Position: a, UV: math3d.V2(0, 0)},
		{Position: b, UV: math3d.V2(1, 0)},
		{Position: c, UV: math3d.V2(0, 1)},
	}
	m.Faces = []Face{Tri(0, 1, 2)}
	m.finish(false)
	return m
}

// NewPlane builds a square quad of the given size centered at the origin in
// the XZ plane, facing +Y.
func NewPlane(name string, size float64) *Mesh {
	h := size / 2
	m := NewMesh(name)
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(-h, 0, h), UV: math3d.V2(0, 0)},
		{Position: math3d.V3(h, 0, h), UV: math3d.V2(1, 0)},
		{Position: math3d.V3(h, 0, -h), UV: math3d.V2(1, 1)},
		{Position: math3d.V3(-h, 0, -h), UV: math3d.V2(0, 1)},
	}
	m.Faces = []Face{{V: []int{0, 1, 2, 3}}}
	m.finish(false)
	return m
}

// cubeFaces lists each side as outward normal plus the two in-plane axes
// ordered so that u × v = normal.
var cubeFaces = [6][3]math3d.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

// NewCube builds an axis-aligned cube centered at the origin with one quad
// per side and flat normals.
func NewCube(name string, size float64) *Mesh {
	h := size / 2
	m := NewMesh(name)
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := len(m.Vertices)
		for _, c := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := n.Add(u.Scale(c[0])).Add(v.Scale(c[1])).Scale(h)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: p,
				Normal:   n,
				UV:       math3d.V2((c[0]+1)/2, (c[1]+1)/2),
			})
		}
		m.Faces = append(m.Faces, Face{V: []int{base, base + 1, base + 2, base + 3}})
	}
	m.finish(false)
	return m
}
