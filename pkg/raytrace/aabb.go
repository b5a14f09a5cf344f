package raytrace

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// AABB is an axis-aligned bounding box. The zero value is not useful; start
// from EmptyAABB when accumulating.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// EmptyAABB returns the degenerate box (min=+inf, max=-inf) that acts as
// the identity for Extend and Union.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// NewAABB creates the box spanned by two corner points in any order.
func NewAABB(a, b math3d.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// corners returns the eight corners of the box.
func (b AABB) corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns the box bounding b after m is applied. Every corner is
// mapped and min/max are re-sorted per axis, since rotations and mirroring
// scales reorder them.
func (b AABB) Transform(m math3d.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.corners() {
		out = out.Extend(m.MulPoint(c))
	}
	return out
}

// Contains reports whether p lies within all three axis ranges, bounds
// inclusive.
func (b AABB) Contains(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersect reports whether the line carrying r crosses the box. It is a
// slab test over the whole line with inclusive bounds, so boxes behind the
// origin also pass; callers filter by parameter afterwards.
func (b AABB) Intersect(r Ray) bool {
	if b.IsEmpty() {
		return false
	}
	tmin, tmax := math.Inf(-1), math.Inf(1)
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := range 3 {
		if d[axis] == 0 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return false
			}
			continue
		}
		inv := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * inv
		t2 := (hi[axis] - o[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// IntersectFaces tests r against the six faces of the box, each split into
// two triangles. Like IntersectTriangle it only accepts strictly interior
// hits, so a line that crosses the box exactly through a face diagonal or
// edge is missed. Intersect is the faster equivalent for everything else.
func (b AABB) IntersectFaces(r Ray) bool {
	c := b.corners()
	// index bits: x<<2 | y<<1 | z
	faces := [6][4]int{
		{0, 1, 3, 2}, // -x
		{4, 5, 7, 6}, // +x
		{0, 2, 6, 4}, // -z
		{1, 3, 7, 5}, // +z
		{0, 1, 5, 4}, // -y
		{2, 3, 7, 6}, // +y
	}
	for _, f := range faces {
		if IntersectRectangle(r, c[f[0]], c[f[1]], c[f[2]], c[f[3]]) {
			return true
		}
	}
	return false
}
