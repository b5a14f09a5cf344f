package raytrace

import "github.com/taigrr/whitted/pkg/math3d"

// LocalHit is the nearest hit of a ray against one model, in that model's
// local frame.
type LocalHit struct {
	T      float64 // local-frame parameter
	Point  math3d.Vec3
	Normal math3d.Vec3 // interpolated shading normal, unit length

	// Barycentric weights of the triangle's three vertices.
	Alpha, Beta, Gamma float64

	Mesh int // index of the mesh within the model
	Face int // index of the face within the mesh
}

// Intersection accumulates the nearest hit of one ray across a scene. A
// fresh record is used for every traced ray.
type Intersection struct {
	Ray Ray

	// T is the world-space distance of the best hit so far. It starts at
	// Ray.TMax and only decreases.
	T      float64
	Point  math3d.Vec3
	Normal math3d.Vec3

	Local LocalHit
	Model Model
	Hit   bool
}

// NewIntersection starts an empty record for r.
func NewIntersection(r Ray) *Intersection {
	return &Intersection{Ray: r, T: r.TMax}
}

// promote converts a model-local hit to world space and keeps it if it is
// strictly nearer than the current best and not closer than Ray.TMin. The
// world distance is the displacement of the transformed hit point projected
// onto the unit ray direction, which is valid for any direction.
func (is *Intersection) promote(m Model, hit LocalHit) bool {
	f := m.frame()
	p := f.toWorld.MulPoint(hit.Point)
	t := p.Sub(is.Ray.Origin).Dot(is.Ray.Direction)
	if t < is.Ray.TMin || t >= is.T {
		return false
	}
	is.T = t
	is.Point = p
	is.Normal = f.normal.MulDir(hit.Normal).Normalize()
	is.Local = hit
	is.Model = m
	is.Hit = true
	return true
}
