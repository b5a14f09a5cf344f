package raytrace

// DefaultMaxDepth is the default recursion limit for Trace.
const DefaultMaxDepth = 3

// Trace returns the color seen along r. depth counts the remaining bounces:
// at zero, or when nothing is hit, the result is black. A hit contributes
// its Phong color plus ks times the mirror-reflected ray and kt times a ray
// continuing straight through the surface, each traced with depth-1. The
// sum is clamped to [0, 1].
func Trace(r Ray, s *Scene, depth int) Color {
	if depth <= 0 {
		return Black
	}
	is := NewIntersection(r)
	if !s.Intersect(is) {
		return Black
	}

	mat := is.Model.Material()
	c := s.Shade(is.Point, is.Normal, r.Direction.Negate(), mat)

	// Traced colors are clamped, so a zero coefficient always zeroes the
	// term and the recursion can be skipped.
	if !mat.Ks.IsBlack() {
		reflected := NewRay(is.Point, r.Direction.Reflect(is.Normal))
		c = c.Add(mat.Ks.Mul(Trace(reflected, s, depth-1)))
	}
	if !mat.Kt.IsBlack() {
		through := NewRay(is.Point, r.Direction)
		c = c.Add(mat.Kt.Mul(Trace(through, s, depth-1)))
	}
	return c.Clamp()
}
