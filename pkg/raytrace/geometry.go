package raytrace

import "github.com/taigrr/whitted/pkg/math3d"

// planeHit solves for the barycentric coordinates and line parameter where
// r crosses the plane through p1, p2, p3. alpha, beta and gamma weight p1,
// p2 and p3 respectively. A ray exactly parallel to the plane (det == 0)
// reports ok=false.
func planeHit(r Ray, p1, p2, p3 math3d.Vec3) (alpha, beta, gamma, t float64, ok bool) {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	det := -r.Direction.Dot(n)
	if det == 0 {
		return 0, 0, 0, 0, false
	}
	invDet := 1 / det

	toV0 := p1.Sub(r.Origin)
	rayCross := r.Direction.Cross(toV0)

	gamma = -p2.Sub(r.Origin).Dot(rayCross) * invDet
	beta = p3.Sub(r.Origin).Dot(rayCross) * invDet
	alpha = 1 - beta - gamma
	t = -toV0.Dot(n) * invDet
	return alpha, beta, gamma, t, true
}

// IntersectPlane returns the barycentric coordinates of the point where the
// line carrying r meets the plane of triangle p1, p2, p3. The coordinates
// always sum to 1; ok is false only for an exactly parallel ray.
func IntersectPlane(r Ray, p1, p2, p3 math3d.Vec3) (alpha, beta, gamma float64, ok bool) {
	alpha, beta, gamma, _, ok = planeHit(r, p1, p2, p3)
	return alpha, beta, gamma, ok
}

// IntersectTriangle reports a strictly interior hit: points on an edge or
// vertex do not count.
func IntersectTriangle(r Ray, p1, p2, p3 math3d.Vec3) bool {
	alpha, beta, gamma, ok := IntersectPlane(r, p1, p2, p3)
	return ok && alpha > 0 && beta > 0 && gamma > 0
}

// IntersectRectangle tests the quad p1..p4 as triangles (p1, p2, p3) and
// (p1, p3, p4).
func IntersectRectangle(r Ray, p1, p2, p3, p4 math3d.Vec3) bool {
	return IntersectTriangle(r, p1, p2, p3) || IntersectTriangle(r, p1, p3, p4)
}
