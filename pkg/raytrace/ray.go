package raytrace

import "github.com/taigrr/whitted/pkg/math3d"

// Default world-space hit range for NewRay. RayTMin keeps secondary rays
// from re-hitting the surface they leave.
const (
	RayTMin = 1e-4
	RayTMax = 1e30
)

// Ray is a half-line with a unit direction. Hits count only for
// parameters in [TMin, TMax).
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
	TMin      float64
	TMax      float64

	// Time is carried for motion blur and currently unused.
	Time float64
}

// NewRay builds a ray, normalizing dir.
func NewRay(origin, dir math3d.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: dir.Normalize(),
		TMin:      RayTMin,
		TMax:      RayTMax,
	}
}

// At returns the point at parameter t.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transform maps the ray into another frame by transforming its origin and
// origin+direction, then renormalizing. TMin and TMax are rescaled with the
// direction so they bound the same stretch of the line in the new frame.
func (r Ray) Transform(m math3d.Mat4) Ray {
	o := m.MulPoint(r.Origin)
	d := m.MulPoint(r.Origin.Add(r.Direction)).Sub(o)
	stretch := d.Len()
	return Ray{
		Origin:    o,
		Direction: d.Normalize(),
		TMin:      r.TMin * stretch,
		TMax:      r.TMax * stretch,
		Time:      r.Time,
	}
}
