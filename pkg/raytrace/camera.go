package raytrace

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// Pose places a camera. FOV is the full vertical field of view in radians.
// Near and Focal are carried for callers and do not affect the pinhole
// projection.
type Pose struct {
	Origin math3d.Vec3
	Front  math3d.Vec3
	Up     math3d.Vec3
	FOV    float64
	Near   float64
	Focal  float64
}

// DefaultPose looks down -Z from (0, 0, 5) with a 60 degree field of view.
func DefaultPose() Pose {
	return Pose{
		Origin: math3d.V3(0, 0, 5),
		Front:  math3d.Forward(),
		Up:     math3d.Up(),
		FOV:    math.Pi / 3,
		Near:   0.1,
		Focal:  1,
	}
}

// FramePose returns a pose at distance-scaled offset dir from the center of
// box, looking at it, such that the whole box fits a fov-wide view.
func FramePose(box AABB, dir math3d.Vec3, fov float64) Pose {
	p := DefaultPose()
	p.FOV = fov
	if box.IsEmpty() {
		return p
	}
	center := box.Center()
	radius := box.Size().Len() / 2
	if radius == 0 {
		radius = 1
	}
	dist := radius / math.Sin(fov/2)
	p.Origin = center.Add(dir.Normalize().Scale(dist))
	p.Front = center.Sub(p.Origin).Normalize()
	p.Near = math.Max(dist-radius, 0.01)
	p.Focal = dist
	if math.Abs(p.Front.Dot(math3d.Up())) > 0.999 {
		p.Up = math3d.Forward()
	}
	return p
}

// Camera maps normalized screen coordinates to world rays.
type Camera interface {
	MakeRay(x, y float64) Ray
}

// PerspectiveCamera is a pinhole camera.
type PerspectiveCamera struct {
	pose    Pose
	forward math3d.Vec3
	right   math3d.Vec3
	up      math3d.Vec3
	tanFov  float64
}

var _ Camera = (*PerspectiveCamera)(nil)

// NewPerspectiveCamera builds a camera for p.
func NewPerspectiveCamera(p Pose) *PerspectiveCamera {
	c := &PerspectiveCamera{}
	c.ModifyPose(p)
	return c
}

// ModifyPose recomputes the orthonormal basis for a new pose in place. The
// stored up vector is re-derived so that it is perpendicular to forward.
func (c *PerspectiveCamera) ModifyPose(p Pose) {
	c.pose = p
	c.forward = p.Front.Normalize()
	c.right = c.forward.Cross(p.Up).Normalize()
	c.up = c.right.Cross(c.forward)
	c.tanFov = math.Tan(p.FOV / 2)
}

// Pose returns the pose the camera was built from.
func (c *PerspectiveCamera) Pose() Pose { return c.pose }

// Basis returns the camera's forward, right and up unit vectors.
func (c *PerspectiveCamera) Basis() (forward, right, up math3d.Vec3) {
	return c.forward, c.right, c.up
}

// MakeRay returns the ray through screen point (x, y), both in [0, 1] with
// (0.5, 0.5) at the center and y growing upward. Aspect correction is the
// caller's job.
func (c *PerspectiveCamera) MakeRay(x, y float64) Ray {
	dir := c.forward.
		Add(c.right.Scale((x - 0.5) * c.tanFov)).
		Add(c.up.Scale((y - 0.5) * c.tanFov))
	return NewRay(c.pose.Origin, dir)
}
