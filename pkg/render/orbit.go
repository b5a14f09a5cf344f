package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/raytrace"
)

const (
	maxPitch = math.Pi/2 - 0.01
	minDist  = 0.05
	settled  = 1e-4
)

// springAxis eases a value toward its goal with a critically damped
// spring.
type springAxis struct {
	pos, vel, goal float64
	spring         harmonica.Spring
}

func newSpringAxis(v float64, fps int) springAxis {
	return springAxis{
		pos:    v,
		goal:   v,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *springAxis) update() bool {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.goal)
	return math.Abs(a.pos-a.goal) > settled || math.Abs(a.vel) > settled
}

func (a *springAxis) snap() {
	a.pos, a.vel = a.goal, 0
}

// Orbit is a camera rig circling a target point. Input moves the goal
// angles and distance; Update eases the current values toward them once
// per frame.
type Orbit struct {
	Target math3d.Vec3
	FOV    float64

	yaw, pitch, dist springAxis
	home             [3]float64
	fps              int
}

// NewOrbit places the rig at eye looking at target.
func NewOrbit(target, eye math3d.Vec3, fov float64, fps int) *Orbit {
	off := eye.Sub(target)
	dist := math.Max(eye.Distance(target), minDist)
	pitch := clampPitch(math.Asin(off.Y / dist))
	yaw := math.Atan2(off.X, off.Z)

	o := &Orbit{Target: target, FOV: fov, fps: fps, home: [3]float64{yaw, pitch, dist}}
	o.Reset()
	return o
}

// OrbitFromPose builds a rig that starts at p, circling the point Focal
// units in front of it.
func OrbitFromPose(p raytrace.Pose, fps int) *Orbit {
	focal := p.Focal
	if focal <= 0 {
		focal = 1
	}
	target := p.Origin.Add(p.Front.Normalize().Scale(focal))
	return NewOrbit(target, p.Origin, p.FOV, fps)
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// Rotate moves the goal angles by the given amounts in radians. Pitch is
// clamped short of the poles.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.yaw.goal += dYaw
	o.pitch.goal = clampPitch(o.pitch.goal + dPitch)
}

// Zoom scales the goal distance; factors below one move closer.
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	o.dist.goal = math.Max(o.dist.goal*factor, minDist)
}

// Reset returns to the starting position without easing.
func (o *Orbit) Reset() {
	o.yaw = newSpringAxis(o.home[0], o.fps)
	o.pitch = newSpringAxis(o.home[1], o.fps)
	o.dist = newSpringAxis(o.home[2], o.fps)
}

// Update advances the springs by one frame and reports whether the rig is
// still moving.
func (o *Orbit) Update() bool {
	a := o.yaw.update()
	b := o.pitch.update()
	c := o.dist.update()
	return a || b || c
}

// Snap jumps straight to the goal.
func (o *Orbit) Snap() {
	o.yaw.snap()
	o.pitch.snap()
	o.dist.snap()
}

// Angles returns the current yaw, pitch and distance.
func (o *Orbit) Angles() (yaw, pitch, dist float64) {
	return o.yaw.pos, o.pitch.pos, o.dist.pos
}

// Eye returns the current camera position.
func (o *Orbit) Eye() math3d.Vec3 {
	cp := math.Cos(o.pitch.pos)
	off := math3d.V3(
		math.Sin(o.yaw.pos)*cp,
		math.Sin(o.pitch.pos),
		math.Cos(o.yaw.pos)*cp,
	)
	return o.Target.Add(off.Scale(o.dist.pos))
}

// Pose returns a camera pose for the current position.
func (o *Orbit) Pose() raytrace.Pose {
	eye := o.Eye()
	return raytrace.Pose{
		Origin: eye,
		Front:  o.Target.Sub(eye).Normalize(),
		Up:     math3d.Up(),
		FOV:    o.FOV,
		Near:   0.1,
		Focal:  o.dist.pos,
	}
}
