package render

import (
	"math"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/raytrace"
)

func near(a, b math3d.Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestOrbitStartsAtEye(t *testing.T) {
	target := math3d.V3(1, 2, 3)
	eye := math3d.V3(4, 6, 3)
	o := NewOrbit(target, eye, math.Pi/3, 60)

	if got := o.Eye(); !near(got, eye) {
		t.Errorf("Eye = %v, want %v", got, eye)
	}
	p := o.Pose()
	if !near(p.Front, target.Sub(eye).Normalize()) {
		t.Errorf("Front = %v does not face the target", p.Front)
	}
	if math.Abs(p.Focal-5) > 1e-9 {
		t.Errorf("Focal = %f, want 5", p.Focal)
	}
}

func TestOrbitEasesTowardGoal(t *testing.T) {
	o := NewOrbit(math3d.Zero3(), math3d.V3(0, 0, 5), math.Pi/3, 60)
	o.Rotate(math.Pi/2, 0)
	o.Zoom(0.5)

	if !o.Update() {
		t.Fatal("rig reported settled right after a rotate")
	}
	yaw, _, dist := o.Angles()
	if yaw <= 0 || yaw >= math.Pi/2 {
		t.Errorf("after one frame yaw = %f, want between 0 and pi/2", yaw)
	}
	if dist >= 5 || dist <= 2.5 {
		t.Errorf("after one frame dist = %f, want between 2.5 and 5", dist)
	}

	for range 600 {
		if !o.Update() {
			break
		}
	}
	if o.Update() {
		t.Fatal("rig still moving after ten seconds")
	}
	if got := o.Eye(); got.Distance(math3d.V3(2.5, 0, 0)) > 1e-3 {
		t.Errorf("settled eye = %v, want (2.5, 0, 0)", got)
	}
}

func TestOrbitPitchClamp(t *testing.T) {
	o := NewOrbit(math3d.Zero3(), math3d.V3(0, 0, 5), math.Pi/3, 60)
	o.Rotate(0, 10)
	o.Snap()
	_, pitch, _ := o.Angles()
	if pitch >= math.Pi/2 {
		t.Errorf("pitch = %f, want below the pole", pitch)
	}

	// the basis stays well defined at the clamp
	_, right, _ := raytrace.NewPerspectiveCamera(o.Pose()).Basis()
	if math.Abs(right.Len()-1) > 1e-9 {
		t.Errorf("right = %v at maximum pitch", right)
	}
}

func TestOrbitZoomAndReset(t *testing.T) {
	o := NewOrbit(math3d.Zero3(), math3d.V3(0, 0, 2), math.Pi/3, 60)
	o.Zoom(0)
	o.Zoom(1e-6)
	o.Snap()
	if _, _, d := o.Angles(); d < minDist {
		t.Errorf("dist = %f, want at least %f", d, minDist)
	}

	o.Rotate(1, 0.5)
	o.Snap()
	o.Reset()
	if got := o.Eye(); !near(got, math3d.V3(0, 0, 2)) {
		t.Errorf("Eye after Reset = %v", got)
	}
}

func TestOrbitFromPose(t *testing.T) {
	p := raytrace.DefaultPose()
	p.Focal = 5
	o := OrbitFromPose(p, 30)
	if !near(o.Target, math3d.Zero3()) {
		t.Errorf("Target = %v, want origin", o.Target)
	}
	if !near(o.Eye(), p.Origin) {
		t.Errorf("Eye = %v, want %v", o.Eye(), p.Origin)
	}
	if o.FOV != p.FOV {
		t.Errorf("FOV = %f, want %f", o.FOV, p.FOV)
	}
}
