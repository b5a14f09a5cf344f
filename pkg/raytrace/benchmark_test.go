package raytrace

import (
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

func BenchmarkIntersectTriangle(b *testing.B) {
	p1, p2, p3 := math3d.V3(-1, 0, 1), math3d.V3(1, 0, 1), math3d.V3(0, 0, -1)
	r := NewRay(math3d.V3(0.1, 1, 0.2), math3d.V3(0, -1, 0))
	for b.Loop() {
		IntersectTriangle(r, p1, p2, p3)
	}
}

func BenchmarkAABBIntersect(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	r := NewRay(math3d.V3(-4, 0.3, 2), math3d.V3(1, 0.05, -0.4))
	for b.Loop() {
		box.Intersect(r)
	}
}

func BenchmarkTrace(b *testing.B) {
	s := richScene(b)
	cam := NewPerspectiveCamera(s.Pose())
	r := cam.MakeRay(0.5, 0.4)
	for b.Loop() {
		Trace(r, s, DefaultMaxDepth)
	}
}

func BenchmarkRender(b *testing.B) {
	s := richScene(b)
	cam := NewPerspectiveCamera(s.Pose())
	opts := DefaultRenderOptions()
	for b.Loop() {
		if _, err := Render(s, cam, 64, 48, opts); err != nil {
			b.Fatal(err)
		}
	}
}
