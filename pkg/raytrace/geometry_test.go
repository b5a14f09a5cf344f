package raytrace

import (
	"math"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

func TestIntersectPlaneCentroid(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 math3d.Vec3
		origin     math3d.Vec3
	}{
		{"xy plane", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 3)},
		{"floor", math3d.V3(-1, 0, 1), math3d.V3(1, 0, 1), math3d.V3(0, 0, -1), math3d.V3(0.2, 4, -0.1)},
		{"tilted", math3d.V3(1, 2, 3), math3d.V3(4, 0, 1), math3d.V3(2, 5, -1), math3d.V3(-3, -2, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			centroid := tt.p1.Add(tt.p2).Add(tt.p3).Scale(1.0 / 3)
			r := NewRay(tt.origin, centroid.Sub(tt.origin))

			alpha, beta, gamma, ok := IntersectPlane(r, tt.p1, tt.p2, tt.p3)
			if !ok {
				t.Fatal("ray at centroid reported parallel")
			}
			if sum := alpha + beta + gamma; math.Abs(sum-1) > 1e-9 {
				t.Errorf("alpha+beta+gamma = %f, want 1", sum)
			}
			for _, w := range []float64{alpha, beta, gamma} {
				if w <= 0 || w >= 1 {
					t.Errorf("barycentric %f outside (0,1)", w)
				}
				if math.Abs(w-1.0/3) > 1e-9 {
					t.Errorf("barycentric %f, want 1/3 at the centroid", w)
				}
			}
			if !IntersectTriangle(r, tt.p1, tt.p2, tt.p3) {
				t.Error("IntersectTriangle missed the centroid")
			}
		})
	}
}

func TestIntersectPlaneWeightsMatchVertices(t *testing.T) {
	p1, p2, p3 := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)
	r := NewRay(math3d.V3(0.2, 0.3, 1), math3d.V3(0, 0, -1))

	alpha, beta, gamma, t0, ok := planeHit(r, p1, p2, p3)
	if !ok {
		t.Fatal("unexpected parallel result")
	}
	got := p1.Scale(alpha).Add(p2.Scale(beta)).Add(p3.Scale(gamma))
	if !got.ApproxEqual(r.At(t0)) {
		t.Errorf("weighted vertices %v != hit point %v", got, r.At(t0))
	}
	if math.Abs(t0-1) > 1e-12 {
		t.Errorf("t = %f, want 1", t0)
	}
}

func TestIntersectPlaneParallel(t *testing.T) {
	p1, p2, p3 := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)
	r := NewRay(math3d.V3(0, 1, 0), math3d.V3(1, 0, 0))
	if _, _, _, ok := IntersectPlane(r, p1, p2, p3); ok {
		t.Error("ray parallel to the plane should be rejected")
	}
	if IntersectTriangle(r, p1, p2, p3) {
		t.Error("IntersectTriangle accepted a parallel ray")
	}
}

func TestIntersectTriangleStrictlyInterior(t *testing.T) {
	p1, p2, p3 := math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(0, 2, 0)
	tests := []struct {
		name   string
		origin math3d.Vec3
		want   bool
	}{
		{"inside", math3d.V3(0.5, 0.5, 1), true},
		{"edge midpoint", math3d.V3(1, 0, 1), false},
		{"vertex", math3d.V3(0, 0, 1), false},
		{"outside", math3d.V3(3, 3, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRay(tt.origin, math3d.V3(0, 0, -1))
			if got := IntersectTriangle(r, p1, p2, p3); got != tt.want {
				t.Errorf("IntersectTriangle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectRectangle(t *testing.T) {
	p1, p2, p3, p4 := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)
	down := math3d.V3(0, 0, -1)

	// one point in each triangle of the split
	if !IntersectRectangle(NewRay(math3d.V3(0.8, 0.2, 1), down), p1, p2, p3, p4) {
		t.Error("missed point in first triangle")
	}
	if !IntersectRectangle(NewRay(math3d.V3(0.2, 0.8, 1), down), p1, p2, p3, p4) {
		t.Error("missed point in second triangle")
	}
	if IntersectRectangle(NewRay(math3d.V3(1.5, 0.5, 1), down), p1, p2, p3, p4) {
		t.Error("hit reported outside the rectangle")
	}
}
