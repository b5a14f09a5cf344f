package raytrace

import (
	"math"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

func colorNear(a, b Color, eps float64) bool {
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}

// floorScene places the floor triangle under the top-down camera with the
// given lights, optionally with the occluder above it.
func floorScene(t *testing.T, shadowed bool, lights ...Light) *Scene {
	t.Helper()
	b := NewBuilder()
	b.SetPose(topDownPose())
	b.AddModel(mustModel(t, "floor", floorTriangle(), math3d.Identity(), matte))
	if shadowed {
		b.AddModel(occluder(t))
	}
	for _, l := range lights {
		b.AddLight(l, true)
	}
	return b.Build()
}

func TestLightingLitAndShadowed(t *testing.T) {
	lightPos := math3d.V3(0, 5, 0)
	diffuse := lightPos.Sub(floorCentroid).Normalize().Y

	tests := []struct {
		name     string
		light    Light
		shadowed bool
		want     float64
	}{
		{"white point lit", PointLight{Position: lightPos, Color: Gray(1)}, false, 1},
		{"white point shadowed", PointLight{Position: lightPos, Color: Gray(1)}, true, 0.4},
		{"dim point lit", PointLight{Position: lightPos, Color: Gray(0.25)}, false, 0.1 + 0.25*diffuse},
		{"dim point shadowed", PointLight{Position: lightPos, Color: Gray(0.25)}, true, 0.1},
		{"parallel lit", NewParallelLight(math3d.Up(), Gray(0.25)), false, 0.35},
		{"parallel shadowed", NewParallelLight(math3d.Up(), Gray(0.25)), true, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := centerColor(t, floorScene(t, tt.shadowed, tt.light))
			if !colorNear(got, Gray(tt.want), 1e-9) {
				t.Errorf("center = %+v, want gray %.6f", got, tt.want)
			}
		})
	}
}

func TestLightingDisabledLight(t *testing.T) {
	b := NewBuilder()
	b.SetPose(topDownPose())
	b.AddModel(mustModel(t, "floor", floorTriangle(), math3d.Identity(), matte))
	i := b.AddLight(PointLight{Position: math3d.V3(0, 5, 0), Color: Gray(1)}, true)
	if err := b.SetLightEnabled(i, false); err != nil {
		t.Fatal(err)
	}
	if got := centerColor(t, b.Build()); !got.IsBlack() {
		t.Errorf("center = %+v with every light off, want black", got)
	}
}

func TestShadeSpecular(t *testing.T) {
	up := math3d.Up()
	oblique := math3d.V3(-1, 1, 0).Normalize() // back toward an eye at the upper left
	shiny := Material{Ks: Gray(1), Shininess: 10}

	tests := []struct {
		name    string
		view    math3d.Vec3
		toLight math3d.Vec3
		mat     Material
		want    float64
	}{
		{"light at mirror of eye", oblique, math3d.V3(1, 1, 0), shiny, 0.25 * math.Sqrt2 / 2},
		{"light toward eye", oblique, math3d.V3(-1, 1, 0), shiny, 0.25 * math.Sqrt2 / 2},
		{"light below along reflected view", oblique, math3d.V3(-1, -1, 0), shiny, 0.25},
		{"light straight below", oblique, math3d.V3(0, -1, 0), shiny, 0.25 / 32},
		{"head on light overhead", up, up, Material{Ks: Gray(1), Shininess: 1}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scene{lights: []SceneLight{{Light: NewParallelLight(tt.toLight, Gray(0.25)), Enabled: true}}}
			got := s.Shade(math3d.Zero3(), up, tt.view, tt.mat)
			if !colorNear(got, Gray(tt.want), 1e-9) {
				t.Errorf("Shade = %+v, want gray %.6f", got, tt.want)
			}
		})
	}
}

func TestShadeDoesNotClamp(t *testing.T) {
	s := &Scene{lights: []SceneLight{
		{Light: NewParallelLight(math3d.Up(), Gray(1)), Enabled: true},
		{Light: NewParallelLight(math3d.Up(), Gray(1)), Enabled: true},
	}}
	got := s.Shade(math3d.Zero3(), math3d.Up(), math3d.Up(), Material{Ka: Gray(0.5), Shininess: 1})
	if !colorNear(got, Gray(3), 1e-9) {
		t.Errorf("Shade = %+v, want gray 3", got)
	}
}

func TestPointShadowWithNothingInTheWay(t *testing.T) {
	s := &Scene{}
	if s.pointShadow(PointLight{Position: math3d.V3(0, 5, 0)}, math3d.V3(1, 0, 1)) {
		t.Error("empty scene casts a shadow")
	}
}
