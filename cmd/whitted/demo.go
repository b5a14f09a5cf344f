package main

import (
	"math"

	"github.com/taigrr/whitted/pkg/config"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/raytrace"
)

func defaultLights() []config.LightConfig {
	return []config.LightConfig{
		{Type: "point", Position: [3]float64{3, 5, 4}, Color: [3]float64{0.9, 0.85, 0.75}},
		{Type: "parallel", Direction: [3]float64{-1, 2, 0.5}, Color: [3]float64{0.25, 0.27, 0.3}},
	}
}

// demoScene is a glossy floor with an opaque cube, a see-through cube and
// a mirror panel, lit by the default lights.
func demoScene() (*raytrace.Builder, error) {
	b := raytrace.NewBuilder()

	type part struct {
		mesh    *models.Mesh
		toWorld math3d.Mat4
		mat     raytrace.Material
	}
	parts := []part{
		{
			models.NewPlane("floor", 12),
			math3d.Translate(math3d.V3(0, -1, 0)),
			raytrace.Material{Ka: raytrace.Gray(0.12), Ks: raytrace.Gray(0.3), Shininess: 8},
		},
		{
			models.NewCube("red cube", 1.2),
			math3d.TRS(math3d.V3(-1, -0.4, 0), math3d.V3(0, math.Pi/6, 0), math3d.V3(1, 1, 1)),
			raytrace.Material{Ka: raytrace.Color{R: 0.35, G: 0.08, B: 0.06}, Ks: raytrace.Gray(0.2), Shininess: 32},
		},
		{
			models.NewCube("glass cube", 1),
			math3d.TRS(math3d.V3(1.1, -0.5, 0.8), math3d.V3(0, -math.Pi/8, 0), math3d.V3(1, 1, 1)),
			raytrace.Material{Ka: raytrace.Color{R: 0.02, G: 0.05, B: 0.08}, Ks: raytrace.Gray(0.1), Kt: raytrace.Color{R: 0.6, G: 0.75, B: 0.8}, Shininess: 64},
		},
		{
			models.NewPlane("mirror", 2.5),
			math3d.TRS(math3d.V3(0.3, 0.25, -1.6), math3d.V3(math.Pi/2, 0, 0), math3d.V3(1.4, 1, 1)),
			raytrace.Material{Ka: raytrace.Gray(0.02), Ks: raytrace.Gray(0.85), Shininess: 128},
		},
	}

	bounds := raytrace.EmptyAABB()
	for _, p := range parts {
		m, err := raytrace.NewMeshModel(p.mesh.Name, []*models.Mesh{p.mesh}, p.toWorld, p.mat)
		if err != nil {
			return nil, err
		}
		b.AddModel(m)
		if p.mesh.Name != "floor" {
			bounds = bounds.Union(m.WorldBounds())
		}
	}

	for _, lc := range defaultLights() {
		l, err := lc.Light()
		if err != nil {
			return nil, err
		}
		b.AddLight(l, true)
	}

	b.SetPose(raytrace.FramePose(bounds, config.FrameDirection, math.Pi/3))
	return b, nil
}
