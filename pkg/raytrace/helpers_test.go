package raytrace

import (
	"math"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
)

func vecNear(a, b math3d.Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

// floorTriangle is a flat triangle in the y=0 plane facing up. Its centroid
// is (0, 0, 1/3).
func floorTriangle() *models.Mesh {
	return models.NewTriangle("floor",
		math3d.V3(-1, 0, 1),
		math3d.V3(1, 0, 1),
		math3d.V3(0, 0, -1),
	)
}

var floorCentroid = math3d.V3(0, 0, 1.0/3)

func mustModel(t testing.TB, name string, mesh *models.Mesh, toWorld math3d.Mat4, mat Material) *MeshModel {
	t.Helper()
	m, err := NewMeshModel(name, []*models.Mesh{mesh}, toWorld, mat)
	if err != nil {
		t.Fatalf("NewMeshModel(%s): %v", name, err)
	}
	return m
}

// matte is ambient 0.4 with no specular, reflection or transmission.
var matte = Material{Ka: Gray(0.4), Shininess: 1}

// topDownPose looks straight down at the floor triangle's centroid.
func topDownPose() Pose {
	p := DefaultPose()
	p.Origin = floorCentroid.Add(math3d.V3(0, 1, 0))
	p.Front = math3d.V3(0, -1, 0)
	p.Up = math3d.V3(0, 0, -1)
	return p
}

// occluder is a small square at y=3 that blocks both a light at (0,5,0)
// and a straight-up parallel light from the floor centroid, while staying
// behind the top-down camera.
func occluder(t testing.TB) *MeshModel {
	return mustModel(t, "occluder", models.NewPlane("occluder", 1), math3d.Translate(math3d.V3(0, 3, 0)), matte)
}

// centerColor renders an 8x8 image and returns the center pixel, whose ray
// is exactly the camera's forward vector.
func centerColor(t testing.TB, s *Scene) Color {
	t.Helper()
	cam := NewPerspectiveCamera(s.Pose())
	img, err := Render(s, cam, 8, 8, DefaultRenderOptions())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return img.At(4, 4)
}
