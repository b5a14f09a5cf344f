package raytrace

import "github.com/taigrr/whitted/pkg/math3d"

// Light is a light source. The set of implementations is closed:
// PointLight and ParallelLight.
type Light interface {
	isLight()
}

// PointLight emits from a position with no distance falloff.
type PointLight struct {
	Position math3d.Vec3
	Color    Color
}

// ParallelLight is a directional light such as the sun.
type ParallelLight struct {
	toLight math3d.Vec3
	Color   Color
}

// NewParallelLight builds a directional light. dir points from the scene
// toward the light and is normalized here. Both the diffuse term and the
// shadow ray use it as given; the shadow ray is not cast along -dir.
func NewParallelLight(dir math3d.Vec3, c Color) ParallelLight {
	return ParallelLight{toLight: dir.Normalize(), Color: c}
}

// Direction returns the unit vector pointing toward the light.
func (l ParallelLight) Direction() math3d.Vec3 {
	return l.toLight
}

func (PointLight) isLight()    {}
func (ParallelLight) isLight() {}
