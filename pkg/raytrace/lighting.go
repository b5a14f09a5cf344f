package raytrace

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// Shade evaluates Phong lighting at a surface point for every enabled
// light. viewDir is the unit direction from the point back toward the eye.
// The ambient term ka*lightColor is always added; diffuse and specular are
// added only when the light reaches the point. Nothing is clamped here.
func (s *Scene) Shade(point, normal, viewDir math3d.Vec3, mat Material) Color {
	var out Color

	for _, sl := range s.lights {
		if !sl.Enabled {
			continue
		}

		var (
			toLight  math3d.Vec3
			c        Color
			occluded bool
		)
		switch l := sl.Light.(type) {
		case PointLight:
			toLight = l.Position.Sub(point).Normalize()
			c = l.Color
			occluded = s.pointShadow(l, point)
		case ParallelLight:
			toLight = l.Direction()
			c = l.Color
			occluded = s.parallelShadow(l, point)
		default:
			continue
		}

		// an occluded light still contributes its ambient term; only
		// diffuse and specular are shadowed
		out = out.Add(mat.Ka.Mul(c))
		if occluded {
			continue
		}

		diff := math.Max(0, normal.Dot(toLight))
		out = out.Add(c.Scale(diff))

		spec := math.Max(0, viewDir.Dot(toLight.Reflect(normal)))
		spec = math.Pow(spec, mat.Shininess)
		out = out.Add(mat.Ks.Mul(c).Scale(spec))
	}
	return out
}

// pointShadow casts from the light toward the point and treats the point
// as lit only when the first surface the ray meets is the point itself,
// compared per axis within math3d.Epsilon. A ray that meets nothing leaves
// the point lit.
func (s *Scene) pointShadow(l PointLight, point math3d.Vec3) bool {
	is := NewIntersection(NewRay(l.Position, point.Sub(l.Position)))
	if !s.Intersect(is) {
		return false
	}
	return !is.Point.ApproxEqual(point)
}

// parallelShadow casts from the point toward the light; any hit occludes.
func (s *Scene) parallelShadow(l ParallelLight, point math3d.Vec3) bool {
	return s.Occluded(NewRay(point, l.Direction()))
}
