package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/raytrace"
)

// LoaderFunc reads the meshes of one asset file.
type LoaderFunc func(path string) ([]*models.Mesh, error)

// FrameDirection is where an auto-framed camera sits relative to the
// scene center.
var FrameDirection = math3d.V3(0.6, 0.5, 1)

// DefaultFOV is used for auto-framed cameras, in degrees.
const DefaultFOV = 60

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func color(a [3]float64) raytrace.Color {
	return raytrace.Color{R: a[0], G: a[1], B: a[2]}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Transform returns the model-to-world matrix: scale, then rotate, then
// translate.
func (m ModelConfig) Transform() math3d.Mat4 {
	s := vec(m.Scale)
	if s == math3d.Zero3() {
		s = math3d.V3(1, 1, 1)
	}
	r := math3d.V3(radians(m.Rotate[0]), radians(m.Rotate[1]), radians(m.Rotate[2]))
	return math3d.TRS(vec(m.Translate), r, s)
}

// Material returns the shading coefficients. A zero shininess becomes 1.
func (m ModelConfig) Material() raytrace.Material {
	n := m.Shininess
	if n <= 0 {
		n = 1
	}
	return raytrace.Material{Ka: color(m.Ka), Ks: color(m.Ks), Kt: color(m.Kt), Shininess: n}
}

// DisplayName is Name, or the file name without extension.
func (m ModelConfig) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	base := filepath.Base(m.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Pose converts the camera section. FOV is converted to radians; Up
// defaults to +Y and Focal to 1.
func (cam *CameraConfig) Pose() raytrace.Pose {
	p := raytrace.DefaultPose()
	p.Origin = vec(cam.Position)
	p.Front = vec(cam.Front)
	if up := vec(cam.Up); up.LenSq() > 0 {
		p.Up = up
	}
	p.FOV = radians(cam.FOV)
	if cam.Near > 0 {
		p.Near = cam.Near
	}
	if cam.Focal > 0 {
		p.Focal = cam.Focal
	}
	return p
}

// Builder loads every model with load and returns a scene builder holding
// the configured models and lights. Without a [camera] section the pose
// frames the models' world bounds.
func (c *Config) Builder(load LoaderFunc) (*raytrace.Builder, error) {
	b := raytrace.NewBuilder()
	bounds := raytrace.EmptyAABB()

	for i, mc := range c.Models {
		meshes, err := load(c.ResolvePath(mc.Path))
		if err != nil {
			return nil, fmt.Errorf("models[%d]: %w", i, err)
		}
		m, err := raytrace.NewMeshModel(mc.DisplayName(), meshes, mc.Transform(), mc.Material())
		if err != nil {
			return nil, fmt.Errorf("models[%d]: %w", i, err)
		}
		b.AddModel(m)
		bounds = bounds.Union(m.WorldBounds())
	}

	for i, lc := range c.Lights {
		l, err := lc.Light()
		if err != nil {
			return nil, fmt.Errorf("lights[%d]: %w", i, err)
		}
		b.AddLight(l, lc.IsEnabled())
	}

	if c.Camera != nil {
		b.SetPose(c.Camera.Pose())
	} else {
		b.SetPose(raytrace.FramePose(bounds, FrameDirection, radians(DefaultFOV)))
	}
	return b, nil
}

// BuildScene is Builder followed by Build.
func (c *Config) BuildScene(load LoaderFunc) (*raytrace.Scene, error) {
	b, err := c.Builder(load)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}
