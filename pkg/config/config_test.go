package config

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/raytrace"
)

const sample = `
[render]
width = 320
height = 200
max_depth = 5
workers = 2
log_level = "debug"

[camera]
position = [0.0, 2.0, 6.0]
front = [0.0, -0.3, -1.0]
fov = 45.0

[[lights]]
type = "point"
position = [3.0, 5.0, 2.0]
color = [1.0, 0.9, 0.8]

[[lights]]
type = "parallel"
direction = [0.0, 1.0, 0.0]
color = [0.2, 0.2, 0.2]
enabled = false

[[models]]
path = "cube.obj"
translate = [0.0, 1.0, 0.0]
rotate = [0.0, 90.0, 0.0]
ka = [0.3, 0.1, 0.1]
ks = [0.2, 0.2, 0.2]
shininess = 32.0
`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	if c.Render.Width != 320 || c.Render.Height != 200 || c.Render.MaxDepth != 5 {
		t.Errorf("render = %+v", c.Render)
	}
	// untouched keys keep their defaults
	if c.Render.TileGrid != raytrace.DefaultTileGrid || c.Render.Output != "whitted.png" {
		t.Errorf("defaults lost: %+v", c.Render)
	}
	if lvl, _ := c.Level(); lvl != slog.LevelDebug {
		t.Errorf("level = %v, want debug", lvl)
	}

	opts := c.RenderOptions()
	if opts.Workers != 2 || opts.MaxDepth != 5 || opts.TileGrid != raytrace.DefaultTileGrid {
		t.Errorf("RenderOptions = %+v", opts)
	}

	if len(c.Lights) != 2 || !c.Lights[0].IsEnabled() || c.Lights[1].IsEnabled() {
		t.Errorf("lights = %+v", c.Lights)
	}
	if got := c.Models[0].DisplayName(); got != "cube" {
		t.Errorf("DisplayName = %q, want cube", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		wantErr error
	}{
		{"zero width", "[render]\nwidth = 0", ErrInvalid},
		{"negative depth", "[render]\nmax_depth = -1", ErrInvalid},
		{"zero tile grid", "[render]\ntile_grid = 0", ErrInvalid},
		{"preview scale", "[render]\npreview_scale = 2.0", ErrInvalid},
		{"log level", "[render]\nlog_level = \"loud\"", ErrInvalid},
		{"camera fov", "[camera]\nfront = [0.0, 0.0, -1.0]\nfov = 0.0", ErrInvalid},
		{"camera front", "[camera]\nfov = 60.0", ErrInvalid},
		{"unknown light", "[[lights]]\ntype = \"spot\"", ErrUnknownLight},
		{"parallel without direction", "[[lights]]\ntype = \"parallel\"", ErrInvalid},
		{"model without path", "[[models]]\nname = \"x\"", ErrInvalid},
		{"camera at infinity", "[camera]\nposition = [inf, 0.0, 0.0]\nfront = [0.0, 0.0, -1.0]\nfov = 60.0", ErrInvalid},
		{"nan model scale", "[[models]]\npath = \"a.obj\"\nscale = [nan, 1.0, 1.0]", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.toml))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := Decode(strings.NewReader("[render]\nwidht = 10")); err == nil {
		t.Error("expected an error for a misspelled key")
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.ResolvePath("cube.obj"); got != filepath.Join(dir, "cube.obj") {
		t.Errorf("ResolvePath = %q", got)
	}
	abs := filepath.Join(dir, "elsewhere", "m.glb")
	if got := c.ResolvePath(abs); got != abs {
		t.Errorf("absolute path rewritten to %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestModelTransform(t *testing.T) {
	m := ModelConfig{Translate: [3]float64{0, 1, 0}, Rotate: [3]float64{0, 90, 0}}
	// +X rotated 90 degrees about Y lands on -Z
	got := m.Transform().MulPoint(math3d.V3(1, 0, 0))
	want := math3d.V3(0, 1, -1)
	if got.Distance(want) > 1e-9 {
		t.Errorf("Transform(+X) = %v, want %v", got, want)
	}

	m.Scale = [3]float64{2, 2, 2}
	got = m.Transform().MulPoint(math3d.V3(1, 0, 0))
	if got.Distance(math3d.V3(0, 1, -2)) > 1e-9 {
		t.Errorf("scaled Transform(+X) = %v", got)
	}

	if mat := (ModelConfig{}).Material(); mat.Shininess != 1 {
		t.Errorf("default shininess = %f, want 1", mat.Shininess)
	}
}

func cubeLoader(paths *[]string) LoaderFunc {
	return func(path string) ([]*models.Mesh, error) {
		*paths = append(*paths, path)
		return []*models.Mesh{models.NewCube("cube", 1)}, nil
	}
}

func TestBuildScene(t *testing.T) {
	c, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	var loaded []string
	s, err := c.BuildScene(cubeLoader(&loaded))
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded) != 1 || loaded[0] != "cube.obj" {
		t.Errorf("loaded %v", loaded)
	}
	if ms := s.Models(); len(ms) != 1 || ms[0].Name() != "cube" {
		t.Fatalf("models = %v", ms)
	}
	if mat := s.Models()[0].Material(); mat.Shininess != 32 || mat.Ka.R != 0.3 {
		t.Errorf("material = %+v", mat)
	}

	ls := s.Lights()
	if len(ls) != 2 {
		t.Fatalf("got %d lights", len(ls))
	}
	if _, ok := ls[0].Light.(raytrace.PointLight); !ok || !ls[0].Enabled {
		t.Errorf("light 0 = %+v", ls[0])
	}
	if pl, ok := ls[1].Light.(raytrace.ParallelLight); !ok || ls[1].Enabled || pl.Direction() != math3d.Up() {
		t.Errorf("light 1 = %+v", ls[1])
	}

	p := s.Pose()
	if p.Origin != math3d.V3(0, 2, 6) || math.Abs(p.FOV-math.Pi/4) > 1e-12 {
		t.Errorf("pose = %+v", p)
	}
}

func TestBuildSceneFramesWithoutCamera(t *testing.T) {
	c := Default()
	c.Models = []ModelConfig{{Path: "a.obj", Translate: [3]float64{10, 0, 0}}}
	var loaded []string
	s, err := c.BuildScene(cubeLoader(&loaded))
	if err != nil {
		t.Fatal(err)
	}
	p := s.Pose()
	center := math3d.V3(10, 0, 0)
	if !p.Front.ApproxEqual(center.Sub(p.Origin).Normalize()) {
		t.Errorf("auto-framed camera does not look at the model: %+v", p)
	}
}

func TestBuildSceneErrors(t *testing.T) {
	c := Default()
	c.Models = []ModelConfig{{Path: "a.obj"}}
	boom := errors.New("boom")
	_, err := c.BuildScene(func(string) ([]*models.Mesh, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want loader error", err)
	}

	c.Models[0].Scale = [3]float64{1, 0, 1}
	var loaded []string
	_, err = c.BuildScene(cubeLoader(&loaded))
	if !errors.Is(err, raytrace.ErrSingularTransform) {
		t.Errorf("err = %v, want ErrSingularTransform", err)
	}
}
