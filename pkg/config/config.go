// Package config reads whitted render configurations from TOML and turns
// them into scenes.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/whitted/pkg/raytrace"
)

var (
	// ErrUnknownLight is returned for a [[lights]] entry whose type is not
	// "point" or "parallel".
	ErrUnknownLight = errors.New("unknown light type")

	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("invalid config")
)

// Config is a complete render description.
type Config struct {
	Render RenderConfig `toml:"render"`

	// Camera is optional; without it the camera is framed around the
	// models.
	Camera *CameraConfig `toml:"camera"`

	Lights []LightConfig `toml:"lights"`
	Models []ModelConfig `toml:"models"`

	// dir is the directory of the file the config came from. Relative
	// model paths resolve against it.
	dir string
}

type RenderConfig struct {
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	MaxDepth     int     `toml:"max_depth"`
	TileGrid     int     `toml:"tile_grid"`
	Workers      int     `toml:"workers"`
	Output       string  `toml:"output"`
	PreviewScale float64 `toml:"preview_scale"`
	LogLevel     string  `toml:"log_level"`
}

// CameraConfig places the camera. FOV is the vertical field of view in
// degrees.
type CameraConfig struct {
	Position [3]float64 `toml:"position"`
	Front    [3]float64 `toml:"front"`
	Up       [3]float64 `toml:"up"`
	FOV      float64    `toml:"fov"`
	Near     float64    `toml:"near"`
	Focal    float64    `toml:"focal"`
}

type LightConfig struct {
	Type      string     `toml:"type"`
	Position  [3]float64 `toml:"position"`
	Direction [3]float64 `toml:"direction"`
	Color     [3]float64 `toml:"color"`

	// Enabled defaults to true when omitted.
	Enabled *bool `toml:"enabled"`
}

// ModelConfig loads one asset and places it. Rotate is in degrees about X,
// then Y, then Z. An all-zero Scale means unit scale.
type ModelConfig struct {
	Name      string     `toml:"name"`
	Path      string     `toml:"path"`
	Translate [3]float64 `toml:"translate"`
	Rotate    [3]float64 `toml:"rotate"`
	Scale     [3]float64 `toml:"scale"`
	Ka        [3]float64 `toml:"ka"`
	Ks        [3]float64 `toml:"ks"`
	Kt        [3]float64 `toml:"kt"`
	Shininess float64    `toml:"shininess"`
}

// Default returns a 640x480 depth 3 render on a 4x4 tile grid with no
// scene contents.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Width:        640,
			Height:       480,
			MaxDepth:     raytrace.DefaultMaxDepth,
			TileGrid:     raytrace.DefaultTileGrid,
			Output:       "whitted.png",
			PreviewScale: 0.5,
			LogLevel:     "info",
		},
	}
}

// Load reads a config file on top of Default and validates it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Decode reads TOML from r on top of Default and validates it. Unknown
// keys are rejected.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first problem found.
func (c *Config) Validate() error {
	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalid, r.Width, r.Height)
	}
	if r.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth %d", ErrInvalid, r.MaxDepth)
	}
	if r.TileGrid <= 0 {
		return fmt.Errorf("%w: tile_grid %d", ErrInvalid, r.TileGrid)
	}
	if r.PreviewScale <= 0 || r.PreviewScale > 1 {
		return fmt.Errorf("%w: preview_scale %g not in (0, 1]", ErrInvalid, r.PreviewScale)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if cam := c.Camera; cam != nil {
		if cam.FOV <= 0 || cam.FOV >= 180 {
			return fmt.Errorf("%w: camera fov %g not in (0, 180)", ErrInvalid, cam.FOV)
		}
		if vec(cam.Front).LenSq() == 0 {
			return fmt.Errorf("%w: camera front is zero", ErrInvalid)
		}
		if !vec(cam.Position).IsFinite() || !vec(cam.Front).IsFinite() {
			return fmt.Errorf("%w: camera position or front is not finite", ErrInvalid)
		}
	}
	for i, l := range c.Lights {
		if _, err := l.Light(); err != nil {
			return fmt.Errorf("lights[%d]: %w", i, err)
		}
	}
	for i, m := range c.Models {
		if m.Path == "" {
			return fmt.Errorf("%w: models[%d] has no path", ErrInvalid, i)
		}
		for _, v := range [...][3]float64{m.Translate, m.Rotate, m.Scale} {
			if !vec(v).IsFinite() {
				return fmt.Errorf("%w: models[%d] placement %v is not finite", ErrInvalid, i, v)
			}
		}
	}
	return nil
}

// Level parses log_level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Render.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.Render.LogLevel)
	}
	return lvl, nil
}

// RenderOptions returns the scheduler settings.
func (c *Config) RenderOptions() raytrace.RenderOptions {
	opts := raytrace.DefaultRenderOptions()
	opts.MaxDepth = c.Render.MaxDepth
	opts.TileGrid = c.Render.TileGrid
	if c.Render.Workers > 0 {
		opts.Workers = c.Render.Workers
	}
	return opts
}

// ResolvePath returns p relative to the config file's directory unless it
// is absolute.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Light converts the entry to a raytrace light.
func (l LightConfig) Light() (raytrace.Light, error) {
	c := color(l.Color)
	switch strings.ToLower(l.Type) {
	case "point":
		return raytrace.PointLight{Position: vec(l.Position), Color: c}, nil
	case "parallel", "directional":
		if vec(l.Direction).LenSq() == 0 {
			return nil, fmt.Errorf("%w: parallel light without direction", ErrInvalid)
		}
		return raytrace.NewParallelLight(vec(l.Direction), c), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLight, l.Type)
	}
}

// IsEnabled reports whether the light starts switched on.
func (l LightConfig) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}
