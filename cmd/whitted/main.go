// whitted - recursive ray tracer for triangle-mesh scenes.
// Renders OBJ and GLB models with Phong lighting, shadows, reflection and
// transmission, to a PNG file or interactively in the terminal.
//
// With no model arguments and no config file a built-in demo scene is
// rendered.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/taigrr/whitted/pkg/config"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/raytrace"
	"github.com/taigrr/whitted/pkg/render"
)

var (
	configPath   = flag.String("config", "", "TOML render configuration")
	outPath      = flag.String("o", "", "Output PNG path")
	width        = flag.Int("width", 0, "Image width in pixels")
	height       = flag.Int("height", 0, "Image height in pixels")
	maxDepth     = flag.Int("depth", 0, "Recursion depth for reflection and transmission")
	tileGrid     = flag.Int("tiles", 0, "Split the image into an N x N tile grid")
	workers      = flag.Int("workers", 0, "Concurrent tiles (default: number of CPUs)")
	verbose      = flag.Bool("v", false, "Debug logging")
	watch        = flag.Bool("watch", false, "Re-render when the config or a model file changes")
	view         = flag.Bool("view", false, "Interactive terminal viewer")
	previewScale = flag.Float64("preview-scale", 0, "Viewer trace resolution relative to the terminal, in (0, 1]")
	targetFPS    = flag.Int("fps", 30, "Viewer frame rate")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "whitted - recursive ray tracer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: whitted [options] [model.obj|model.glb ...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nViewer controls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  [/]         - Recursion depth\n")
		fmt.Fprintf(os.Stderr, "  1-9         - Toggle light\n")
		fmt.Fprintf(os.Stderr, "  G           - Toggle tile grid\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *view:
		b, err := sceneBuilder(cfg, logger)
		if err != nil {
			return err
		}
		return runViewer(ctx, cfg, b)
	case *watch:
		return watchAndRender(ctx, watchedPaths(cfg), func() error {
			// pick up edits to the config file itself
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return renderOnce(cfg, logger)
		}, logger)
	default:
		return renderOnce(cfg, logger)
	}
}

// loadConfig reads -config if given, adds model arguments and applies the
// flags that were set on the command line.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}

	for _, path := range flag.Args() {
		cfg.Models = append(cfg.Models, argModel(path))
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Render.Output = *outPath
		case "width":
			cfg.Render.Width = *width
		case "height":
			cfg.Render.Height = *height
		case "depth":
			cfg.Render.MaxDepth = *maxDepth
		case "tiles":
			cfg.Render.TileGrid = *tileGrid
		case "workers":
			cfg.Render.Workers = *workers
		case "preview-scale":
			cfg.Render.PreviewScale = *previewScale
		case "v":
			if *verbose {
				cfg.Render.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// argModel is the placement and material for a model named on the command
// line: unplaced, light gray and slightly glossy.
func argModel(path string) config.ModelConfig {
	return config.ModelConfig{
		Path:      path,
		Ka:        [3]float64{0.15, 0.15, 0.15},
		Ks:        [3]float64{0.25, 0.25, 0.25},
		Shininess: 24,
	}
}

// sceneBuilder assembles the configured scene, or the demo scene when no
// models are configured. Configured models without lights get the demo
// lights.
func sceneBuilder(cfg config.Config, logger *slog.Logger) (*raytrace.Builder, error) {
	if len(cfg.Models) == 0 {
		logger.Debug("no models configured, using demo scene")
		return demoScene()
	}
	if len(cfg.Lights) == 0 {
		cfg.Lights = defaultLights()
	}

	b, err := cfg.Builder(func(path string) ([]*models.Mesh, error) {
		meshes, err := models.Load(path)
		if err != nil {
			return nil, err
		}
		tris := 0
		for _, m := range meshes {
			tris += m.TriangleCount()
		}
		fmt.Printf("Loaded: %s (%d meshes, %d triangles)\n", filepath.Base(path), len(meshes), tris)
		return meshes, nil
	})
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	return b, nil
}

func renderOnce(cfg config.Config, logger *slog.Logger) error {
	b, err := sceneBuilder(cfg, logger)
	if err != nil {
		return err
	}
	s := b.Build()

	opts := cfg.RenderOptions()
	opts.Logger = logger

	start := time.Now()
	img, err := raytrace.Render(s, raytrace.NewPerspectiveCamera(s.Pose()), cfg.Render.Width, cfg.Render.Height, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := render.FromImage(img).SavePNG(cfg.Render.Output); err != nil {
		return err
	}

	fmt.Printf("Rendered %s (%dx%d, depth %d) in %v\n",
		cfg.Render.Output, img.Width, img.Height, opts.MaxDepth, time.Since(start).Round(time.Millisecond))
	return nil
}
