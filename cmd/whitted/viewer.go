package main

import (
	"context"
	"fmt"
	"image"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/whitted/pkg/config"
	"github.com/taigrr/whitted/pkg/raytrace"
	"github.com/taigrr/whitted/pkg/render"
)

const (
	orbitStep  = 0.15
	zoomStep   = 1.15
	depthLimit = 8
)

// viewState is the viewer's UI state.
type viewState struct {
	builder  *raytrace.Builder
	scene    *raytrace.Scene
	lightsOn []bool
	opts     raytrace.RenderOptions
	scale    float64
	showGrid bool
	dirty    bool
}

func (v *viewState) toggleLight(i int) {
	if i >= len(v.lightsOn) {
		return
	}
	v.lightsOn[i] = !v.lightsOn[i]
	if err := v.builder.SetLightEnabled(i, v.lightsOn[i]); err != nil {
		return
	}
	v.scene = v.builder.Build()
	v.dirty = true
}

// frame traces the scene at preview resolution and scales it into fb.
func (v *viewState) frame(fb *render.Framebuffer, pose raytrace.Pose) error {
	pw := max(1, int(float64(fb.Width)*v.scale))
	ph := max(1, int(float64(fb.Height)*v.scale))

	img, err := raytrace.Render(v.scene, raytrace.NewPerspectiveCamera(pose), pw, ph, v.opts)
	if err != nil {
		return err
	}
	fb.Clear(render.ColorBackground)
	fb.Blit(render.FromImage(img))

	if v.showGrid {
		sx := float64(fb.Width) / float64(pw)
		sy := float64(fb.Height) / float64(ph)
		for _, t := range raytrace.Tiles(pw, ph, v.opts.TileGrid) {
			r := image.Rect(
				int(float64(t.Min.X)*sx), int(float64(t.Min.Y)*sy),
				int(float64(t.Max.X)*sx), int(float64(t.Max.Y)*sy),
			)
			fb.DrawRectOutline(r, render.ColorGrid)
		}
	}
	return nil
}

func runViewer(ctx context.Context, cfg config.Config, b *raytrace.Builder) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	scene := b.Build()
	v := &viewState{
		builder: b,
		scene:   scene,
		opts:    cfg.RenderOptions(),
		scale:   cfg.Render.PreviewScale,
		dirty:   true,
	}
	for _, l := range scene.Lights() {
		v.lightsOn = append(v.lightsOn, l.Enabled)
	}

	orbit := render.OrbitFromPose(scene.Pose(), *targetFPS)
	fb := render.NewFramebuffer(render.CellSize(width, height))

	ticker := time.NewTicker(time.Second / time.Duration(max(*targetFPS, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(render.CellSize(width, height))
				v.dirty = true

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					return nil
				case ev.MatchString("a", "left"):
					orbit.Rotate(-orbitStep, 0)
				case ev.MatchString("d", "right"):
					orbit.Rotate(orbitStep, 0)
				case ev.MatchString("w", "up"):
					orbit.Rotate(0, orbitStep)
				case ev.MatchString("s", "down"):
					orbit.Rotate(0, -orbitStep)
				case ev.MatchString("+", "="):
					orbit.Zoom(1 / zoomStep)
				case ev.MatchString("-", "_"):
					orbit.Zoom(zoomStep)
				case ev.MatchString("r"):
					orbit.Reset()
					v.dirty = true
				case ev.MatchString("g"):
					v.showGrid = !v.showGrid
					v.dirty = true
				case ev.MatchString("["):
					v.opts.MaxDepth = max(v.opts.MaxDepth-1, 0)
					v.dirty = true
				case ev.MatchString("]"):
					v.opts.MaxDepth = min(v.opts.MaxDepth+1, depthLimit)
					v.dirty = true
				default:
					for i := range min(len(v.lightsOn), 9) {
						if ev.MatchString(fmt.Sprint(i + 1)) {
							v.toggleLight(i)
						}
					}
				}
			}

		case <-ticker.C:
			if orbit.Update() {
				v.dirty = true
			}
			if !v.dirty {
				continue
			}
			v.dirty = false
			if err := v.frame(fb, orbit.Pose()); err != nil {
				return err
			}
			term.Draw(fb)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
