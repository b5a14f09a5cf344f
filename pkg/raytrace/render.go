package raytrace

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTileGrid is the number of tiles along each image axis.
const DefaultTileGrid = 4

// RenderOptions controls a render pass.
type RenderOptions struct {
	MaxDepth int // recursion limit handed to Trace
	TileGrid int // split the image into up to TileGrid x TileGrid tiles
	Workers  int // concurrent tiles; <= 0 means runtime.NumCPU()

	// Logger receives a debug record per pass. nil disables logging.
	Logger *slog.Logger
}

// DefaultRenderOptions returns depth 3 on a 4x4 grid using every CPU.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		MaxDepth: DefaultMaxDepth,
		TileGrid: DefaultTileGrid,
		Workers:  runtime.NumCPU(),
	}
}

// Tiles partitions a width x height image into at most n x n rectangles.
// Tiles are width/n by height/n; the last column and row absorb the
// remainder. Dimensions smaller than n get one tile per pixel.
func Tiles(width, height, n int) []image.Rectangle {
	if width <= 0 || height <= 0 {
		return nil
	}
	n = max(n, 1)
	cols, rows := min(n, width), min(n, height)
	tw, th := width/cols, height/rows

	tiles := make([]image.Rectangle, 0, cols*rows)
	for r := range rows {
		y1 := (r + 1) * th
		if r == rows-1 {
			y1 = height
		}
		for c := range cols {
			x1 := (c + 1) * tw
			if c == cols-1 {
				x1 = width
			}
			tiles = append(tiles, image.Rect(c*tw, r*th, x1, y1))
		}
	}
	return tiles
}

// PixelRay returns the camera ray for pixel (x, y), sampled at the pixel's
// corner. x is stretched about the center by width/height and y is flipped
// so that row 0 is the top of the image.
func PixelRay(cam Camera, x, y, width, height int) Ray {
	aspect := float64(width) / float64(height)
	xu := float64(x) / float64(width)
	yu := 1 - float64(y)/float64(height)
	return cam.MakeRay((xu-0.5)*aspect+0.5, yu)
}

// Render traces one ray per pixel. Tiles are handed to a fixed pool of
// opts.Workers goroutines; each tile writes only its own pixels, and Render
// returns after every tile has finished. The scene must not be changed
// while Render runs, which *Scene guarantees by having no mutators.
//
// An error is returned only if tracing a tile panics, which indicates a
// malformed model.
func Render(s *Scene, cam Camera, width, height int, opts RenderOptions) (*Image, error) {
	img := NewImage(max(width, 0), max(height, 0))
	tiles := Tiles(width, height, opts.TileGrid)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(workers)
	for i, tile := range tiles {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("render tile %d %v: %v", i, tile, p)
				}
			}()
			renderTile(s, cam, img, tile, opts.MaxDepth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		opts.Logger.Debug("render finished",
			slog.Int("width", width),
			slog.Int("height", height),
			slog.Int("tiles", len(tiles)),
			slog.Int("workers", workers),
			slog.Int("depth", opts.MaxDepth),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
	return img, nil
}

func renderTile(s *Scene, cam Camera, img *Image, tile image.Rectangle, depth int) {
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			img.Set(x, y, Trace(PixelRay(cam, x, y, img.Width, img.Height), s, depth))
		}
	}
}
