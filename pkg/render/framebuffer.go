// Package render turns traced images into displayable pixels: 8-bit
// framebuffers, PNG files and half-block terminal cells.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/whitted/pkg/raytrace"
	"golang.org/x/image/draw"
)

// Framebuffer is a 2D array of 8-bit sRGB pixels. It implements
// draw.Image so it can be the target of scaled blits.
type Framebuffer struct {
	Width  int          // Width in pixels (same as terminal columns)
	Height int          // Height in pixels (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

var _ draw.Image = (*Framebuffer)(nil)

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// ToRGBA converts a linear color to opaque 8-bit sRGB, clamping each
// channel to [0, 1] first.
func ToRGBA(c raytrace.Color) color.RGBA {
	r, g, b := colorful.LinearRgb(c.R, c.G, c.B).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// FromImage converts a traced image into a framebuffer of the same size.
func FromImage(img *raytrace.Image) *Framebuffer {
	fb := NewFramebuffer(img.Width, img.Height)
	for i, c := range img.Pix {
		fb.Pixels[i] = ToRGBA(c)
	}
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }
func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }
func (fb *Framebuffer) At(x, y int) color.Color { return fb.GetPixel(x, y) }

func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// Blit scales src over the whole framebuffer with bilinear filtering.
func (fb *Framebuffer) Blit(src image.Image) {
	if fb.Width == 0 || fb.Height == 0 || src.Bounds().Empty() {
		return
	}
	draw.ApproxBiLinear.Scale(fb, fb.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// DrawRectOutline draws the border of r, clipped to the framebuffer.
func (fb *Framebuffer) DrawRectOutline(r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for px := r.Min.X; px < r.Max.X; px++ {
		fb.SetPixel(px, r.Min.Y, c)
		fb.SetPixel(px, r.Max.Y-1, c)
	}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		fb.SetPixel(r.Min.X, py, c)
		fb.SetPixel(r.Max.X-1, py, c)
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
