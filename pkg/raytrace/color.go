// Package raytrace implements a Whitted-style recursive ray tracer over
// triangle-mesh models: ray generation, bounding-box accelerated mesh
// intersection, Phong lighting with shadow rays, recursive reflection and
// transmission, and a tile-parallel render loop.
package raytrace

// Color is a linear RGB triple. Values are not clamped until Clamp is
// called.
type Color struct {
	R, G, B float64
}

// Black is the background and depth-exhausted color.
var Black = Color{}

// Gray returns a color with all channels set to v.
func Gray(v float64) Color {
	return Color{v, v, v}
}

// Add returns c + o.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the channel-wise product c * o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale returns c * s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// IsBlack reports whether every channel is exactly zero.
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Clamp bounds each channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
