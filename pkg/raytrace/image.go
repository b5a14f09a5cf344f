package raytrace

// Image is a row-major buffer of linear colors. Row 0 is the top of the
// picture (screen y = 1).
type Image struct {
	Width  int
	Height int
	Pix    []Color
}

// NewImage allocates a black width x height image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
	}
}

// At returns the color at column x, row y.
func (img *Image) At(x, y int) Color {
	return img.Pix[y*img.Width+x]
}

// Set stores the color at column x, row y.
func (img *Image) Set(x, y int, c Color) {
	img.Pix[y*img.Width+x] = c
}
