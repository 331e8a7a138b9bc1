package gridlens

import (
	"image"
	"image/color"
)

// Image is a rectangular 8-bit RGB pixel buffer: 3 bytes per pixel in
// R, G, B order, rows top to bottom with no padding.
//
// An Image with an empty buffer means "no data yet". Every consumer in
// this repository treats an empty Image as a silent no-op, never as an
// error; a frame that has not been captured or a patch that has not been
// extracted simply does not draw.
type Image struct {
	width  int
	height int
	data   []uint8 // RGB format, 3 bytes per pixel
}

// NewImage creates an image with the given dimensions, all pixels black.
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*3),
	}
}

// ImageFromRaw wraps an existing RGB8 buffer without copying.
// The buffer length must be width*height*3; the caller keeps ownership
// and any later writes are visible through the Image.
func ImageFromRaw(data []uint8, width, height int) *Image {
	return &Image{width: width, height: height, data: data}
}

// Width returns the width of the image in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the height of the image in pixels.
func (m *Image) Height() int {
	return m.height
}

// Data returns the raw pixel data (RGB format). Empty when the image
// holds no data yet.
func (m *Image) Data() []uint8 {
	return m.data
}

// Empty reports whether the image holds no pixel data.
func (m *Image) Empty() bool {
	return len(m.data) == 0
}

// Reset reshapes the image to width x height, reusing the existing
// allocation when it is large enough. The pixel contents after Reset are
// unspecified; callers are expected to overwrite every pixel.
func (m *Image) Reset(width, height int) {
	n := width * height * 3
	if cap(m.data) < n {
		m.data = make([]uint8, n)
	} else {
		m.data = m.data[:n]
	}
	m.width = width
	m.height = height
}

// RGBAt returns the color of a single pixel. Out-of-range coordinates
// return black.
func (m *Image) RGBAt(x, y int) (r, g, b uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height || m.Empty() {
		return 0, 0, 0
	}
	i := (y*m.width + x) * 3
	return m.data[i], m.data[i+1], m.data[i+2]
}

// SetRGB sets the color of a single pixel. Out-of-range coordinates are
// ignored.
func (m *Image) SetRGB(x, y int, r, g, b uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height || m.Empty() {
		return
	}
	i := (y*m.width + x) * 3
	m.data[i] = r
	m.data[i+1] = g
	m.data[i+2] = b
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At implements image.Image. Pixels are fully opaque.
func (m *Image) At(x, y int) color.Color {
	r, g, b := m.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var _ image.Image = (*Image)(nil)

// FromImage copies an image.Image into a new RGB8 Image, discarding any
// alpha channel.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	m := NewImage(width, height)

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			m.data[i] = uint8(r >> 8)
			m.data[i+1] = uint8(g >> 8)
			m.data[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return m
}
