package vision

import (
	"math"

	"github.com/anthonynsimon/bild/blur"

	"github.com/gridlens/gridlens"
)

// EdgeDetector finds edges with a Canny-style pipeline: Gaussian blur,
// Sobel gradients, non-maximum suppression along the gradient direction,
// and hysteresis thresholding. Radius is the blur radius in pixels;
// larger values smooth away more texture before the gradient pass.
type EdgeDetector struct {
	Radius float64
}

// Detect writes the edges of src into dst as a binary image: edge pixels
// white, everything else black, replicated across all three channels.
// Thresholds adapt to the frame: gradients above 20% of the strongest one
// are edges, gradients above 10% are kept only next to an edge pixel.
// dst is reshaped to match src. An empty src leaves dst unchanged.
func (e EdgeDetector) Detect(src, dst *gridlens.Image) {
	if src.Empty() {
		return
	}

	width := src.Width()
	height := src.Height()

	blurred := blur.Gaussian(src, e.Radius)
	luma := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := blurred.Pix[y*blurred.Stride:]
		for x := 0; x < width; x++ {
			p := row[x*4:]
			luma[y*width+x] = 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
		}
	}

	magnitude, direction := sobel(luma, width, height)
	suppressed := suppress(magnitude, direction, width, height)

	var max float64
	for _, v := range suppressed {
		if v > max {
			max = v
		}
	}

	dst.Reset(width, height)
	d := dst.Data()
	clear(d)
	if max == 0 {
		return
	}

	high := 0.2 * max
	low := 0.1 * max
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			v := suppressed[i]
			if v < low {
				continue
			}
			if v < high && !nearStrongEdge(suppressed, width, height, x, y, high) {
				continue
			}
			d[i*3] = 255
			d[i*3+1] = 255
			d[i*3+2] = 255
		}
	}
}

// sobel computes per-pixel gradient magnitude and direction using the
// 3x3 Sobel operators. Samples outside the image clamp to the border.
func sobel(luma []float64, width, height int) (magnitude, direction []float64) {
	magnitude = make([]float64, width*height)
	direction = make([]float64, width*height)

	at := func(x, y int) float64 {
		return luma[clampIndex(y, height-1)*width+clampIndex(x, width-1)]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := at(x+1, y-1) - at(x-1, y-1) + 2*(at(x+1, y)-at(x-1, y)) + at(x+1, y+1) - at(x-1, y+1)
			gy := at(x-1, y+1) - at(x-1, y-1) + 2*(at(x, y+1)-at(x, y-1)) + at(x+1, y+1) - at(x+1, y-1)
			i := y*width + x
			magnitude[i] = math.Hypot(gx, gy)
			direction[i] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// suppress thins edges to local maxima along the gradient direction.
// The direction is bucketed into four sectors (horizontal, vertical, and
// the two diagonals) and the pixel survives only when its magnitude is at
// least that of both neighbors across the edge. Border pixels are
// dropped.
func suppress(magnitude, direction []float64, width, height int) []float64 {
	out := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			if angle < 0 {
				angle += math.Pi
			}

			var n1, n2 float64
			switch {
			case angle < math.Pi/8 || angle >= 7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case angle < 3*math.Pi/8:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			case angle < 5*math.Pi/8:
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			}

			if mag := magnitude[i]; mag >= n1 && mag >= n2 {
				out[i] = mag
			}
		}
	}
	return out
}

// nearStrongEdge reports whether any 8-neighbor of (x, y) is at or above
// the strong threshold.
func nearStrongEdge(suppressed []float64, width, height, x, y int, high float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			py := clampIndex(y+ky, height-1)
			px := clampIndex(x+kx, width-1)
			if suppressed[py*width+px] >= high {
				return true
			}
		}
	}
	return false
}

func clampIndex(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
