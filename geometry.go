package gridlens

import "math"

// Point is a 2D point in pixel coordinates.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Line is a line in Hesse normal form: every point (x, y) on it
// satisfies x*cos(Theta) + y*sin(Theta) = Rho. Rho may be negative; the
// clipper canonicalizes before use.
type Line struct {
	Rho   float64
	Theta float64
}

// LineCluster groups lines believed to describe one physical grid line.
type LineCluster []Line

// MeanTheta returns the arithmetic mean of the cluster's angles. It is
// used only to order clusters for display; an empty cluster yields 0.
func (c LineCluster) MeanTheta() float64 {
	if len(c) == 0 {
		return 0
	}
	sum := 0.0
	for _, l := range c {
		sum += l.Theta
	}
	return sum / float64(len(c))
}

// FitRect returns the placement of an imgWidth x imgHeight image inside
// a regionWidth x regionHeight region, scaled uniformly so the image
// touches two opposite region edges and centered along the other axis.
// Images smaller than the region are scaled up.
func FitRect(regionWidth, regionHeight, imgWidth, imgHeight float64) (x, y, width, height float64) {
	horizontalRatio := imgWidth / regionWidth
	verticalRatio := imgHeight / regionHeight
	scale := 1.0 / math.Max(horizontalRatio, verticalRatio)

	width = imgWidth * scale
	height = imgHeight * scale
	x = (regionWidth - width) / 2
	y = (regionHeight - height) / 2
	return x, y, width, height
}
