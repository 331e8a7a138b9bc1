package gridlens

import "math"

// ClipLine clips the polar line l against the rectangle
// [0,width] x [0,height] and returns the visible segment, offset by
// (x, y) for compositing elsewhere on screen. ok is false when the line
// does not cross the rectangle.
//
// The line is first canonicalized so rho >= 0 (a negative rho flips
// theta by pi). With the origin top-left and y increasing down, the
// canonical angle then selects which pair of rectangle edges can bound
// the visible segment:
//
//   - theta in (0, pi/2]: the line descends left to right; it enters
//     through the left or bottom edge and leaves through the top or
//     right edge.
//   - theta in [pi/2, pi]: the line ascends; it enters through the left
//     edge and leaves through the bottom or right edge. A left-edge
//     crossing below the rectangle means no intersection.
//   - theta in [3*pi/2, 2*pi): the line crosses the left edge above the
//     rectangle; it enters through the top edge and leaves through the
//     bottom or right edge. A top-edge crossing past the right side
//     means no intersection.
//   - theta in [pi, 3*pi/2): x*cos(theta) + y*sin(theta) is never
//     positive for x, y >= 0, so the line cannot cross the rectangle.
//
// The boundary angles appear in both adjoining ranges so no line is
// dropped at a branch seam.
func ClipLine(l Line, x, y, width, height float64) (p1, p2 Point, ok bool) {
	rho := l.Rho
	theta := l.Theta
	if rho < 0 {
		theta = math.Mod(theta+math.Pi, 2*math.Pi)
		rho = -rho
	}

	sinTheta, cosTheta := math.Sincos(theta)
	if sinTheta == 0 {
		// Vertical line at horizontal offset rho.
		p1 = Pt(x+rho, y)
		p2 = Pt(x+rho, y+height)
		return p1, p2, true
	}

	// Perpendicular foot point and slope-intercept form relative to it.
	xPoint := rho * cosTheta
	yPoint := rho * sinTheta
	m := -cosTheta / sinTheta
	b := -xPoint * m

	// Intersections with the four rectangle edges.
	leftVertical := yPoint + b
	topHorizontal := (-yPoint - b) / m
	rightVertical := yPoint + b + width*m
	bottomHorizontal := (height - yPoint - b) / m

	switch {
	case theta > 0 && theta <= math.Pi/2:
		if leftVertical >= 0 && leftVertical <= height {
			p1 = Pt(0, leftVertical)
		} else {
			p1 = Pt(bottomHorizontal, height)
		}
		if topHorizontal <= width {
			p2 = Pt(topHorizontal, 0)
		} else {
			p2 = Pt(width, rightVertical)
		}
	case theta <= math.Pi:
		if leftVertical > height {
			return Point{}, Point{}, false
		}
		p1 = Pt(0, leftVertical)
		if bottomHorizontal <= width {
			p2 = Pt(bottomHorizontal, height)
		} else {
			p2 = Pt(width, rightVertical)
		}
	case theta >= 3*math.Pi/2:
		if topHorizontal > width {
			return Point{}, Point{}, false
		}
		p1 = Pt(topHorizontal, 0)
		if bottomHorizontal <= width {
			p2 = Pt(bottomHorizontal, height)
		} else {
			p2 = Pt(width, rightVertical)
		}
	default:
		// theta in [pi, 3*pi/2).
		return Point{}, Point{}, false
	}

	return p1.Add(Pt(x, y)), p2.Add(Pt(x, y)), true
}
