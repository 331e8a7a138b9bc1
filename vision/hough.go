package vision

import (
	"encoding/binary"
	"math"

	"github.com/gridlens/gridlens"
)

// Accumulator cell grid. Theta covers [0,π) so every line direction maps
// to exactly one column; rho spans the source diagonal both ways, so
// every line through the source image maps to exactly one row.
const (
	ThetaBins = 360
	RhoBins   = 400
)

// maxVotes is the saturation point of a packed u16 cell.
const maxVotes = 65535

var (
	houghSin [ThetaBins]float64
	houghCos [ThetaBins]float64
)

func init() {
	for t := 0; t < ThetaBins; t++ {
		theta := math.Pi * float64(t) / ThetaBins
		houghSin[t] = math.Sin(theta)
		houghCos[t] = math.Cos(theta)
	}
}

// Accumulator is a Hough vote histogram over line parameter space.
//
// Img is ThetaBins wide by RhoBins high; each cell stores its vote count
// as an unsigned 16-bit value packed little-endian into the first two
// bytes of the 3-byte pixel, which lets the histogram travel through the
// same image plumbing as every other frame. SrcWidth and SrcHeight
// remember the edge-image dimensions the votes came from, so consumers
// can map cells back to source coordinates.
type Accumulator struct {
	Img       *gridlens.Image
	SrcWidth  int
	SrcHeight int
}

// Count returns the vote count of a single cell. Out-of-range bins
// return zero.
func (a *Accumulator) Count(thetaBin, rhoBin int) uint16 {
	if a.Img == nil || a.Img.Empty() {
		return 0
	}
	if thetaBin < 0 || thetaBin >= a.Img.Width() || rhoBin < 0 || rhoBin >= a.Img.Height() {
		return 0
	}
	return binary.LittleEndian.Uint16(a.Img.Data()[(rhoBin*a.Img.Width()+thetaBin)*3:])
}

// MaxCount returns the largest vote count across all cells.
func (a *Accumulator) MaxCount() uint16 {
	if a.Img == nil || a.Img.Empty() {
		return 0
	}
	var max uint16
	pix := a.Img.Data()
	for i := 0; i+1 < len(pix); i += 3 {
		if v := binary.LittleEndian.Uint16(pix[i:]); v > max {
			max = v
		}
	}
	return max
}

// LineAt returns the line a cell votes for, in source-image coordinates:
// theta in radians over [0,π), rho in pixels from the source origin.
// Rho uses the cell center, so a line recovered from a vote maps back to
// the same cell.
func (a *Accumulator) LineAt(thetaBin, rhoBin int) gridlens.Line {
	diagonal := math.Hypot(float64(a.SrcWidth), float64(a.SrcHeight))
	return gridlens.Line{
		Rho:   (float64(rhoBin)+0.5)*(2*diagonal)/RhoBins - diagonal,
		Theta: math.Pi * float64(thetaBin) / ThetaBins,
	}
}

// HoughTransform votes every edge pixel of edges into acc. Each white
// pixel contributes one vote per theta bin, at the rho bin of the line
// x*cos(theta) + y*sin(theta) = rho passing through it. The accumulator
// is cleared and reshaped first; counts saturate instead of wrapping.
// An empty edge image leaves acc unchanged.
func HoughTransform(edges *gridlens.Image, acc *Accumulator) {
	if edges.Empty() {
		return
	}

	if acc.Img == nil {
		acc.Img = gridlens.NewImage(ThetaBins, RhoBins)
	} else {
		acc.Img.Reset(ThetaBins, RhoBins)
	}
	pix := acc.Img.Data()
	clear(pix)
	acc.SrcWidth = edges.Width()
	acc.SrcHeight = edges.Height()

	diagonal := math.Hypot(float64(acc.SrcWidth), float64(acc.SrcHeight))
	src := edges.Data()
	for y := 0; y < acc.SrcHeight; y++ {
		for x := 0; x < acc.SrcWidth; x++ {
			if src[(y*acc.SrcWidth+x)*3] == 0 {
				continue
			}
			for t := 0; t < ThetaBins; t++ {
				rho := float64(x)*houghCos[t] + float64(y)*houghSin[t]
				r := int((rho + diagonal) * RhoBins / (2 * diagonal))
				if r < 0 {
					r = 0
				} else if r >= RhoBins {
					r = RhoBins - 1
				}
				cell := pix[(r*ThetaBins+t)*3:]
				if count := binary.LittleEndian.Uint16(cell); count < maxVotes {
					binary.LittleEndian.PutUint16(cell, count+1)
				}
			}
		}
	}
}
