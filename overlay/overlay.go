// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/render"
	"github.com/gridlens/gridlens/vision"
)

// palette holds the cluster colors, picked for contrast against a live
// camera feed.
var palette = [7][3]uint8{
	{255, 0, 0},
	{128, 0, 255},
	{0, 255, 0},
	{255, 255, 0},
	{0, 255, 255},
	{128, 255, 255},
	{255, 0, 255},
}

// Canvas is the drawing surface the composer renders to.
type Canvas interface {
	DrawImage(x, y, width, height float64, img *gridlens.Image) error
	DrawLine(x1, y1, x2, y2 float64, red, green, blue uint8) error
}

var _ Canvas = (*render.Renderer)(nil)

// Option configures a Composer.
type Option func(*Composer)

// WithHeatPreview switches the accumulator preview from greyscale to a
// blue-to-red heat gradient.
func WithHeatPreview() Option {
	return func(c *Composer) { c.heat = true }
}

// Composer draws debug overlays onto a Canvas. It reuses an internal
// preview buffer across frames and is not safe for concurrent use.
type Composer struct {
	canvas  Canvas
	heat    bool
	lut     [256][3]uint8
	preview gridlens.Image
}

// New creates a Composer drawing to canvas.
func New(canvas Canvas, opts ...Option) *Composer {
	c := &Composer{canvas: canvas}
	for _, opt := range opts {
		opt(c)
	}
	if c.heat {
		c.lut = heatLUT()
	}
	return c
}

// heatLUT blends from blue to red through Luv space, which keeps the
// perceived brightness ramp even where RGB interpolation would dip.
func heatLUT() (lut [256][3]uint8) {
	cold := colorful.Color{R: 0, G: 0, B: 1}
	hot := colorful.Color{R: 1, G: 0, B: 0}
	for i := range lut {
		r, g, b := cold.BlendLuv(hot, float64(i)/255).Clamped().RGB255()
		lut[i] = [3]uint8{r, g, b}
	}
	return lut
}

// DrawLines clips each line against the width x height region placed at
// (x, y) and draws the visible segments in a single color. Lines that
// miss the region are skipped.
func (c *Composer) DrawLines(x, y, width, height float64, lines []gridlens.Line, red, green, blue uint8) error {
	for _, line := range lines {
		p1, p2, ok := gridlens.ClipLine(line, x, y, width, height)
		if !ok {
			continue
		}
		if err := c.canvas.DrawLine(p1.X, p1.Y, p2.X, p2.Y, red, green, blue); err != nil {
			return err
		}
	}
	return nil
}

// DrawClusters draws every line of every cluster, coloring cluster i
// with palette[i mod 7]. Sorting the clusters is the caller's job; the
// assignment is strictly positional.
func (c *Composer) DrawClusters(x, y, width, height float64, clusters []gridlens.LineCluster) error {
	for i, cluster := range clusters {
		color := palette[i%len(palette)]
		if err := c.DrawLines(x, y, width, height, cluster, color[0], color[1], color[2]); err != nil {
			return err
		}
	}
	return nil
}

// DrawAccumulator composites the accumulator preview into the
// bottom-right corner of a boxWidth x boxHeight region, scaled by scale.
// An unfilled accumulator draws nothing.
func (c *Composer) DrawAccumulator(boxWidth, boxHeight float64, acc *vision.Accumulator, scale float64) error {
	if acc == nil || acc.Img == nil || acc.Img.Empty() {
		return nil
	}

	RescaleAccumulator(acc, &c.preview)
	if c.heat {
		c.applyHeat()
	}

	width := float64(c.preview.Width()) * scale
	height := float64(c.preview.Height()) * scale
	return c.canvas.DrawImage(boxWidth-width, boxHeight-height, width, height, &c.preview)
}

// applyHeat maps the greyscale preview through the heat gradient in
// place.
func (c *Composer) applyHeat() {
	pix := c.preview.Data()
	for i := 0; i < len(pix); i += 3 {
		entry := c.lut[pix[i]]
		pix[i] = entry[0]
		pix[i+1] = entry[1]
		pix[i+2] = entry[2]
	}
}

// RescaleAccumulator flattens a Hough accumulator into a displayable
// greyscale image: a cell counting n votes maps to round(n*255/max)
// replicated into all three channels, where max is the largest count.
// An accumulator with no votes comes out all black.
func RescaleAccumulator(acc *vision.Accumulator, dst *gridlens.Image) {
	if acc == nil || acc.Img == nil || acc.Img.Empty() {
		return
	}

	dst.Reset(acc.Img.Width(), acc.Img.Height())
	d := dst.Data()
	max := acc.MaxCount()
	if max == 0 {
		clear(d)
		return
	}

	pix := acc.Img.Data()
	for i := 0; i+1 < len(pix); i += 3 {
		count := binary.LittleEndian.Uint16(pix[i:])
		v := uint8(math.Round(float64(count) * 255 / float64(max)))
		d[i] = v
		d[i+1] = v
		d[i+2] = v
	}
}
