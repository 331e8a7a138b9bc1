// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package softdriver

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gridlens/gridlens/driver"
)

// surfaceBuf is a top-down RGB8 pixel buffer. It implements image.Image
// and draw.Image so the x/image scalers can read and write it directly.
type surfaceBuf struct {
	width  int
	height int
	pix    []uint8
}

func newSurfaceBuf(width, height int) *surfaceBuf {
	return &surfaceBuf{width: width, height: height, pix: make([]uint8, width*height*3)}
}

func (b *surfaceBuf) ColorModel() color.Model { return color.RGBAModel }

func (b *surfaceBuf) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *surfaceBuf) At(x, y int) color.Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := (y*b.width + x) * 3
	return color.RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: 255}
}

func (b *surfaceBuf) Set(x, y int, c color.Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	r, g, bl, _ := c.RGBA()
	i := (y*b.width + x) * 3
	b.pix[i] = uint8(r >> 8)
	b.pix[i+1] = uint8(g >> 8)
	b.pix[i+2] = uint8(bl >> 8)
}

func (b *surfaceBuf) setRGB(x, y int, r, g, bl uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 3
	b.pix[i] = r
	b.pix[i+1] = g
	b.pix[i+2] = bl
}

// vertex is a mesh vertex mapped into pixel space.
type vertex struct {
	x, y float64 // pixel coordinates within the viewport
	u, v float64 // texture coordinates (image pipeline)
	r    float64 // color (line pipeline)
	g    float64
	b    float64
}

// toPixel maps normalized device coordinates onto a viewport, top-left
// origin. NDC y = +1 is the top row, matching GL's window-space flip.
func toPixel(ndcX, ndcY float64, vpW, vpH int) (float64, float64) {
	return (ndcX + 1) / 2 * float64(vpW), (1 - ndcY) / 2 * float64(vpH)
}

// drawImageMesh rasterizes the textured-triangle pipeline.
func (d *Device) drawImageMesh(dst *surfaceBuf, tex *texture, m *mesh, op driver.DrawOp) error {
	if op.Primitive != driver.Triangles {
		return d.fail(fmt.Errorf("%w: image pipeline draws triangles", ErrInvalidDraw))
	}
	pos, ok := m.findAttrib(0)
	if !ok || pos.Size < 2 {
		return d.fail(fmt.Errorf("%w: missing position attribute", ErrInvalidDraw))
	}
	uv, ok := m.findAttrib(1)
	if !ok || uv.Size < 2 {
		return d.fail(fmt.Errorf("%w: missing texcoord attribute", ErrInvalidDraw))
	}

	verts := make([]vertex, len(m.spec.Vertices)/m.spec.Stride)
	for i := range verts {
		x, y := toPixel(m.attrib(pos, i, 0), m.attrib(pos, i, 1), op.ViewportW, op.ViewportH)
		verts[i] = vertex{
			x: x,
			y: y,
			u: m.attrib(uv, i, 0),
			v: m.attrib(uv, i, 1),
		}
	}

	if rect, ok := alignedQuad(verts, m.spec.Indices); ok {
		blitQuad(dst, tex, rect)
		return nil
	}

	for i := 0; i+2 < len(m.spec.Indices); i += 3 {
		fillTriangle(dst, tex,
			verts[m.spec.Indices[i]],
			verts[m.spec.Indices[i+1]],
			verts[m.spec.Indices[i+2]])
	}
	return nil
}

// alignedQuad detects the axis-aligned full-texture quad emitted for
// plain image draws: four vertices, two triangles, corner UVs. These
// take the scaler fast path instead of per-pixel triangle sampling.
func alignedQuad(verts []vertex, indices []uint32) (image.Rectangle, bool) {
	if len(verts) != 4 || len(indices) != 6 {
		return image.Rectangle{}, false
	}
	quad := [6]uint32{0, 1, 2, 2, 3, 0}
	for i, idx := range indices {
		if idx != quad[i] {
			return image.Rectangle{}, false
		}
	}
	v := verts
	cornerUVs := v[0].u == 0 && v[0].v == 0 && v[1].u == 1 && v[1].v == 0 &&
		v[2].u == 1 && v[2].v == 1 && v[3].u == 0 && v[3].v == 1
	axisAligned := v[0].y == v[1].y && v[2].y == v[3].y && v[0].x == v[3].x && v[1].x == v[2].x
	if !cornerUVs || !axisAligned || v[0].x >= v[2].x || v[0].y >= v[2].y {
		return image.Rectangle{}, false
	}
	return image.Rect(
		int(math.Round(v[0].x)), int(math.Round(v[0].y)),
		int(math.Round(v[2].x)), int(math.Round(v[2].y)),
	), true
}

// blitQuad scales the whole texture into rect using the x/image scalers.
func blitQuad(dst *surfaceBuf, tex *texture, rect image.Rectangle) {
	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if tex.filter == driver.FilterLinear {
		scaler = xdraw.BiLinear
	}
	scaler.Scale(dst, rect, tex.buf, tex.buf.Bounds(), xdraw.Src, nil)
}

// fillTriangle rasterizes one textured triangle with the top-left fill
// rule, sampling at pixel centers. Vertices are reordered so the edge
// functions are positive inside, which keeps the rule independent of the
// mesh winding.
func fillTriangle(dst *surfaceBuf, tex *texture, v0, v1, v2 vertex) {
	area := edgeFunc(v0, v1, v2.x, v2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := int(math.Floor(min3(v0.x, v1.x, v2.x)))
	maxX := int(math.Ceil(max3(v0.x, v1.x, v2.x)))
	minY := int(math.Floor(min3(v0.y, v1.y, v2.y)))
	maxY := int(math.Ceil(max3(v0.y, v1.y, v2.y)))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, dst.width-1)
	maxY = min(maxY, dst.height-1)

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			cy := float64(py) + 0.5

			e0 := edgeFunc(v1, v2, cx, cy)
			e1 := edgeFunc(v2, v0, cx, cy)
			e2 := edgeFunc(v0, v1, cx, cy)
			if !covered(e0, v1, v2) || !covered(e1, v2, v0) || !covered(e2, v0, v1) {
				continue
			}

			l0 := e0 / area
			l1 := e1 / area
			l2 := e2 / area
			u := l0*v0.u + l1*v1.u + l2*v2.u
			v := l0*v0.v + l1*v1.v + l2*v2.v

			var r, g, b uint8
			if tex.filter == driver.FilterLinear {
				r, g, b = sampleBilinear(tex.buf, u, v)
			} else {
				r, g, b = sampleNearest(tex.buf, u, v)
			}
			dst.setRGB(px, py, r, g, b)
		}
	}
}

// edgeFunc is the signed parallelogram area of (b-a) x (p-a).
func edgeFunc(a, b vertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// covered applies the top-left rule: points strictly inside an edge pass;
// points exactly on it pass only for top and left edges, so pixels on a
// seam between adjacent triangles are filled exactly once.
func covered(e float64, a, b vertex) bool {
	if e > 0 {
		return true
	}
	if e < 0 {
		return false
	}
	if a.y == b.y {
		return b.x > a.x // top edge
	}
	return b.y < a.y // left edge
}

// drawLineMesh rasterizes the flat-color line pipeline.
func (d *Device) drawLineMesh(dst *surfaceBuf, m *mesh, op driver.DrawOp) error {
	if op.Primitive != driver.Lines {
		return d.fail(fmt.Errorf("%w: line pipeline draws lines", ErrInvalidDraw))
	}
	pos, ok := m.findAttrib(0)
	if !ok || pos.Size < 2 {
		return d.fail(fmt.Errorf("%w: missing position attribute", ErrInvalidDraw))
	}
	col, ok := m.findAttrib(1)
	if !ok || col.Size < 3 {
		return d.fail(fmt.Errorf("%w: missing color attribute", ErrInvalidDraw))
	}

	for i := 0; i+1 < len(m.spec.Indices); i += 2 {
		a := int(m.spec.Indices[i])
		b := int(m.spec.Indices[i+1])
		ax, ay := toPixel(m.attrib(pos, a, 0), m.attrib(pos, a, 1), op.ViewportW, op.ViewportH)
		bx, by := toPixel(m.attrib(pos, b, 0), m.attrib(pos, b, 1), op.ViewportW, op.ViewportH)
		va := vertex{x: ax, y: ay, r: m.attrib(col, a, 0), g: m.attrib(col, a, 1), b: m.attrib(col, a, 2)}
		vb := vertex{x: bx, y: by, r: m.attrib(col, b, 0), g: m.attrib(col, b, 1), b: m.attrib(col, b, 2)}
		strokeLine(dst, va, vb)
	}
	return nil
}

// strokeLine steps along the segment one pixel at a time, interpolating
// the vertex colors.
func strokeLine(dst *surfaceBuf, a, b vertex) {
	dx := b.x - a.x
	dy := b.y - a.y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		dst.setRGB(int(math.Floor(a.x)), int(math.Floor(a.y)), colorByte(a.r), colorByte(a.g), colorByte(a.b))
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.x + t*dx
		y := a.y + t*dy
		r := a.r + t*(b.r-a.r)
		g := a.g + t*(b.g-a.g)
		bl := a.b + t*(b.b-a.b)
		dst.setRGB(int(math.Floor(x)), int(math.Floor(y)), colorByte(r), colorByte(g), colorByte(bl))
	}
}

// colorByte converts a [0,1] channel to a byte.
func colorByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
