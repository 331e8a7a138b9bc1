// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"fmt"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/driver"
)

//go:embed shaders/image.vert
var imageVertSrc string

//go:embed shaders/image.frag
var imageFragSrc string

//go:embed shaders/line.vert
var lineVertSrc string

//go:embed shaders/line.frag
var lineFragSrc string

// samplerName is the texture uniform declared by the image fragment
// shader.
const samplerName = "inputTexture"

// controlPoints is the number of mesh control points ExtractImage
// expects, a 4x4 grid.
const controlPoints = 16

var (
	imageAttribs = []driver.VertexAttrib{
		{Index: 0, Size: 3, Offset: 0},
		{Index: 1, Size: 2, Offset: 3},
	}
	lineAttribs = []driver.VertexAttrib{
		{Index: 0, Size: 3, Offset: 0},
		{Index: 1, Size: 3, Offset: 3},
	}

	quadIndices = []uint32{0, 1, 2, 2, 3, 0}
	lineIndices = []uint32{0, 1}

	// extractIndices triangulates the 4x4 control grid: two triangles
	// per cell, consistent winding, 18 triangles total.
	extractIndices = []uint32{
		0, 1, 5, 0, 5, 4,
		1, 2, 6, 1, 6, 5,
		2, 3, 7, 2, 7, 6,
		4, 5, 9, 4, 9, 8,
		5, 6, 10, 5, 10, 9,
		6, 7, 11, 6, 11, 10,
		8, 9, 13, 8, 13, 12,
		9, 10, 14, 9, 14, 13,
		10, 11, 15, 10, 15, 14,
	}
)

// Renderer draws images, lines and extracted patches through a graphics
// device. It owns the two compiled programs; every other GPU resource
// is transient per call.
//
// Renderer is not safe for concurrent use. All methods must run on the
// thread that owns the device context.
type Renderer struct {
	dev    driver.Device
	width  int
	height int

	imageProg driver.Program
	lineProg  driver.Program
}

// New compiles the image and line programs on dev. The window size
// fixes the pixel-to-NDC mapping for on-screen draws. Compile or link
// failures are returned as errors; callers treat them as fatal.
func New(dev driver.Device, width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid window size %dx%d", width, height)
	}

	imageProg, err := dev.NewProgram(driver.ProgramSpec{
		Name:     driver.ProgramImage,
		Vertex:   imageVertSrc,
		Fragment: imageFragSrc,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	lineProg, err := dev.NewProgram(driver.ProgramSpec{
		Name:     driver.ProgramLine,
		Vertex:   lineVertSrc,
		Fragment: lineFragSrc,
	})
	if err != nil {
		imageProg.Release()
		return nil, fmt.Errorf("render: %w", err)
	}

	return &Renderer{
		dev:       dev,
		width:     width,
		height:    height,
		imageProg: imageProg,
		lineProg:  lineProg,
	}, nil
}

// Release frees the compiled programs. The renderer must not be used
// afterwards.
func (r *Renderer) Release() {
	r.lineProg.Release()
	r.imageProg.Release()
}

func (r *Renderer) ndcX(px float64) float32 {
	return float32(2*px/float64(r.width) - 1)
}

func (r *Renderer) ndcY(py float64) float32 {
	return float32(1 - 2*py/float64(r.height))
}

// DrawImage draws img into the pixel-space rectangle [x, x+width) x
// [y, y+height) on the window, scaling with nearest-neighbor sampling.
// An empty image is a no-op.
//
// The image is uploaded as a new texture on every call.
func (r *Renderer) DrawImage(x, y, width, height float64, img *gridlens.Image) error {
	if img.Empty() {
		return nil
	}

	tex, err := r.dev.NewTexture(driver.TextureSpec{
		Width:  img.Width(),
		Height: img.Height(),
		Pix:    img.Data(),
		Filter: driver.FilterNearest,
	})
	if err != nil {
		return fmt.Errorf("render: draw image: %w", err)
	}
	defer tex.Release()

	x1, y1 := r.ndcX(x), r.ndcY(y)
	x2, y2 := r.ndcX(x+width), r.ndcY(y+height)
	mesh, err := r.dev.NewMesh(driver.MeshSpec{
		Vertices: []float32{
			x1, y1, 0, 0, 0,
			x2, y1, 0, 1, 0,
			x2, y2, 0, 1, 1,
			x1, y2, 0, 0, 1,
		},
		Stride:  5,
		Attribs: imageAttribs,
		Indices: quadIndices,
	})
	if err != nil {
		return fmt.Errorf("render: draw image: %w", err)
	}
	defer mesh.Release()

	return r.dev.Draw(driver.DrawOp{
		Program:   r.imageProg,
		Mesh:      mesh,
		Texture:   tex,
		Sampler:   samplerName,
		Primitive: driver.Triangles,
		ViewportW: r.width,
		ViewportH: r.height,
	})
}

// DrawLine draws a solid-color segment between two pixel-space points
// on the window.
func (r *Renderer) DrawLine(x1, y1, x2, y2 float64, red, green, blue uint8) error {
	cr := float32(red) / 255
	cg := float32(green) / 255
	cb := float32(blue) / 255

	mesh, err := r.dev.NewMesh(driver.MeshSpec{
		Vertices: []float32{
			r.ndcX(x1), r.ndcY(y1), 0, cr, cg, cb,
			r.ndcX(x2), r.ndcY(y2), 0, cr, cg, cb,
		},
		Stride:  6,
		Attribs: lineAttribs,
		Indices: lineIndices,
	})
	if err != nil {
		return fmt.Errorf("render: draw line: %w", err)
	}
	defer mesh.Release()

	return r.dev.Draw(driver.DrawOp{
		Program:   r.lineProg,
		Mesh:      mesh,
		Primitive: driver.Lines,
		ViewportW: r.width,
		ViewportH: r.height,
	})
}

// ExtractImage samples a warped region of src into dst, producing an
// upright dstWidth x dstHeight patch.
//
// srcPoints are 16 control points in row-major 4x4 grid order, in the
// coordinate space that srcScaleX and srcScaleY normalize to texture
// coordinates (a point at the source's right edge times srcScaleX must
// be 1). The patch is rendered with linear filtering into an offscreen
// target and read back into dst, which is resized to fit.
//
// When srcPoints does not hold exactly 16 points, or src is empty, the
// call is a no-op: it returns (false, nil) and leaves dst untouched, so
// the caller can keep showing its previous patch. Returns (true, nil)
// once dst holds the new extraction.
//
// A single textured quad would interpolate texture coordinates linearly
// across the whole region, which visibly bends straight grid lines
// under perspective. The 4x4 mesh pins the true correspondence at 16
// points, so each of the 18 triangles only spans a ninth of the region
// and the residual error stays under a pixel at patch scale.
func (r *Renderer) ExtractImage(src *gridlens.Image, srcPoints []gridlens.Point, srcScaleX, srcScaleY float64, dst *gridlens.Image, dstWidth, dstHeight int) (bool, error) {
	if len(srcPoints) != controlPoints || src.Empty() {
		return false, nil
	}

	tex, err := r.dev.NewTexture(driver.TextureSpec{
		Width:  src.Width(),
		Height: src.Height(),
		Pix:    src.Data(),
		Filter: driver.FilterLinear,
	})
	if err != nil {
		return false, fmt.Errorf("render: extract image: %w", err)
	}
	defer tex.Release()

	// Grid row 0 is placed at NDC y = -1. Readback returns rows bottom
	// to top, so row 0 of dst comes out as the grid's first row without
	// a flip pass.
	verts := make([]float32, 0, controlPoints*5)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p := srcPoints[y*4+x]
			verts = append(verts,
				-1+float32(x)*(2.0/3.0),
				-1+float32(y)*(2.0/3.0),
				0,
				float32(p.X*srcScaleX),
				float32(p.Y*srcScaleY),
			)
		}
	}
	mesh, err := r.dev.NewMesh(driver.MeshSpec{
		Vertices: verts,
		Stride:   5,
		Attribs:  imageAttribs,
		Indices:  extractIndices,
	})
	if err != nil {
		return false, fmt.Errorf("render: extract image: %w", err)
	}
	defer mesh.Release()

	tgt, err := r.dev.NewTarget(dstWidth, dstHeight)
	if err != nil {
		return false, fmt.Errorf("render: extract image: %w", err)
	}
	defer tgt.Release()

	err = r.dev.Draw(driver.DrawOp{
		Program:   r.imageProg,
		Mesh:      mesh,
		Texture:   tex,
		Sampler:   samplerName,
		Target:    tgt,
		Primitive: driver.Triangles,
		ViewportW: dstWidth,
		ViewportH: dstHeight,
	})
	if err != nil {
		return false, fmt.Errorf("render: extract image: %w", err)
	}

	dst.Reset(dstWidth, dstHeight)
	if err := tgt.ReadPixels(dst.Data()); err != nil {
		return false, fmt.Errorf("render: extract image: %w", err)
	}
	return true, nil
}
