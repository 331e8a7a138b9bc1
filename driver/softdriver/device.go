// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package softdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/driver"
)

// Errors.
var (
	// ErrUnknownProgram is returned for program specs whose name is not
	// one of the fixed pipelines.
	ErrUnknownProgram = errors.New("softdriver: unknown program")

	// ErrInvalidDraw is returned when a draw op references resources
	// that do not belong to this device or omits a required one.
	ErrInvalidDraw = errors.New("softdriver: invalid draw op")
)

func init() {
	driver.Register("software", 10, func(opts driver.Options) (driver.Device, error) {
		return New(opts)
	}, nil)
}

// Device is a pure-CPU graphics device rendering into RGB8 buffers.
type Device struct {
	screen *surfaceBuf
	window *headlessWindow
	err    error
}

var _ driver.Device = (*Device)(nil)

// New creates a software device with a headless window of the given size.
func New(opts driver.Options) (*Device, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("softdriver: invalid window size %dx%d", opts.Width, opts.Height)
	}
	return &Device{
		screen: newSurfaceBuf(opts.Width, opts.Height),
		window: &headlessWindow{},
	}, nil
}

// Screen exposes the window framebuffer as an RGB8 image sharing the
// device's pixel storage. Tests read composited output through it.
func (d *Device) Screen() *gridlens.Image {
	return gridlens.ImageFromRaw(d.screen.pix, d.screen.width, d.screen.height)
}

// NewProgram selects one of the fixed pipelines by spec name. The
// sources are scanned for uniform declarations so lookups behave like a
// compiled program.
func (d *Device) NewProgram(spec driver.ProgramSpec) (driver.Program, error) {
	switch spec.Name {
	case driver.ProgramImage, driver.ProgramLine:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, spec.Name)
	}
	return &program{
		name:     spec.Name,
		uniforms: scanUniforms(spec.Vertex, spec.Fragment),
	}, nil
}

// NewTexture wraps the spec's pixel buffer without copying. The buffer
// is borrowed until Release, which matches the renderer's transient
// per-call resource discipline.
func (d *Device) NewTexture(spec driver.TextureSpec) (driver.Texture, error) {
	if len(spec.Pix) != spec.Width*spec.Height*3 {
		return nil, fmt.Errorf("softdriver: texture buffer is %d bytes, want %d",
			len(spec.Pix), spec.Width*spec.Height*3)
	}
	return &texture{
		buf:    &surfaceBuf{width: spec.Width, height: spec.Height, pix: spec.Pix},
		filter: spec.Filter,
	}, nil
}

// NewMesh retains the vertex and index data for rasterization.
func (d *Device) NewMesh(spec driver.MeshSpec) (driver.Mesh, error) {
	if spec.Stride <= 0 {
		return nil, fmt.Errorf("softdriver: mesh stride %d", spec.Stride)
	}
	if len(spec.Vertices)%spec.Stride != 0 {
		return nil, fmt.Errorf("softdriver: vertex buffer length %d not a multiple of stride %d",
			len(spec.Vertices), spec.Stride)
	}
	return &mesh{spec: spec}, nil
}

// NewTarget creates an offscreen RGB8 render target.
func (d *Device) NewTarget(width, height int) (driver.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("softdriver: invalid target size %dx%d", width, height)
	}
	return &target{buf: newSurfaceBuf(width, height)}, nil
}

// Clear fills the window framebuffer with opaque black.
func (d *Device) Clear() {
	clear(d.screen.pix)
}

// Draw rasterizes a single op.
func (d *Device) Draw(op driver.DrawOp) error {
	p, ok := op.Program.(*program)
	if !ok {
		return d.fail(fmt.Errorf("%w: foreign program", ErrInvalidDraw))
	}
	m, ok := op.Mesh.(*mesh)
	if !ok {
		return d.fail(fmt.Errorf("%w: foreign mesh", ErrInvalidDraw))
	}

	dst := d.screen
	if op.Target != nil {
		t, ok := op.Target.(*target)
		if !ok {
			return d.fail(fmt.Errorf("%w: foreign target", ErrInvalidDraw))
		}
		dst = t.buf
	}
	if op.ViewportW <= 0 || op.ViewportH <= 0 {
		return d.fail(fmt.Errorf("%w: viewport %dx%d", ErrInvalidDraw, op.ViewportW, op.ViewportH))
	}

	switch p.name {
	case driver.ProgramImage:
		tex, ok := op.Texture.(*texture)
		if !ok || tex == nil {
			return d.fail(fmt.Errorf("%w: image pipeline needs a texture", ErrInvalidDraw))
		}
		return d.drawImageMesh(dst, tex, m, op)
	case driver.ProgramLine:
		return d.drawLineMesh(dst, m, op)
	}
	return d.fail(fmt.Errorf("%w: %q", ErrUnknownProgram, p.name))
}

// Err returns the first draw error recorded since the previous call and
// clears it.
func (d *Device) Err() error {
	err := d.err
	d.err = nil
	return err
}

// Window returns the headless window.
func (d *Device) Window() driver.Window {
	return d.window
}

// Close releases the framebuffer.
func (d *Device) Close() error {
	d.screen = nil
	return nil
}

// fail records a sticky error (mirroring GL error state) and returns it.
func (d *Device) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return err
}

// program is a fixed pipeline selected by name.
type program struct {
	name     string
	uniforms map[string]int32
}

func (p *program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (p *program) Release() {}

// scanUniforms collects uniform names declared in the shader sources and
// assigns them sequential locations.
func scanUniforms(sources ...string) map[string]int32 {
	uniforms := make(map[string]int32)
	var next int32
	for _, src := range sources {
		for _, line := range strings.Split(src, "\n") {
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) < 3 || fields[0] != "uniform" {
				continue
			}
			name := strings.TrimSuffix(fields[2], ";")
			if _, ok := uniforms[name]; !ok {
				uniforms[name] = next
				next++
			}
		}
	}
	return uniforms
}

// texture borrows an RGB8 buffer for the duration of a draw call.
type texture struct {
	buf    *surfaceBuf
	filter driver.Filter
}

func (t *texture) Release() {
	t.buf = nil
}

// mesh retains vertex and index data.
type mesh struct {
	spec driver.MeshSpec
}

func (m *mesh) Release() {
	m.spec = driver.MeshSpec{}
}

// attrib returns one float32 component of a vertex attribute.
func (m *mesh) attrib(a driver.VertexAttrib, vertex, comp int) float64 {
	return float64(m.spec.Vertices[vertex*m.spec.Stride+a.Offset+comp])
}

// findAttrib locates an attribute by shader location.
func (m *mesh) findAttrib(index int) (driver.VertexAttrib, bool) {
	for _, a := range m.spec.Attribs {
		if a.Index == index {
			return a, true
		}
	}
	return driver.VertexAttrib{}, false
}

// target is an offscreen RGB8 render destination.
type target struct {
	buf *surfaceBuf
}

// ReadPixels copies the target contents into dst, rows bottom to top.
func (t *target) ReadPixels(dst []uint8) error {
	if t.buf == nil {
		return fmt.Errorf("%w: target released", ErrInvalidDraw)
	}
	w, h := t.buf.width, t.buf.height
	if len(dst) != w*h*3 {
		return fmt.Errorf("softdriver: readback buffer is %d bytes, want %d", len(dst), w*h*3)
	}
	rowLen := w * 3
	for row := 0; row < h; row++ {
		src := t.buf.pix[(h-1-row)*rowLen : (h-row)*rowLen]
		copy(dst[row*rowLen:(row+1)*rowLen], src)
	}
	return nil
}

func (t *target) Release() {
	t.buf = nil
}

// headlessWindow satisfies driver.Window without any platform surface.
type headlessWindow struct {
	closing bool
}

func (w *headlessWindow) DrainEvents() []driver.KeyEvent { return nil }
func (w *headlessWindow) CloseRequested() bool           { return w.closing }
func (w *headlessWindow) RequestClose()                  { w.closing = true }
func (w *headlessWindow) Present()                       {}
