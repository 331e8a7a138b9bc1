// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

package gldriver

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/driver"
)

// Errors.
var (
	// ErrShaderCompile is returned when a shader stage fails to compile.
	ErrShaderCompile = errors.New("gldriver: shader compile failed")

	// ErrProgramLink is returned when program linking fails.
	ErrProgramLink = errors.New("gldriver: program link failed")

	// ErrFramebuffer is returned when an offscreen target's framebuffer
	// is incomplete.
	ErrFramebuffer = errors.New("gldriver: framebuffer incomplete")

	// ErrInvalidDraw is returned when a draw op references resources
	// that do not belong to this device or omits a required one.
	ErrInvalidDraw = errors.New("gldriver: invalid draw op")
)

func init() {
	driver.Register("gl", 100, func(opts driver.Options) (driver.Device, error) {
		return New(opts)
	}, available)
}

// available reports whether GLFW can initialize. Init is idempotent, so
// probing here does not disturb later window creation.
func available() bool {
	return glfw.Init() == nil
}

// Device renders through an OpenGL 3.3 core context. All methods must
// be called from the OS thread that created the device.
type Device struct {
	window *window
	width  int
	height int
	err    error
}

var _ driver.Device = (*Device)(nil)

// New creates a window, makes its GL context current and loads the GL
// function pointers.
func New(opts driver.Options) (*Device, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("gldriver: invalid window size %dx%d", opts.Width, opts.Height)
	}
	win, err := newWindow(opts)
	if err != nil {
		return nil, err
	}
	if err := gl.Init(); err != nil {
		win.destroy()
		return nil, fmt.Errorf("gldriver: load GL: %w", err)
	}

	gridlens.Logger().Info("opengl context created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Disable(gl.DEPTH_TEST)
	// RGB8 uploads have 3-byte pixels, so rows are not 4-byte aligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)

	return &Device{window: win, width: opts.Width, height: opts.Height}, nil
}

// NewProgram compiles and links the shader sources in spec.
func (d *Device) NewProgram(spec driver.ProgramSpec) (driver.Program, error) {
	id, err := linkProgram(spec.Vertex, spec.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", spec.Name, err)
	}
	return &program{id: id}, nil
}

// NewTexture uploads an RGB8 texture with clamp-to-edge wrapping.
func (d *Device) NewTexture(spec driver.TextureSpec) (driver.Texture, error) {
	if len(spec.Pix) != spec.Width*spec.Height*3 {
		return nil, fmt.Errorf("gldriver: texture buffer is %d bytes, want %d",
			len(spec.Pix), spec.Width*spec.Height*3)
	}
	filter := int32(gl.NEAREST)
	if spec.Filter == driver.FilterLinear {
		filter = gl.LINEAR
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, int32(spec.Width), int32(spec.Height),
		0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(spec.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &texture{id: id}, nil
}

// NewMesh uploads an interleaved vertex buffer and index buffer into a
// vertex array.
func (d *Device) NewMesh(spec driver.MeshSpec) (driver.Mesh, error) {
	if spec.Stride <= 0 {
		return nil, fmt.Errorf("gldriver: mesh stride %d", spec.Stride)
	}
	if len(spec.Vertices)%spec.Stride != 0 {
		return nil, fmt.Errorf("gldriver: vertex buffer length %d not a multiple of stride %d",
			len(spec.Vertices), spec.Stride)
	}

	m := &mesh{count: int32(len(spec.Indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(spec.Vertices)*4, gl.Ptr(spec.Vertices), gl.STATIC_DRAW)

	stride := int32(spec.Stride * 4)
	for _, a := range spec.Attribs {
		gl.EnableVertexAttribArray(uint32(a.Index))
		gl.VertexAttribPointer(uint32(a.Index), int32(a.Size), gl.FLOAT, false,
			stride, gl.PtrOffset(a.Offset*4))
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(spec.Indices)*4, gl.Ptr(spec.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

// NewTarget creates a texture-backed framebuffer for offscreen draws.
func (d *Device) NewTarget(width, height int) (driver.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gldriver: invalid target size %dx%d", width, height)
	}

	t := &target{width: width, height: height}
	gl.GenTextures(1, &t.tex)
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, int32(width), int32(height),
		0, gl.RGB, gl.UNSIGNED_BYTE, nil)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.tex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("%w: status 0x%04x", ErrFramebuffer, status)
	}
	return t, nil
}

// Clear fills the window framebuffer with opaque black.
func (d *Device) Clear() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw executes a single draw operation.
func (d *Device) Draw(op driver.DrawOp) error {
	p, ok := op.Program.(*program)
	if !ok {
		return d.fail(fmt.Errorf("%w: foreign program", ErrInvalidDraw))
	}
	m, ok := op.Mesh.(*mesh)
	if !ok {
		return d.fail(fmt.Errorf("%w: foreign mesh", ErrInvalidDraw))
	}
	if op.ViewportW <= 0 || op.ViewportH <= 0 {
		return d.fail(fmt.Errorf("%w: viewport %dx%d", ErrInvalidDraw, op.ViewportW, op.ViewportH))
	}

	gl.UseProgram(p.id)

	if op.Texture != nil {
		t, ok := op.Texture.(*texture)
		if !ok {
			return d.fail(fmt.Errorf("%w: foreign texture", ErrInvalidDraw))
		}
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.Uniform1i(p.Uniform(op.Sampler), 0)
	}

	if op.Target != nil {
		t, ok := op.Target.(*target)
		if !ok {
			return d.fail(fmt.Errorf("%w: foreign target", ErrInvalidDraw))
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}

	gl.Viewport(0, 0, int32(op.ViewportW), int32(op.ViewportH))
	gl.BindVertexArray(m.vao)

	mode := uint32(gl.TRIANGLES)
	if op.Primitive == driver.Lines {
		mode = gl.LINES
	}
	gl.DrawElements(mode, m.count, gl.UNSIGNED_INT, gl.PtrOffset(0))

	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.UseProgram(0)
	return nil
}

// Err reports the first error recorded since the previous call, polling
// the GL error flags as well, and clears both.
func (d *Device) Err() error {
	if err := d.err; err != nil {
		d.err = nil
		return err
	}
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("gldriver: GL error 0x%04x", code)
}

// Window returns the GLFW window surface.
func (d *Device) Window() driver.Window {
	return d.window
}

// Close destroys the window and terminates GLFW.
func (d *Device) Close() error {
	d.window.destroy()
	glfw.Terminate()
	return nil
}

func (d *Device) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return err
}

// texture is a GL texture object.
type texture struct {
	id uint32
}

func (t *texture) Release() {
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}

// mesh is a vertex array with its backing vertex and index buffers.
type mesh struct {
	vao   uint32
	vbo   uint32
	ebo   uint32
	count int32
}

func (m *mesh) Release() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

// target is a texture-backed framebuffer.
type target struct {
	fbo    uint32
	tex    uint32
	width  int
	height int
}

// ReadPixels copies the target contents into dst. GL returns rows
// bottom to top.
func (t *target) ReadPixels(dst []uint8) error {
	if len(dst) != t.width*t.height*3 {
		return fmt.Errorf("gldriver: readback buffer is %d bytes, want %d",
			len(dst), t.width*t.height*3)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

func (t *target) Release() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.tex)
	t.fbo, t.tex = 0, 0
}
