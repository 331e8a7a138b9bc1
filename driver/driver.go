// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

// Filter selects how a texture is sampled during rasterization.
type Filter uint8

const (
	// FilterNearest picks the closest texel.
	FilterNearest Filter = iota

	// FilterLinear blends the four surrounding texels.
	FilterLinear
)

// Primitive selects how mesh indices are assembled.
type Primitive uint8

const (
	// Triangles assembles indices in groups of three.
	Triangles Primitive = iota

	// Lines assembles indices in groups of two.
	Lines
)

// Names of the two fixed pipelines every device understands. Devices
// that execute shader source (gldriver) compile the sources carried in
// the ProgramSpec; the software device implements the named pipeline
// semantics directly and keeps the sources only for uniform lookup.
const (
	// ProgramImage samples a texture across a position+UV mesh.
	ProgramImage = "image"

	// ProgramLine draws position+color vertices as solid lines.
	ProgramLine = "line"
)

// ProgramSpec describes a shader program as a named vertex/fragment
// source pair.
type ProgramSpec struct {
	Name     string
	Vertex   string
	Fragment string
}

// TextureSpec describes an immutable RGB8 texture upload.
//
// Pix holds Width*Height*3 bytes, rows top to bottom. Sampling outside
// [0,1] clamps to the edge texels.
type TextureSpec struct {
	Width  int
	Height int
	Pix    []uint8
	Filter Filter
}

// VertexAttrib describes one attribute within an interleaved float32
// vertex buffer.
type VertexAttrib struct {
	// Index is the shader attribute location.
	Index int

	// Size is the number of float32 components.
	Size int

	// Offset is the float32 offset of the attribute within a vertex.
	Offset int
}

// MeshSpec describes an indexed mesh with interleaved float32 vertices.
// Stride is the number of float32 values per vertex.
type MeshSpec struct {
	Vertices []float32
	Stride   int
	Attribs  []VertexAttrib
	Indices  []uint32
}

// DrawOp is a single draw: one mesh drawn with one program, optionally
// textured, into a target. A nil Target draws to the window framebuffer.
//
// The viewport maps normalized device coordinates onto ViewportW x
// ViewportH pixels; callers pass the window size for on-screen draws and
// the target size for offscreen draws.
type DrawOp struct {
	Program   Program
	Mesh      Mesh
	Texture   Texture
	Sampler   string
	Target    Target
	Primitive Primitive
	ViewportW int
	ViewportH int
}

// Program is a compiled pipeline. The device activates it for the
// duration of each Draw that names it.
type Program interface {
	// Uniform returns the location of the named uniform, or -1 when the
	// program does not declare it.
	Uniform(name string) int32

	// Release destroys the program. The program must not be used after
	// Release.
	Release()
}

// Texture is an uploaded image, released by the caller after its draw.
type Texture interface {
	Release()
}

// Mesh is an uploaded vertex/index buffer pair, released by the caller
// after its draw.
type Mesh interface {
	Release()
}

// Target is an offscreen render destination with RGB8 readback.
type Target interface {
	// ReadPixels copies the rendered contents into dst, which must hold
	// width*height*3 bytes. Rows are returned bottom to top, matching GL
	// readback order; meshes that want a top-down result map their first
	// row to normalized device y = -1.
	ReadPixels(dst []uint8) error

	Release()
}

// Device is a graphics device bound to one window.
type Device interface {
	// NewProgram compiles (or selects) the pipeline described by spec.
	NewProgram(spec ProgramSpec) (Program, error)

	// NewTexture uploads an RGB8 texture.
	NewTexture(spec TextureSpec) (Texture, error)

	// NewMesh uploads an indexed vertex buffer.
	NewMesh(spec MeshSpec) (Mesh, error)

	// NewTarget creates an offscreen render target.
	NewTarget(width, height int) (Target, error)

	// Clear fills the window framebuffer with opaque black.
	Clear()

	// Draw executes a single draw operation.
	Draw(op DrawOp) error

	// Err returns the first backend error recorded since the previous
	// call and clears it. A non-nil result means the device state is no
	// longer trustworthy; callers are expected to abort.
	Err() error

	// Window returns the presentation and input surface owned by the
	// device.
	Window() Window

	// Close releases the device and its window.
	Close() error
}

// Key identifies the small set of keys the application reacts to.
type Key uint8

const (
	KeyEscape Key = iota
	Key0
	Key1
	Key2
	Key3
)

// Action is the edge type of a key event.
type Action uint8

const (
	Press Action = iota
	Release
	Repeat
)

// KeyEvent is one keyboard edge observed by the window.
type KeyEvent struct {
	Key    Key
	Action Action
}

// Window is the presentation and input surface of a device.
//
// Implementations queue key events as the platform reports them;
// DrainEvents hands the queue to the caller exactly once, so the frame
// loop observes input at a single fixed point per iteration.
type Window interface {
	// DrainEvents pumps the platform event queue and returns all key
	// events observed since the previous call.
	DrainEvents() []KeyEvent

	// CloseRequested reports whether the window has been asked to close,
	// either by the user or via RequestClose.
	CloseRequested() bool

	// RequestClose marks the window as closing.
	RequestClose()

	// Present shows the finished frame, blocking until the backend is
	// ready for the next one.
	Present()
}

// Options configures device creation.
type Options struct {
	// Title is the window title.
	Title string

	// Width and Height fix the window size in pixels. Windows are not
	// resizable.
	Width  int
	Height int
}
