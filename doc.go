// Package gridlens provides the shared value types and geometry for an
// augmented-reality grid viewer: a live camera feed composited with debug
// overlays and a perspective-corrected extraction of a detected grid patch.
//
// # Overview
//
// gridlens renders a camera feed, detects a quadrilateral grid (a printed
// puzzle) in it, and presents both the annotated feed and a dewarped,
// fronto-parallel view of the grid side by side. This root package holds
// only plain data: the RGB8 Image buffer, polar lines in Hesse normal
// form, line clusters, and the pure line-to-viewport clipper. It performs
// no I/O and touches no GPU state.
//
// # Architecture
//
// The repository is organized into:
//   - Root: Image, Point, Line, LineCluster, ClipLine, FitRect
//   - driver: narrow graphics-device abstraction with a priority registry
//   - driver/gldriver, driver/softdriver: OpenGL and pure-CPU devices
//   - render: the three drawing operations (DrawImage, DrawLine,
//     ExtractImage) built on driver
//   - overlay: debug overlay composition (palette, clipped lines,
//     accumulator preview)
//   - vision: greyscale, edge detection, additive blend, Hough transform
//   - detect: grid detection over the Hough accumulator
//   - camera: V4L2 frame acquisition
//   - app: the single-threaded frame loop
//
// # Coordinate System
//
// Pixel coordinates place the origin at the top-left, X increasing right
// and Y increasing down. Polar lines (rho, theta) are in Hesse normal
// form: every point (x, y) on the line satisfies x*cos(theta) +
// y*sin(theta) = rho. The rendering pipeline consumes normalized device
// coordinates in [-1,1] with a centered origin; the mapping between the
// two lives in the render package.
package gridlens

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
