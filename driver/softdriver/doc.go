// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package softdriver provides a pure-CPU implementation of the driver
// interfaces.
//
// It rasterizes the two fixed pipelines directly: textured triangles
// with clamped nearest or bilinear sampling, and flat-shaded line
// segments. Axis-aligned full-texture quads (the common DrawImage case)
// take a fast path through golang.org/x/image/draw scalers.
//
// The device renders into plain RGB8 buffers and its window is
// headless, which makes it the reference implementation for tests and a
// fallback for systems without OpenGL. Register it with a blank import:
//
//	import _ "github.com/gridlens/gridlens/driver/softdriver"
//
// The driver registers under the name "software" with priority 10.
package softdriver
