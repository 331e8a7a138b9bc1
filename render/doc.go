// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the three drawing operations the application
// composes frames from: DrawImage, DrawLine and ExtractImage.
//
// The renderer is not a general-purpose drawing API. Each operation
// uploads its data, draws once and releases every GPU resource before
// returning; no textures or meshes are cached between calls.
//
// # Coordinate System
//
// Pixel-space coordinates have their origin at the window's top-left
// corner, x growing right and y growing down. The renderer maps them
// to normalized device coordinates as
//
//	ndcX = 2*(px/windowW) - 1
//	ndcY = 1 - 2*(py/windowH)
//
// # Extraction
//
// ExtractImage renders a warped source region into an offscreen target
// and reads it back, which is how the application obtains an upright
// view of a grid seen under perspective. See the method documentation
// for the mesh layout.
package render
