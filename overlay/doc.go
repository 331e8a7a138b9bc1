// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package overlay composes the debug visualizations drawn on top of the
// camera feed: raw detector lines, color-coded line clusters, and a
// rescaled preview of the Hough accumulator.
//
// The composer draws through a small Canvas interface satisfied by
// render.Renderer, clipping every line against the display region before
// issuing draw calls. Cluster colors come from a fixed 7-color palette
// assigned strictly by position, so two clusters never swap colors
// between frames unless their sort order changed.
package overlay
