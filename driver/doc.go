// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver defines the narrow graphics-device abstraction the
// renderer draws through, plus a registry for pluggable implementations.
//
// A Device creates programs, textures, meshes and offscreen targets, and
// executes single draw operations. Resources follow a strict transient
// discipline: the renderer allocates them inside one drawing call and
// releases them before returning, so a Device never has to manage
// cross-frame resource lifetime.
//
// Implementations register themselves with a name and a priority:
//
//	func init() {
//	    driver.Register("gl", 100, glFactory, glAvailable)
//	}
//
// Applications then pick a device explicitly or take the best available:
//
//	dev, err := driver.NewDevice(driver.Options{Title: "gridlens", Width: 1400, Height: 600})
//
// Two implementations ship with gridlens: driver/gldriver (OpenGL 3.3
// core behind a GLFW window, priority 100) and driver/softdriver (a
// pure-CPU rasterizer with a headless window, priority 10).
package driver
