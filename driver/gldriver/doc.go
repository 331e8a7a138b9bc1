// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gldriver implements the graphics device on OpenGL 3.3 core
// with a GLFW window.
//
// The driver registers itself as "gl" with priority 100, so it is
// preferred whenever a GL context can be created:
//
//	import _ "github.com/gridlens/gridlens/driver/gldriver"
//
// GLFW requires the calling goroutine to be locked to the main OS
// thread. Programs using this driver must lock it before creating a
// device and keep every device call on that thread:
//
//	func init() { runtime.LockOSThread() }
package gldriver
