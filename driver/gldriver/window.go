// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

package gldriver

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gridlens/gridlens/driver"
)

// window wraps a GLFW window and queues key events between drains.
type window struct {
	win    *glfw.Window
	events []driver.KeyEvent
}

var _ driver.Window = (*window)(nil)

func newWindow(opts driver.Options) (*window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("gldriver: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("gldriver: create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &window{win: win}
	win.SetKeyCallback(w.onKey)
	return w, nil
}

func (w *window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k, ok := mapKey(key)
	if !ok {
		return
	}
	w.events = append(w.events, driver.KeyEvent{Key: k, Action: mapAction(action)})
}

// DrainEvents pumps the GLFW event queue and hands over the key events
// accumulated since the previous drain.
func (w *window) DrainEvents() []driver.KeyEvent {
	glfw.PollEvents()
	events := w.events
	w.events = nil
	return events
}

func (w *window) CloseRequested() bool {
	return w.win.ShouldClose()
}

func (w *window) RequestClose() {
	w.win.SetShouldClose(true)
}

// Present swaps buffers. With SwapInterval(1) this blocks until the
// next display refresh.
func (w *window) Present() {
	w.win.SwapBuffers()
}

func (w *window) destroy() {
	w.win.Destroy()
}

// mapKey translates the GLFW key code. Keys outside the application's
// small set are dropped at the source.
func mapKey(key glfw.Key) (driver.Key, bool) {
	switch key {
	case glfw.KeyEscape:
		return driver.KeyEscape, true
	case glfw.Key0, glfw.KeyKP0:
		return driver.Key0, true
	case glfw.Key1, glfw.KeyKP1:
		return driver.Key1, true
	case glfw.Key2, glfw.KeyKP2:
		return driver.Key2, true
	case glfw.Key3, glfw.KeyKP3:
		return driver.Key3, true
	}
	return 0, false
}

func mapAction(action glfw.Action) driver.Action {
	switch action {
	case glfw.Press:
		return driver.Press
	case glfw.Release:
		return driver.Release
	}
	return driver.Repeat
}
