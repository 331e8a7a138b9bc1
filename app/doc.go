// Package app runs the frame loop: capture a camera frame, detect a
// grid, composite the annotated feed plus the extracted grid patch, and
// present.
//
// The loop is single threaded and fully synchronous; it polls input once
// per iteration, owns all per-frame image buffers, and stops on a window
// close request, a canceled context, or the first backend error.
package app
