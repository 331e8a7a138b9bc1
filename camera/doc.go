// Package camera captures RGB frames from a V4L2 video device.
//
// The device streams YUYV 4:2:2 and each captured frame is converted to
// the RGB8 layout the rest of the pipeline works in. Streaming runs in
// the background from Open onward; CaptureFrameRGB is a blocking facade
// over the stream that hands back one frame at a time. Cancel the
// context passed to Open to shut the stream down.
package camera
