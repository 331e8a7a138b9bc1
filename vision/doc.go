// Package vision implements the CPU side of the frame pipeline: greyscale
// conversion, additive blending, Canny-style edge detection, and a Hough
// transform that accumulates line votes from an edge image.
//
// All stages work on RGB8 images and reshape their destination with
// Reset, so per-frame buffers can be reused across iterations without
// reallocating. An empty source image makes every stage a silent no-op.
//
// The Hough accumulator produced here is a wire format shared with the
// detect and overlay packages: a ThetaBins x RhoBins image whose cells
// store unsigned 16-bit vote counts packed little-endian into the first
// two bytes of each 3-byte pixel.
package vision
