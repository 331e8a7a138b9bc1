package camera

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/gridlens/gridlens"
)

var (
	// ErrClosed is returned by CaptureFrameRGB once the device stream
	// has ended.
	ErrClosed = errors.New("camera: device stream closed")

	// ErrFormat is returned by Open when the device cannot stream YUYV.
	ErrFormat = errors.New("camera: device does not stream YUYV")
)

// Camera is a streaming V4L2 capture device.
type Camera struct {
	dev    *device.Device
	frames <-chan []byte
	ctx    context.Context
	width  int
	height int
}

// Open starts streaming from the video device at path, requesting YUYV
// frames of the given size. The driver may negotiate a different size;
// Size reports what was agreed. The stream runs until ctx is canceled or
// Close is called.
func Open(ctx context.Context, path string, width, height int) (*Camera, error) {
	dev, err := device.Open(path, device.WithPixFormat(v4l2.PixFormat{
		PixelFormat: v4l2.PixelFmtYUYV,
		Width:       uint32(width),
		Height:      uint32(height),
	}))
	if err != nil {
		return nil, fmt.Errorf("camera: open %s: %w", path, err)
	}

	format, err := dev.GetPixFormat()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("camera: query format of %s: %w", path, err)
	}
	if format.PixelFormat != v4l2.PixelFmtYUYV {
		dev.Close()
		return nil, fmt.Errorf("%w: %s negotiated %#x", ErrFormat, path, format.PixelFormat)
	}

	if err := dev.Start(ctx); err != nil {
		dev.Close()
		return nil, fmt.Errorf("camera: start %s: %w", path, err)
	}

	c := &Camera{
		dev:    dev,
		frames: dev.GetOutput(),
		ctx:    ctx,
		width:  int(format.Width),
		height: int(format.Height),
	}
	gridlens.Logger().Info("camera streaming",
		"path", path,
		"width", c.width,
		"height", c.height)
	return c, nil
}

// Size returns the negotiated frame dimensions.
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}

// CaptureFrameRGB blocks until the next frame arrives and converts it
// into img. Returns ErrClosed once the stream has ended, or the context
// error when the context given to Open is canceled.
func (c *Camera) CaptureFrameRGB(img *gridlens.Image) error {
	select {
	case frame, ok := <-c.frames:
		if !ok {
			return ErrClosed
		}
		return yuyvToRGB(frame, c.width, c.height, img)
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// Close stops streaming and releases the device.
func (c *Camera) Close() error {
	if err := c.dev.Close(); err != nil {
		return fmt.Errorf("camera: close: %w", err)
	}
	return nil
}
