package camera

import (
	"errors"
	"fmt"

	"github.com/gridlens/gridlens"
)

// ErrShortFrame is returned when a captured buffer is smaller than one
// full YUYV frame.
var ErrShortFrame = errors.New("camera: short frame buffer")

// yuyvToRGB expands a packed YUYV 4:2:2 frame into dst as RGB8. Each
// 4-byte group Y0 U Y1 V yields two pixels sharing the chroma pair. The
// conversion uses the integer ITU-R BT.601 coefficients, so studio-range
// luma maps to the full 0..255 range. Trailing driver padding beyond the
// frame is ignored.
func yuyvToRGB(frame []byte, width, height int, dst *gridlens.Image) error {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return fmt.Errorf("camera: bad frame geometry %dx%d", width, height)
	}
	need := width * height * 2
	if len(frame) < need {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrShortFrame, len(frame), width, height)
	}

	dst.Reset(width, height)
	d := dst.Data()
	di := 0
	for i := 0; i < need; i += 4 {
		y0 := int(frame[i])
		u := int(frame[i+1])
		y1 := int(frame[i+2])
		v := int(frame[i+3])
		writeRGB(d[di:], y0, u, v)
		writeRGB(d[di+3:], y1, u, v)
		di += 6
	}
	return nil
}

// writeRGB converts one Y sample plus its chroma pair to RGB.
func writeRGB(dst []uint8, y, u, v int) {
	c := 298 * (y - 16)
	d := u - 128
	e := v - 128
	dst[0] = clampByte((c + 409*e + 128) >> 8)
	dst[1] = clampByte((c - 100*d - 208*e + 128) >> 8)
	dst[2] = clampByte((c + 516*d + 128) >> 8)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
