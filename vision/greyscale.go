package vision

import (
	"github.com/gridlens/gridlens"
)

// Greyscale converts src to greyscale using the ITU-R BT.601 luma weights
// and writes the result to dst, replicating the luma value into all three
// channels. dst is reshaped to match src. An empty src leaves dst
// unchanged.
func Greyscale(src, dst *gridlens.Image) {
	if src.Empty() {
		return
	}

	dst.Reset(src.Width(), src.Height())
	s := src.Data()
	d := dst.Data()
	for i := 0; i < len(s); i += 3 {
		luma := uint8(0.299*float64(s[i]) + 0.587*float64(s[i+1]) + 0.114*float64(s[i+2]) + 0.5)
		d[i] = luma
		d[i+1] = luma
		d[i+2] = luma
	}
}
