package vision

import (
	"github.com/gridlens/gridlens"
)

// BlendAdd adds a and b channel-wise, saturating at 255, and writes the
// result to dst. The inputs must share dimensions; on a mismatch, or when
// either input is empty, dst is left unchanged.
func BlendAdd(a, b, dst *gridlens.Image) {
	if a.Empty() || b.Empty() {
		return
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return
	}

	dst.Reset(a.Width(), a.Height())
	pa := a.Data()
	pb := b.Data()
	d := dst.Data()
	for i := range pa {
		v := int(pa[i]) + int(pb[i])
		if v > 255 {
			v = 255
		}
		d[i] = uint8(v)
	}
}
