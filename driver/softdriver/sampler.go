// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package softdriver

import "math"

// sampleNearest returns the texel nearest to (u, v). Coordinates outside
// [0,1] clamp to the edge, matching GL_CLAMP_TO_EDGE.
func sampleNearest(src *surfaceBuf, u, v float64) (r, g, b uint8) {
	x := clampInt(int(u*float64(src.width)), 0, src.width-1)
	y := clampInt(int(v*float64(src.height)), 0, src.height-1)
	i := (y*src.width + x) * 3
	return src.pix[i], src.pix[i+1], src.pix[i+2]
}

// sampleBilinear blends the four texels around (u, v). Texel centers sit
// at half-integer coordinates, so a coordinate that lands exactly on a
// center reproduces that texel.
func sampleBilinear(src *surfaceBuf, u, v float64) (r, g, b uint8) {
	fx := u*float64(src.width) - 0.5
	fy := v*float64(src.height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	x1 := clampInt(x0+1, 0, src.width-1)
	y1 := clampInt(y0+1, 0, src.height-1)
	x0 = clampInt(x0, 0, src.width-1)
	y0 = clampInt(y0, 0, src.height-1)

	i00 := (y0*src.width + x0) * 3
	i10 := (y0*src.width + x1) * 3
	i01 := (y1*src.width + x0) * 3
	i11 := (y1*src.width + x1) * 3

	r = lerpByte(src.pix[i00], src.pix[i10], src.pix[i01], src.pix[i11], dx, dy)
	g = lerpByte(src.pix[i00+1], src.pix[i10+1], src.pix[i01+1], src.pix[i11+1], dx, dy)
	b = lerpByte(src.pix[i00+2], src.pix[i10+2], src.pix[i01+2], src.pix[i11+2], dx, dy)
	return r, g, b
}

// lerpByte bilinearly blends four channel values with weights dx, dy.
func lerpByte(c00, c10, c01, c11 uint8, dx, dy float64) uint8 {
	top := float64(c00) + dx*(float64(c10)-float64(c00))
	bot := float64(c01) + dx*(float64(c11)-float64(c01))
	return uint8(top + dy*(bot-top) + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
