package vision

import (
	"testing"

	"github.com/gridlens/gridlens"
)

func TestBlendAdd(t *testing.T) {
	a := gridlens.NewImage(2, 1)
	a.SetRGB(0, 0, 10, 200, 0)
	a.SetRGB(1, 0, 100, 100, 100)
	b := gridlens.NewImage(2, 1)
	b.SetRGB(0, 0, 20, 100, 255)
	b.SetRGB(1, 0, 1, 2, 3)

	var dst gridlens.Image
	BlendAdd(a, b, &dst)

	tests := []struct {
		x       int
		r, g, b uint8
	}{
		{0, 30, 255, 255},
		{1, 101, 102, 103},
	}
	for _, tt := range tests {
		r, g, bl := dst.RGBAt(tt.x, 0)
		if r != tt.r || g != tt.g || bl != tt.b {
			t.Errorf("RGBAt(%d, 0) = (%d, %d, %d), want (%d, %d, %d)", tt.x, r, g, bl, tt.r, tt.g, tt.b)
		}
	}
}

func TestBlendAddSizeMismatch(t *testing.T) {
	a := gridlens.NewImage(2, 2)
	b := gridlens.NewImage(3, 2)
	dst := gridlens.NewImage(1, 1)
	dst.SetRGB(0, 0, 7, 7, 7)

	BlendAdd(a, b, dst)

	if r, _, _ := dst.RGBAt(0, 0); r != 7 {
		t.Errorf("dst modified on size mismatch, RGBAt(0, 0) red = %d, want 7", r)
	}
}

func TestBlendAddEmptyInput(t *testing.T) {
	var a gridlens.Image
	b := gridlens.NewImage(2, 2)
	var dst gridlens.Image

	BlendAdd(&a, b, &dst)

	if !dst.Empty() {
		t.Error("dst filled from an empty input")
	}
}
