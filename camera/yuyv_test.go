package camera

import (
	"errors"
	"testing"

	"github.com/gridlens/gridlens"
)

func TestYUYVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		y, u, v uint8
		r, g, b uint8
	}{
		{"studio black", 16, 128, 128, 0, 0, 0},
		{"studio white", 235, 128, 128, 255, 255, 255},
		{"mid grey", 126, 128, 128, 128, 128, 128},
		{"red", 82, 90, 240, 255, 1, 0},
		{"blue", 41, 240, 110, 0, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := []byte{tt.y, tt.u, tt.y, tt.v}

			var img gridlens.Image
			if err := yuyvToRGB(frame, 2, 1, &img); err != nil {
				t.Fatalf("yuyvToRGB: %v", err)
			}

			for x := 0; x < 2; x++ {
				r, g, b := img.RGBAt(x, 0)
				if r != tt.r || g != tt.g || b != tt.b {
					t.Errorf("pixel %d = (%d, %d, %d), want (%d, %d, %d)", x, r, g, b, tt.r, tt.g, tt.b)
				}
			}
		})
	}
}

func TestYUYVToRGBSharedChroma(t *testing.T) {
	// One group, two luma samples: black and white sharing neutral
	// chroma.
	frame := []byte{16, 128, 235, 128}

	var img gridlens.Image
	if err := yuyvToRGB(frame, 2, 1, &img); err != nil {
		t.Fatalf("yuyvToRGB: %v", err)
	}

	if r, g, b := img.RGBAt(0, 0); r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel 0 = (%d, %d, %d), want black", r, g, b)
	}
	if r, g, b := img.RGBAt(1, 0); r != 255 || g != 255 || b != 255 {
		t.Errorf("pixel 1 = (%d, %d, %d), want white", r, g, b)
	}
}

func TestYUYVToRGBShortBuffer(t *testing.T) {
	var img gridlens.Image
	err := yuyvToRGB(make([]byte, 10), 4, 2, &img)
	if !errors.Is(err, ErrShortFrame) {
		t.Fatalf("err = %v, want ErrShortFrame", err)
	}
}

func TestYUYVToRGBIgnoresPadding(t *testing.T) {
	frame := make([]byte, 2*1*2+10)
	frame[0], frame[1], frame[2], frame[3] = 235, 128, 235, 128

	var img gridlens.Image
	if err := yuyvToRGB(frame, 2, 1, &img); err != nil {
		t.Fatalf("yuyvToRGB: %v", err)
	}
	if r, _, _ := img.RGBAt(0, 0); r != 255 {
		t.Errorf("pixel 0 red = %d, want 255", r)
	}
}

func TestYUYVToRGBBadGeometry(t *testing.T) {
	var img gridlens.Image
	if err := yuyvToRGB(make([]byte, 64), 3, 2, &img); err == nil {
		t.Error("no error for an odd frame width")
	}
	if err := yuyvToRGB(make([]byte, 64), 0, 2, &img); err == nil {
		t.Error("no error for a zero frame width")
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   int
		want uint8
	}{
		{-50, 0},
		{0, 0},
		{128, 128},
		{255, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := clampByte(tt.in); got != tt.want {
			t.Errorf("clampByte(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
