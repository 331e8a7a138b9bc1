package gridlens

import (
	"math"
	"testing"
)

func TestPointAdd(t *testing.T) {
	got := Pt(3, 4).Add(Pt(-1, 2))
	if got != Pt(2, 6) {
		t.Errorf("Add() = %v, want (2, 6)", got)
	}
}

func TestPointDistance(t *testing.T) {
	tests := []struct {
		p, q Point
		want float64
	}{
		{Pt(0, 0), Pt(3, 4), 5},
		{Pt(1, 1), Pt(1, 1), 0},
		{Pt(-2, 0), Pt(2, 0), 4},
	}
	for _, tt := range tests {
		if got := tt.p.Distance(tt.q); !nearlyEqual(got, tt.want, 1e-12) {
			t.Errorf("Distance(%v, %v) = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}

func TestMeanTheta(t *testing.T) {
	tests := []struct {
		name    string
		cluster LineCluster
		want    float64
	}{
		{"empty", nil, 0},
		{"single", LineCluster{{Rho: 10, Theta: 1.5}}, 1.5},
		{"average", LineCluster{{Theta: 1.0}, {Theta: 2.0}, {Theta: 3.0}}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cluster.MeanTheta(); !nearlyEqual(got, tt.want, 1e-12) {
				t.Errorf("MeanTheta() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitRect(t *testing.T) {
	type rect struct {
		x, y, w, h float64
	}
	tests := []struct {
		name       string
		regionW    float64
		regionH    float64
		imgW, imgH float64
		want       rect
	}{
		{
			// 640x480 scales up by 1.25 to fill an 800x600 region exactly.
			name:    "matching aspect fills region",
			regionW: 800,
			regionH: 600,
			imgW:    640,
			imgH:    480,
			want:    rect{x: 0, y: 0, w: 800, h: 600},
		},
		{
			name:    "wide image letterboxed vertically",
			regionW: 800,
			regionH: 600,
			imgW:    800,
			imgH:    200,
			want:    rect{x: 0, y: 200, w: 800, h: 200},
		},
		{
			name:    "tall image letterboxed horizontally",
			regionW: 800,
			regionH: 600,
			imgW:    300,
			imgH:    600,
			want:    rect{x: 250, y: 0, w: 300, h: 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := FitRect(tt.regionW, tt.regionH, tt.imgW, tt.imgH)
			const eps = 1e-9
			if !nearlyEqual(x, tt.want.x, eps) || !nearlyEqual(y, tt.want.y, eps) ||
				!nearlyEqual(w, tt.want.w, eps) || !nearlyEqual(h, tt.want.h, eps) {
				t.Errorf("FitRect() = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
					x, y, w, h, tt.want.x, tt.want.y, tt.want.w, tt.want.h)
			}

			// Aspect ratio preserved.
			if !nearlyEqual(w/h, tt.imgW/tt.imgH, eps) {
				t.Errorf("aspect ratio %v, want %v", w/h, tt.imgW/tt.imgH)
			}
			// Centered within the region.
			if !nearlyEqual(x*2+w, tt.regionW, eps) || !nearlyEqual(y*2+h, tt.regionH, eps) {
				t.Errorf("placement (%v, %v, %v, %v) not centered in %vx%v",
					x, y, w, h, tt.regionW, tt.regionH)
			}
		})
	}
}

func TestFitRectScalesBothWays(t *testing.T) {
	// A small image is scaled up, a large one down; both end up touching
	// two opposite region edges.
	for _, dims := range [][2]float64{{20, 10}, {4000, 2000}} {
		_, _, w, h := FitRect(400, 300, dims[0], dims[1])
		if !nearlyEqual(w, 400, 1e-9) && !nearlyEqual(h, 300, 1e-9) {
			t.Errorf("FitRect(400, 300, %v, %v) = %vx%v touches neither edge pair",
				dims[0], dims[1], w, h)
		}
	}
}

func TestLineSatisfiesHesseForm(t *testing.T) {
	// Spot check that the (rho, theta) convention matches the documented
	// equation via the perpendicular foot point.
	l := Line{Rho: 25, Theta: 0.6}
	sin, cos := math.Sincos(l.Theta)
	foot := Pt(l.Rho*cos, l.Rho*sin)
	if got := foot.X*cos + foot.Y*sin; !nearlyEqual(got, l.Rho, 1e-12) {
		t.Errorf("foot point residual = %v, want %v", got, l.Rho)
	}
}
