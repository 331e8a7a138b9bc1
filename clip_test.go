package gridlens

import (
	"math"
	"testing"
)

func nearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// canonicalize mirrors the clipper's rho >= 0 normalization so tests can
// verify the on-line residual in canonical form.
func canonicalize(l Line) (rho, theta float64) {
	rho, theta = l.Rho, l.Theta
	if rho < 0 {
		theta = math.Mod(theta+math.Pi, 2*math.Pi)
		rho = -rho
	}
	return rho, theta
}

func TestClipLineVerticalExact(t *testing.T) {
	tests := []struct {
		name   string
		line   Line
		x, y   float64
		w, h   float64
		p1, p2 Point
	}{
		{
			name: "theta zero at origin",
			line: Line{Rho: 40, Theta: 0},
			w:    100,
			h:    80,
			p1:   Pt(40, 0),
			p2:   Pt(40, 80),
		},
		{
			name: "theta zero with offset",
			line: Line{Rho: 5, Theta: 0},
			x:    10,
			y:    20,
			w:    30,
			h:    40,
			p1:   Pt(15, 20),
			p2:   Pt(15, 60),
		},
		{
			name: "negative rho at pi canonicalizes to vertical",
			line: Line{Rho: -5, Theta: math.Pi},
			w:    30,
			h:    40,
			p1:   Pt(5, 0),
			p2:   Pt(5, 40),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2, ok := ClipLine(tt.line, tt.x, tt.y, tt.w, tt.h)
			if !ok {
				t.Fatal("ClipLine() reported no intersection")
			}
			if p1 != tt.p1 || p2 != tt.p2 {
				t.Errorf("ClipLine() = %v, %v, want %v, %v", p1, p2, tt.p1, tt.p2)
			}
		})
	}
}

func TestClipLineHorizontal(t *testing.T) {
	// theta = pi/2 is a horizontal line at vertical offset rho.
	p1, p2, ok := ClipLine(Line{Rho: 30, Theta: math.Pi / 2}, 0, 0, 100, 80)
	if !ok {
		t.Fatal("ClipLine() reported no intersection")
	}
	const eps = 1e-9
	if !nearlyEqual(p1.X, 0, eps) || !nearlyEqual(p1.Y, 30, eps) {
		t.Errorf("p1 = %v, want (0, 30)", p1)
	}
	if !nearlyEqual(p2.X, 100, eps) || !nearlyEqual(p2.Y, 30, eps) {
		t.Errorf("p2 = %v, want (100, 30)", p2)
	}
}

func TestClipLineDeadQuadrant(t *testing.T) {
	// Canonical theta in [pi, 3*pi/2) can never cross the rectangle.
	thetas := []float64{math.Pi, 3.3, 3.8, 4.2, 4.7}
	rhos := []float64{0.5, 1, 10, 50, 1000}

	for _, theta := range thetas {
		for _, rho := range rhos {
			if _, _, ok := ClipLine(Line{Rho: rho, Theta: theta}, 0, 0, 200, 150); ok {
				t.Errorf("ClipLine(rho=%v, theta=%v) = ok, want no intersection", rho, theta)
			}
		}
	}
}

func TestClipLineSegmentOnLine(t *testing.T) {
	// Lines through an interior point must be clipped to segments whose
	// endpoints stay inside the rectangle and on the original line.
	const (
		w   = 100.0
		h   = 80.0
		eps = 1e-4
	)
	interior := []Point{Pt(50, 40), Pt(10, 70), Pt(90, 5)}
	thetas := []float64{0.1, 0.3, 0.8, math.Pi / 2, 1.9, 2.4, 2.8, 3.1}

	for _, q := range interior {
		for _, theta := range thetas {
			line := Line{Rho: q.X*math.Cos(theta) + q.Y*math.Sin(theta), Theta: theta}
			p1, p2, ok := ClipLine(line, 0, 0, w, h)
			if !ok {
				t.Errorf("ClipLine(through %v, theta=%v) dropped", q, theta)
				continue
			}
			rho, ctheta := canonicalize(line)
			sin, cos := math.Sincos(ctheta)
			for _, p := range []Point{p1, p2} {
				if p.X < -eps || p.X > w+eps || p.Y < -eps || p.Y > h+eps {
					t.Errorf("theta=%v: endpoint %v outside rect %vx%v", theta, p, w, h)
				}
				if got := p.X*cos + p.Y*sin; !nearlyEqual(got, rho, eps) {
					t.Errorf("theta=%v: endpoint %v off line: got rho %v, want %v", theta, p, got, rho)
				}
			}
		}
	}
}

func TestClipLineNegativeRhoMatchesCanonical(t *testing.T) {
	// A negative-rho line and its canonical form describe the same set of
	// points, so both must clip to the same segment.
	lines := []Line{
		{Rho: -30, Theta: 0.4},
		{Rho: -55, Theta: 1.2},
		{Rho: -12, Theta: 2.9},
	}
	for _, l := range lines {
		rho, theta := canonicalize(l)
		a1, a2, aok := ClipLine(l, 0, 0, 100, 80)
		b1, b2, bok := ClipLine(Line{Rho: rho, Theta: theta}, 0, 0, 100, 80)
		if aok != bok {
			t.Errorf("line %v: ok=%v, canonical ok=%v", l, aok, bok)
			continue
		}
		if !aok {
			continue
		}
		const eps = 1e-9
		if !nearlyEqual(a1.X, b1.X, eps) || !nearlyEqual(a1.Y, b1.Y, eps) ||
			!nearlyEqual(a2.X, b2.X, eps) || !nearlyEqual(a2.Y, b2.Y, eps) {
			t.Errorf("line %v: segment %v-%v, canonical %v-%v", l, a1, a2, b1, b2)
		}
	}
}

func TestClipLineUpperRightQuadrant(t *testing.T) {
	// Canonical theta in [3*pi/2, 2*pi) enters through the top edge.
	theta := 7 * math.Pi / 4
	rho := 10.0
	p1, p2, ok := ClipLine(Line{Rho: rho, Theta: theta}, 0, 0, 100, 100)
	if !ok {
		t.Fatal("ClipLine() reported no intersection")
	}
	const eps = 1e-9
	if !nearlyEqual(p1.Y, 0, eps) {
		t.Errorf("p1 = %v, want a top-edge point", p1)
	}
	sin, cos := math.Sincos(theta)
	for _, p := range []Point{p1, p2} {
		if got := p.X*cos + p.Y*sin; !nearlyEqual(got, rho, 1e-6) {
			t.Errorf("endpoint %v off line: got rho %v, want %v", p, got, rho)
		}
	}

	// The same family dropped once the top-edge crossing passes the right
	// side of the rectangle.
	if _, _, ok := ClipLine(Line{Rho: 500, Theta: theta}, 0, 0, 100, 100); ok {
		t.Error("ClipLine(rho=500) = ok, want no intersection")
	}
}

func TestClipLineOffsetApplied(t *testing.T) {
	base1, base2, ok := ClipLine(Line{Rho: 20, Theta: 0.7}, 0, 0, 60, 50)
	if !ok {
		t.Fatal("ClipLine() reported no intersection")
	}
	off1, off2, ok := ClipLine(Line{Rho: 20, Theta: 0.7}, 300, 120, 60, 50)
	if !ok {
		t.Fatal("ClipLine() with offset reported no intersection")
	}
	want1 := base1.Add(Pt(300, 120))
	want2 := base2.Add(Pt(300, 120))
	const eps = 1e-12
	if !nearlyEqual(off1.X, want1.X, eps) || !nearlyEqual(off1.Y, want1.Y, eps) ||
		!nearlyEqual(off2.X, want2.X, eps) || !nearlyEqual(off2.Y, want2.Y, eps) {
		t.Errorf("offset segment %v-%v, want %v-%v", off1, off2, want1, want2)
	}
}
