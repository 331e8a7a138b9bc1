package detect

import (
	"encoding/binary"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/vision"
)

func testAccumulator(srcWidth, srcHeight int) *vision.Accumulator {
	return &vision.Accumulator{
		Img:       gridlens.NewImage(vision.ThetaBins, vision.RhoBins),
		SrcWidth:  srcWidth,
		SrcHeight: srcHeight,
	}
}

func pokeCell(acc *vision.Accumulator, thetaBin, rhoBin int, votes uint16) {
	pix := acc.Img.Data()
	binary.LittleEndian.PutUint16(pix[(rhoBin*vision.ThetaBins+thetaBin)*3:], votes)
}

func rhoBinFor(rho float64, srcWidth, srcHeight int) int {
	diagonal := math.Hypot(float64(srcWidth), float64(srcHeight))
	return int((rho + diagonal) * vision.RhoBins / (2 * diagonal))
}

func TestFindDetectsDrawnGrid(t *testing.T) {
	const size = 200
	edges := gridlens.NewImage(size, size)
	xs := []int{40, 80, 120, 160}
	ys := []int{30, 70, 110, 150}
	for _, x := range xs {
		for y := 0; y < size; y++ {
			edges.SetRGB(x, y, 255, 255, 255)
		}
	}
	for _, y := range ys {
		for x := 0; x < size; x++ {
			edges.SetRGB(x, y, 255, 255, 255)
		}
	}

	var acc vision.Accumulator
	vision.HoughTransform(edges, &acc)

	var f Finder
	points, found := f.Find(size, size, &acc)
	if !found {
		t.Fatal("Find did not detect the drawn grid")
	}
	if len(points) != 16 {
		t.Fatalf("len(points) = %d, want 16", len(points))
	}

	// Control points are row-major from the top-left intersection.
	const tol = 4.0
	for r, y := range ys {
		for c, x := range xs {
			got := points[r*4+c]
			if math.Abs(got.X-float64(x)) > tol || math.Abs(got.Y-float64(y)) > tol {
				t.Errorf("points[%d] = (%.1f, %.1f), want near (%d, %d)", r*4+c, got.X, got.Y, x, y)
			}
		}
	}

	if len(f.Lines()) < 8 {
		t.Errorf("len(Lines()) = %d, want at least 8", len(f.Lines()))
	}
	if len(f.Clusters()) < 8 {
		t.Errorf("len(Clusters()) = %d, want at least 8", len(f.Clusters()))
	}
	if len(f.GridClusters()) < 8 {
		t.Errorf("len(GridClusters()) = %d, want at least 8", len(f.GridClusters()))
	}
}

func TestFindDetectsRotatedGrid(t *testing.T) {
	const size = 200
	grid := gridlens.NewImage(size, size)
	for _, x := range []int{40, 80, 120, 160} {
		for y := 0; y < size; y++ {
			grid.SetRGB(x, y, 255, 255, 255)
		}
	}
	for _, y := range []int{30, 70, 110, 150} {
		for x := 0; x < size; x++ {
			grid.SetRGB(x, y, 255, 255, 255)
		}
	}
	edges := gridlens.FromImage(imaging.Rotate(grid, 10, color.NRGBA{}))

	var acc vision.Accumulator
	vision.HoughTransform(edges, &acc)

	width := float64(edges.Width())
	height := float64(edges.Height())

	var f Finder
	points, found := f.Find(width, height, &acc)
	if !found {
		t.Fatal("Find did not detect the rotated grid")
	}
	if len(points) != 16 {
		t.Fatalf("len(points) = %d, want 16", len(points))
	}

	// Rotation preserves the mesh spacing: three 40px cells along the top
	// row and down the first column.
	const tol = 10.0
	if d := points[0].Distance(points[3]); math.Abs(d-120) > tol {
		t.Errorf("top row span = %.1f, want near 120", d)
	}
	if d := points[0].Distance(points[12]); math.Abs(d-120) > tol {
		t.Errorf("first column span = %.1f, want near 120", d)
	}

	// The mesh centroid sits 10px from the canvas center before and after
	// rotation.
	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	cx /= 16
	cy /= 16
	if d := math.Hypot(cx-width/2, cy-height/2); d > 16 {
		t.Errorf("mesh centroid %.1f px from the canvas center, want about 10", d)
	}
}

func TestFindEmptyAccumulator(t *testing.T) {
	var f Finder

	if _, found := f.Find(200, 200, nil); found {
		t.Error("found a grid in a nil accumulator")
	}
	if _, found := f.Find(200, 200, &vision.Accumulator{}); found {
		t.Error("found a grid in a zero accumulator")
	}
	if _, found := f.Find(200, 200, testAccumulator(200, 200)); found {
		t.Error("found a grid in an accumulator with no votes")
	}
}

func TestFindSingleDirection(t *testing.T) {
	acc := testAccumulator(200, 200)
	for _, x := range []float64{40, 80, 120, 160} {
		pokeCell(acc, 0, rhoBinFor(x, 200, 200), 200)
	}

	var f Finder
	if _, found := f.Find(200, 200, acc); found {
		t.Error("found a grid with lines in only one direction")
	}
	if got := len(f.Clusters()); got != 4 {
		t.Errorf("len(Clusters()) = %d, want 4", got)
	}
}

func TestFindRejectsSmallGrid(t *testing.T) {
	acc := testAccumulator(200, 200)
	for _, x := range []float64{85, 95, 105, 115} {
		pokeCell(acc, 0, rhoBinFor(x, 200, 200), 200)
	}
	for _, y := range []float64{85, 95, 105, 115} {
		pokeCell(acc, 180, rhoBinFor(y, 200, 200), 200)
	}

	var f Finder
	if _, found := f.Find(200, 200, acc); found {
		t.Error("found a grid whose corners are too close together")
	}
}

func TestFindRejectsOffDisplayGrid(t *testing.T) {
	acc := testAccumulator(200, 200)
	for _, x := range []float64{20, 80, 140, 260} {
		pokeCell(acc, 0, rhoBinFor(x, 200, 200), 200)
	}
	for _, y := range []float64{30, 70, 110, 150} {
		pokeCell(acc, 180, rhoBinFor(y, 200, 200), 200)
	}

	var f Finder
	if _, found := f.Find(200, 200, acc); found {
		t.Error("found a grid with a corner outside the display")
	}
}

func TestFindResetsDebugState(t *testing.T) {
	acc := testAccumulator(200, 200)
	for _, x := range []float64{40, 80, 120, 160} {
		pokeCell(acc, 0, rhoBinFor(x, 200, 200), 200)
	}

	var f Finder
	f.Find(200, 200, acc)
	if len(f.Lines()) == 0 {
		t.Fatal("no candidate lines after a vote-filled accumulator")
	}

	f.Find(200, 200, testAccumulator(200, 200))
	if len(f.Lines()) != 0 || len(f.Clusters()) != 0 {
		t.Error("debug collections kept stale entries across calls")
	}
}

func TestSplitFamiliesAcrossSeam(t *testing.T) {
	mk := func(theta float64) gridlens.LineCluster {
		return gridlens.LineCluster{{Rho: 50, Theta: theta}}
	}
	// Column lines straddle the theta wrap at pi; row lines sit near
	// pi/2.
	clusters := []gridlens.LineCluster{
		mk(0.05), mk(1.50), mk(3.10), mk(1.55),
		mk(0.08), mk(1.60), mk(3.12), mk(1.65),
	}

	rows, cols, ok := splitFamilies(clusters)
	if !ok {
		t.Fatal("splitFamilies rejected two clean families")
	}
	if len(rows) != 4 || len(cols) != 4 {
		t.Fatalf("family sizes = %d and %d, want 4 and 4", len(rows), len(cols))
	}
	for _, c := range rows {
		if d := math.Abs(c.MeanTheta() - math.Pi/2); d > 0.2 {
			t.Errorf("row cluster with theta %.2f, want near pi/2", c.MeanTheta())
		}
	}
}

func TestClusterLinesMergesWrappedTheta(t *testing.T) {
	// The same physical line reported from both sides of the theta seam:
	// rho negates across the wrap.
	lines := []gridlens.Line{
		{Rho: 100, Theta: 0.01},
		{Rho: -100, Theta: 3.13},
	}

	clusters := clusterLines(nil, lines, 5)
	if len(clusters) != 1 {
		t.Fatalf("len(clusters) = %d, want 1 merged cluster", len(clusters))
	}
	if len(clusters[0]) != 2 {
		t.Fatalf("cluster size = %d, want 2", len(clusters[0]))
	}
}

func TestIntersect(t *testing.T) {
	vertical := gridlens.Line{Rho: 40, Theta: 0}
	horizontal := gridlens.Line{Rho: 30, Theta: math.Pi / 2}

	p, ok := intersect(vertical, horizontal)
	if !ok {
		t.Fatal("intersect rejected perpendicular lines")
	}
	if math.Abs(p.X-40) > 1e-9 || math.Abs(p.Y-30) > 1e-9 {
		t.Errorf("intersection = (%g, %g), want (40, 30)", p.X, p.Y)
	}

	if _, ok := intersect(vertical, gridlens.Line{Rho: 80, Theta: 0}); ok {
		t.Error("intersect accepted parallel lines")
	}
}
