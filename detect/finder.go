package detect

import (
	"math"
	"sort"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/vision"
)

const (
	// maxLines caps how many accumulator peaks become candidate lines.
	maxLines = 60

	// peakWindow is the local-maximum neighborhood radius in bins. A
	// cell is a peak only when no cell within the window outvotes it.
	peakWindow = 4

	// peakFraction sets the vote threshold relative to the strongest
	// cell.
	peakFraction = 0.3

	// clusterThetaTol and clusterRhoFraction bound how far a line may
	// sit from a cluster's strongest member and still describe the same
	// physical grid line. The rho tolerance scales with the display
	// width.
	clusterThetaTol    = math.Pi / 36
	clusterRhoFraction = 0.02

	// minCornerFraction rejects grids whose outer corners sit closer
	// together than this fraction of the display width.
	minCornerFraction = 0.2
)

// Finder detects a grid in a Hough accumulator. The zero value is ready
// to use. A Finder is not safe for concurrent use; each call to Find
// replaces the debug collections returned by Lines, Clusters, and
// GridClusters.
type Finder struct {
	lines        []gridlens.Line
	clusters     []gridlens.LineCluster
	gridClusters []gridlens.LineCluster
}

// Lines returns the candidate lines of the last Find, in display
// coordinates, strongest first. Valid until the next call.
func (f *Finder) Lines() []gridlens.Line {
	return f.lines
}

// Clusters returns the line clusters of the last Find. Valid until the
// next call.
func (f *Finder) Clusters() []gridlens.LineCluster {
	return f.clusters
}

// GridClusters returns the clusters of the last Find that fell into the
// two orientation families considered part of a possible grid. Valid
// until the next call.
func (f *Finder) GridClusters() []gridlens.LineCluster {
	return f.gridClusters
}

// Find searches acc for a grid and returns its 16 control points in
// display coordinates: the accumulator's source image scaled uniformly
// to width x height. Points are row-major top to bottom, left to right
// within a row. found is false when no plausible grid is present; the
// debug collections still reflect however far detection got.
func (f *Finder) Find(width, height float64, acc *vision.Accumulator) (points []gridlens.Point, found bool) {
	f.lines = f.lines[:0]
	f.clusters = f.clusters[:0]
	f.gridClusters = f.gridClusters[:0]

	if acc == nil || acc.Img == nil || acc.Img.Empty() || acc.SrcWidth <= 0 || width <= 0 || height <= 0 {
		return nil, false
	}

	f.lines = peakLines(f.lines, acc, width/float64(acc.SrcWidth))
	if len(f.lines) == 0 {
		return nil, false
	}

	f.clusters = clusterLines(f.clusters, f.lines, width*clusterRhoFraction)
	if len(f.clusters) < 8 {
		return nil, false
	}

	rows, cols, ok := splitFamilies(f.clusters)
	if !ok {
		return nil, false
	}
	f.gridClusters = append(f.gridClusters, rows...)
	f.gridClusters = append(f.gridClusters, cols...)

	rowLines := pickSpread(rows, func(l gridlens.Line) float64 {
		// Vertical position at the display's horizontal center.
		return (l.Rho - width/2*math.Cos(l.Theta)) / math.Sin(l.Theta)
	})
	colLines := pickSpread(cols, func(l gridlens.Line) float64 {
		// Horizontal position at the display's vertical center.
		return (l.Rho - height/2*math.Sin(l.Theta)) / math.Cos(l.Theta)
	})

	points = make([]gridlens.Point, 0, 16)
	for _, row := range rowLines {
		for _, col := range colLines {
			p, ok := intersect(col, row)
			if !ok {
				return nil, false
			}
			points = append(points, p)
		}
	}

	if !validGrid(points, width, height) {
		return nil, false
	}
	return points, true
}

// peakLines scans the accumulator for cells that beat the vote threshold
// and every cell in their neighborhood window, and converts them to
// display-space lines, strongest first.
func peakLines(dst []gridlens.Line, acc *vision.Accumulator, scale float64) []gridlens.Line {
	max := acc.MaxCount()
	if max == 0 {
		return dst
	}
	threshold := uint16(math.Ceil(peakFraction * float64(max)))

	type peak struct {
		thetaBin, rhoBin int
		votes            uint16
	}
	var peaks []peak
	for rb := 0; rb < vision.RhoBins; rb++ {
		for tb := 0; tb < vision.ThetaBins; tb++ {
			votes := acc.Count(tb, rb)
			if votes < threshold {
				continue
			}
			if !localMax(acc, tb, rb, votes) {
				continue
			}
			peaks = append(peaks, peak{thetaBin: tb, rhoBin: rb, votes: votes})
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		if peaks[i].thetaBin != peaks[j].thetaBin {
			return peaks[i].thetaBin < peaks[j].thetaBin
		}
		return peaks[i].rhoBin < peaks[j].rhoBin
	})
	if len(peaks) > maxLines {
		peaks = peaks[:maxLines]
	}

	for _, p := range peaks {
		line := acc.LineAt(p.thetaBin, p.rhoBin)
		line.Rho *= scale
		dst = append(dst, line)
	}
	return dst
}

// localMax reports whether no cell within the peak window outvotes the
// given cell. The window clamps at the accumulator edges.
func localMax(acc *vision.Accumulator, thetaBin, rhoBin int, votes uint16) bool {
	for dr := -peakWindow; dr <= peakWindow; dr++ {
		for dt := -peakWindow; dt <= peakWindow; dt++ {
			if acc.Count(thetaBin+dt, rhoBin+dr) > votes {
				return false
			}
		}
	}
	return true
}

// clusterLines groups lines that describe the same physical grid line.
// Lines arrive strongest first; each joins the first cluster whose
// strongest member is within tolerance, or starts its own. Because theta
// wraps at pi with rho negating, a line is first re-expressed relative
// to the cluster representative before comparing.
func clusterLines(dst []gridlens.LineCluster, lines []gridlens.Line, rhoTol float64) []gridlens.LineCluster {
	for _, line := range lines {
		placed := false
		for i := range dst {
			rep := dst[i][0]
			dTheta := line.Theta - rep.Theta
			rho := line.Rho
			if dTheta > math.Pi/2 {
				dTheta -= math.Pi
				rho = -rho
			} else if dTheta < -math.Pi/2 {
				dTheta += math.Pi
				rho = -rho
			}
			if math.Abs(dTheta) <= clusterThetaTol && math.Abs(rho-rep.Rho) <= rhoTol {
				dst[i] = append(dst[i], gridlens.Line{Rho: rho, Theta: rep.Theta + dTheta})
				placed = true
				break
			}
		}
		if !placed {
			dst = append(dst, gridlens.LineCluster{line})
		}
	}
	return dst
}

// splitFamilies divides the clusters into two orientation families by
// cutting the circle of mean angles (mod pi) at its two largest gaps.
// The family whose mean direction lies nearer pi/2 holds the grid rows.
// ok is false unless both families have at least four clusters.
func splitFamilies(clusters []gridlens.LineCluster) (rows, cols []gridlens.LineCluster, ok bool) {
	n := len(clusters)
	order := make([]int, n)
	thetas := make([]float64, n)
	for i, c := range clusters {
		order[i] = i
		theta := math.Mod(c.MeanTheta(), math.Pi)
		if theta < 0 {
			theta += math.Pi
		}
		thetas[i] = theta
	}
	sort.Slice(order, func(i, j int) bool { return thetas[order[i]] < thetas[order[j]] })

	// Largest circular gap; the sequence then rotates to start right
	// after it, unwrapping the seam.
	cut := n - 1
	largest := thetas[order[0]] + math.Pi - thetas[order[n-1]]
	for i := 0; i < n-1; i++ {
		if gap := thetas[order[i+1]] - thetas[order[i]]; gap > largest {
			largest = gap
			cut = i
		}
	}
	unwrapped := make([]float64, n)
	for i := 0; i < n; i++ {
		j := order[(cut+1+i)%n]
		unwrapped[i] = thetas[j]
		if cut+1+i >= n {
			unwrapped[i] += math.Pi
		}
	}

	// Second cut at the largest remaining internal gap.
	split := 0
	largest = -1
	for i := 0; i < n-1; i++ {
		if gap := unwrapped[i+1] - unwrapped[i]; gap > largest {
			largest = gap
			split = i
		}
	}

	var a, b []gridlens.LineCluster
	meanA, meanB := 0.0, 0.0
	for i := 0; i < n; i++ {
		c := clusters[order[(cut+1+i)%n]]
		if i <= split {
			a = append(a, c)
			meanA += unwrapped[i]
		} else {
			b = append(b, c)
			meanB += unwrapped[i]
		}
	}
	if len(a) < 4 || len(b) < 4 {
		return nil, nil, false
	}
	meanA = math.Mod(meanA/float64(len(a)), math.Pi)
	meanB = math.Mod(meanB/float64(len(b)), math.Pi)

	if math.Abs(meanA-math.Pi/2) <= math.Abs(meanB-math.Pi/2) {
		return a, b, true
	}
	return b, a, true
}

// pickSpread sorts a family by the position of each cluster's strongest
// line and returns four evenly spread representatives, outermost lines
// included.
func pickSpread(family []gridlens.LineCluster, position func(gridlens.Line) float64) [4]gridlens.Line {
	sorted := make([]gridlens.Line, len(family))
	for i, c := range family {
		sorted[i] = c[0]
	}
	sort.Slice(sorted, func(i, j int) bool { return position(sorted[i]) < position(sorted[j]) })

	var picked [4]gridlens.Line
	n := len(sorted)
	for k := 0; k < 4; k++ {
		idx := int(math.Round(float64(k) * float64(n-1) / 3))
		picked[k] = sorted[idx]
	}
	return picked
}

// intersect solves the two-line system in Hesse normal form. ok is false
// for near-parallel lines.
func intersect(a, b gridlens.Line) (gridlens.Point, bool) {
	sinA, cosA := math.Sincos(a.Theta)
	sinB, cosB := math.Sincos(b.Theta)
	det := cosA*sinB - sinA*cosB
	if math.Abs(det) < 1e-9 {
		return gridlens.Point{}, false
	}
	return gridlens.Point{
		X: (a.Rho*sinB - b.Rho*sinA) / det,
		Y: (cosA*b.Rho - cosB*a.Rho) / det,
	}, true
}

// validGrid checks that every control point is on the display and that
// the four outer corners are spread far enough apart to be a real grid.
func validGrid(points []gridlens.Point, width, height float64) bool {
	for _, p := range points {
		if p.X < 0 || p.X > width || p.Y < 0 || p.Y > height {
			return false
		}
	}
	minDistance := width * minCornerFraction
	corners := []gridlens.Point{points[0], points[3], points[12], points[15]}
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if corners[i].Distance(corners[j]) < minDistance {
				return false
			}
		}
	}
	return true
}
