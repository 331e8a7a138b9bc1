package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/driver"
	"github.com/gridlens/gridlens/overlay"
	"github.com/gridlens/gridlens/render"
	"github.com/gridlens/gridlens/vision"
)

// Defaults for Config fields left zero.
const (
	DefaultPatchWidth = 600
	DefaultEdgeRadius = 5.0
	DefaultHoughScale = 0.75
)

// ErrConfig is returned by New when a required collaborator is missing.
var ErrConfig = errors.New("app: incomplete configuration")

// FrameSource supplies camera frames.
type FrameSource interface {
	CaptureFrameRGB(img *gridlens.Image) error
}

// GridFinder locates the grid control points in a Hough accumulator and
// exposes its intermediate collections for the debug overlays.
type GridFinder interface {
	Find(width, height float64, acc *vision.Accumulator) ([]gridlens.Point, bool)
	Lines() []gridlens.Line
	Clusters() []gridlens.LineCluster
	GridClusters() []gridlens.LineCluster
}

// Toggles holds the four debug-overlay switches, flipped by key presses.
type Toggles struct {
	HoughPreview bool
	Lines        bool
	Clusters     bool
	GridClusters bool
}

// Config wires a Loop together. Device, Renderer, Source, Finder, and
// Composer are required; zero sizes and rates fall back to the package
// defaults.
type Config struct {
	Device   driver.Device
	Renderer *render.Renderer
	Source   FrameSource
	Finder   GridFinder
	Composer *overlay.Composer

	// Width and Height are the window dimensions in pixels.
	Width  int
	Height int

	// PatchWidth is the edge length of the square extracted-grid panel
	// on the right side of the window.
	PatchWidth int

	// EdgeRadius is the blur radius of the edge detector.
	EdgeRadius float64

	// HoughScale scales the accumulator preview overlay.
	HoughScale float64
}

// Loop drives the capture, detect, composite, present cycle. Create one
// with New and run it with Run on the main OS thread.
type Loop struct {
	cfg     Config
	edge    vision.EdgeDetector
	toggles Toggles
	hadGrid bool

	frame  gridlens.Image
	grey   gridlens.Image
	edges  gridlens.Image
	merged gridlens.Image
	patch  gridlens.Image
	acc    vision.Accumulator
}

// New validates cfg and creates a Loop.
func New(cfg Config) (*Loop, error) {
	switch {
	case cfg.Device == nil:
		return nil, fmt.Errorf("%w: no device", ErrConfig)
	case cfg.Renderer == nil:
		return nil, fmt.Errorf("%w: no renderer", ErrConfig)
	case cfg.Source == nil:
		return nil, fmt.Errorf("%w: no frame source", ErrConfig)
	case cfg.Finder == nil:
		return nil, fmt.Errorf("%w: no finder", ErrConfig)
	case cfg.Composer == nil:
		return nil, fmt.Errorf("%w: no composer", ErrConfig)
	}

	if cfg.PatchWidth == 0 {
		cfg.PatchWidth = DefaultPatchWidth
	}
	if cfg.EdgeRadius == 0 {
		cfg.EdgeRadius = DefaultEdgeRadius
	}
	if cfg.HoughScale == 0 {
		cfg.HoughScale = DefaultHoughScale
	}
	if cfg.Width == 0 {
		cfg.Width = 800 + cfg.PatchWidth
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}

	return &Loop{
		cfg:  cfg,
		edge: vision.EdgeDetector{Radius: cfg.EdgeRadius},
	}, nil
}

// Toggles returns the current overlay toggle state.
func (l *Loop) Toggles() Toggles {
	return l.toggles
}

// Run iterates until the window is asked to close, returning nil, or
// until the first error from capture, drawing, or the backend. Context
// cancellation is observed at the top of each iteration.
func (l *Loop) Run(ctx context.Context) error {
	gridlens.Logger().Info("frame loop running",
		"width", l.cfg.Width,
		"height", l.cfg.Height,
		"patch", l.cfg.PatchWidth)

	win := l.cfg.Device.Window()
	for !win.CloseRequested() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.iterate(win); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) iterate(win driver.Window) error {
	for _, ev := range win.DrainEvents() {
		if ev.Action != driver.Press {
			continue
		}
		switch ev.Key {
		case driver.KeyEscape:
			win.RequestClose()
		case driver.Key0:
			l.toggles.HoughPreview = !l.toggles.HoughPreview
		case driver.Key1:
			l.toggles.Lines = !l.toggles.Lines
		case driver.Key2:
			l.toggles.Clusters = !l.toggles.Clusters
		case driver.Key3:
			l.toggles.GridClusters = !l.toggles.GridClusters
		}
	}

	if err := l.cfg.Source.CaptureFrameRGB(&l.frame); err != nil {
		return fmt.Errorf("app: capture: %w", err)
	}

	regionWidth := float64(l.cfg.Width - l.cfg.PatchWidth)
	regionHeight := float64(l.cfg.Height)
	displayX, displayY, displayWidth, displayHeight := gridlens.FitRect(
		regionWidth, regionHeight, float64(l.frame.Width()), float64(l.frame.Height()))

	vision.Greyscale(&l.frame, &l.grey)
	l.edge.Detect(&l.grey, &l.edges)
	vision.BlendAdd(&l.frame, &l.edges, &l.merged)
	vision.HoughTransform(&l.edges, &l.acc)

	points, found := l.cfg.Finder.Find(displayWidth, displayHeight, &l.acc)
	if found != l.hadGrid {
		l.hadGrid = found
		if found {
			gridlens.Logger().Debug("grid found", "lines", len(l.cfg.Finder.Lines()))
		} else {
			gridlens.Logger().Debug("grid lost")
		}
	}
	if found {
		_, err := l.cfg.Renderer.ExtractImage(&l.frame, points,
			1/displayWidth, 1/displayHeight,
			&l.patch, l.cfg.PatchWidth, l.cfg.PatchWidth)
		if err != nil {
			return fmt.Errorf("app: extract: %w", err)
		}
	}

	l.cfg.Device.Clear()
	if err := l.cfg.Renderer.DrawImage(displayX, displayY, displayWidth, displayHeight, &l.merged); err != nil {
		return fmt.Errorf("app: draw frame: %w", err)
	}
	if err := l.cfg.Renderer.DrawImage(float64(l.cfg.Width-l.cfg.PatchWidth), 0,
		float64(l.cfg.PatchWidth), float64(l.cfg.PatchWidth), &l.patch); err != nil {
		return fmt.Errorf("app: draw patch: %w", err)
	}

	if err := l.drawOverlays(displayX, displayY, displayWidth, displayHeight, regionWidth, regionHeight); err != nil {
		return err
	}

	if err := l.cfg.Device.Err(); err != nil {
		return fmt.Errorf("app: backend: %w", err)
	}
	win.Present()
	return nil
}

func (l *Loop) drawOverlays(x, y, width, height, regionWidth, regionHeight float64) error {
	if l.toggles.Lines {
		if err := l.cfg.Composer.DrawLines(x, y, width, height, l.cfg.Finder.Lines(), 10, 10, 10); err != nil {
			return fmt.Errorf("app: draw lines: %w", err)
		}
	}
	if l.toggles.Clusters {
		if err := l.drawSortedClusters(x, y, width, height, l.cfg.Finder.Clusters()); err != nil {
			return fmt.Errorf("app: draw clusters: %w", err)
		}
	}
	if l.toggles.GridClusters {
		if err := l.drawSortedClusters(x, y, width, height, l.cfg.Finder.GridClusters()); err != nil {
			return fmt.Errorf("app: draw grid clusters: %w", err)
		}
	}
	if l.toggles.HoughPreview {
		if err := l.cfg.Composer.DrawAccumulator(regionWidth, regionHeight, &l.acc, l.cfg.HoughScale); err != nil {
			return fmt.Errorf("app: draw accumulator: %w", err)
		}
	}
	return nil
}

// drawSortedClusters orders clusters by ascending mean angle before
// drawing, keeping palette assignment stable from frame to frame.
func (l *Loop) drawSortedClusters(x, y, width, height float64, clusters []gridlens.LineCluster) error {
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].MeanTheta() < clusters[j].MeanTheta()
	})
	return l.cfg.Composer.DrawClusters(x, y, width, height, clusters)
}
