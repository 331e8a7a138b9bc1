// Command gridlens shows a live camera feed with sudoku grid detection.
// The window pairs the annotated feed with a side panel holding the most
// recently located grid, straightened and scaled to fill the panel.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/gridlens/gridlens"
	"github.com/gridlens/gridlens/app"
	"github.com/gridlens/gridlens/camera"
	"github.com/gridlens/gridlens/detect"
	"github.com/gridlens/gridlens/driver"
	_ "github.com/gridlens/gridlens/driver/gldriver"
	_ "github.com/gridlens/gridlens/driver/softdriver"
	"github.com/gridlens/gridlens/overlay"
	"github.com/gridlens/gridlens/render"
)

// The GL backend needs the main goroutine pinned to its OS thread before
// any window work happens.
func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		devicePath = flag.String("device", "/dev/video0", "V4L2 capture device")
		camWidth   = flag.Int("width", 640, "requested capture width")
		camHeight  = flag.Int("height", 480, "requested capture height")
		edgeRadius = flag.Float64("edge-radius", app.DefaultEdgeRadius, "edge detector blur radius")
		driverName = flag.String("driver", "", "graphics driver (gl, software; empty picks the best available)")
		heat       = flag.Bool("heat", false, "tint the vote preview with a heat palette")
		verbose    = flag.Bool("v", false, "log diagnostics to stderr")
	)
	flag.Parse()

	if *verbose {
		gridlens.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	winWidth := 800 + app.DefaultPatchWidth
	winHeight := 600
	opts := driver.Options{Title: "gridlens", Width: winWidth, Height: winHeight}

	var (
		dev driver.Device
		err error
	)
	if *driverName != "" {
		dev, err = driver.NewDeviceByName(*driverName, opts)
	} else {
		dev, err = driver.NewDevice(opts)
	}
	if err != nil {
		log.Fatalf("gridlens: open window: %v", err)
	}
	defer dev.Close()

	renderer, err := render.New(dev, winWidth, winHeight)
	if err != nil {
		log.Fatalf("gridlens: renderer: %v", err)
	}
	defer renderer.Release()

	cam, err := camera.Open(ctx, *devicePath, *camWidth, *camHeight)
	if err != nil {
		log.Fatalf("gridlens: camera %s: %v", *devicePath, err)
	}
	defer cam.Close()

	var composerOpts []overlay.Option
	if *heat {
		composerOpts = append(composerOpts, overlay.WithHeatPreview())
	}

	loop, err := app.New(app.Config{
		Device:     dev,
		Renderer:   renderer,
		Source:     cam,
		Finder:     new(detect.Finder),
		Composer:   overlay.New(renderer, composerOpts...),
		Width:      winWidth,
		Height:     winHeight,
		EdgeRadius: *edgeRadius,
	})
	if err != nil {
		log.Fatalf("gridlens: %v", err)
	}

	if err := loop.Run(ctx); err != nil {
		log.Fatalf("gridlens: %v", err)
	}
}
