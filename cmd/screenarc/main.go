package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/xug776576-maker/screenarc-fork/internal/capture"
	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/export"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "record":
		err = runRecord(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, export.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Export cancelled.")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(`
Usage:
  screenarc record [-dir DIR] [-fps N]
  screenarc export -in VIDEO [-meta FILE] [-edits FILE] [-webcam VIDEO] -out FILE
  screenarc preview -in VIDEO -at SECONDS -out FILE.png
`))
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runRecord(args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	dir := fs.String("dir", "recordings", "directory for recorded sessions")
	fps := fs.Int("fps", 30, "capture frame rate")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	log := newLogger(*verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Recording... press Ctrl+C to stop.")
	session, err := capture.NewRecorder(*fps, log).Record(ctx, *dir)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", session.VideoPath)
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	in := fs.String("in", "", "recorded screen video (required)")
	metaPath := fs.String("meta", "", "metadata sidecar (default: video path with .json)")
	editsPath := fs.String("edits", "", "edit list JSON")
	webcam := fs.String("webcam", "", "webcam video to overlay")
	out := fs.String("out", "", "output file (required)")
	configPath := fs.String("config", "screenarc.toml", "style configuration")
	format := fs.String("format", "", "output format: mp4 or gif")
	resolution := fs.String("resolution", "", "output resolution: 720p, 1080p or 2k")
	quality := fs.String("quality", "", "bitrate tier: low, medium or high")
	fps := fs.Int("fps", 0, "output frame rate")
	dpiScale := fs.Float64("dpi-scale", 1, "capture DPI scale correction")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *in == "" || *out == "" {
		fs.Usage()
		return fmt.Errorf("-in and -out are required")
	}

	log := newLogger(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	settings := export.SettingsFromConfig(cfg.Export, *out)
	if *format != "" {
		settings.Format = export.Format(*format)
	}
	if *resolution != "" {
		settings.Resolution = export.Resolution(*resolution)
	}
	if *quality != "" {
		settings.Quality = export.Quality(*quality)
	}
	if *fps > 0 {
		settings.FPS = *fps
	}

	side := *metaPath
	if side == "" {
		side = strings.TrimSuffix(*in, ".mp4") + ".json"
	}
	meta, events, err := timeline.LoadMetadata(side, *dpiScale)
	if err != nil {
		return err
	}

	regions := timeline.NewRegions()
	if *editsPath != "" {
		regions, err = timeline.LoadEdits(*editsPath)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := export.Job{
		MainPath:   *in,
		WebcamPath: *webcam,
		Meta:       meta,
		Events:     events,
		Regions:    regions,
	}
	reporter := export.NewProgressBar("Exporting")
	return export.NewExporter(cfg, settings, reporter, log).Run(ctx, job)
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	in := fs.String("in", "", "recorded screen video (required)")
	metaPath := fs.String("meta", "", "metadata sidecar (default: video path with .json)")
	editsPath := fs.String("edits", "", "edit list JSON")
	webcam := fs.String("webcam", "", "webcam video to overlay")
	out := fs.String("out", "preview.png", "output still")
	configPath := fs.String("config", "screenarc.toml", "style configuration")
	resolution := fs.String("resolution", "", "output resolution: 720p, 1080p or 2k")
	at := fs.Float64("at", 0, "timestamp on the edited timeline, seconds")
	dpiScale := fs.Float64("dpi-scale", 1, "capture DPI scale correction")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *in == "" {
		fs.Usage()
		return fmt.Errorf("-in is required")
	}

	log := newLogger(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	settings := export.SettingsFromConfig(cfg.Export, *out)
	if *resolution != "" {
		settings.Resolution = export.Resolution(*resolution)
	}

	side := *metaPath
	if side == "" {
		side = strings.TrimSuffix(*in, ".mp4") + ".json"
	}
	meta, events, err := timeline.LoadMetadata(side, *dpiScale)
	if err != nil {
		return err
	}

	regions := timeline.NewRegions()
	if *editsPath != "" {
		regions, err = timeline.LoadEdits(*editsPath)
		if err != nil {
			return err
		}
	}

	img, err := export.RenderFrameAt(export.Job{
		MainPath:   *in,
		WebcamPath: *webcam,
		Meta:       meta,
		Events:     events,
		Regions:    regions,
	}, cfg, settings, *at, log)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", *out)
	return nil
}
