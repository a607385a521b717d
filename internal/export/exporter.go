package export

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xug776576-maker/screenarc-fork/internal/audio"
	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/media"
	"github.com/xug776576-maker/screenarc-fork/internal/render"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
	"github.com/xug776576-maker/screenarc-fork/internal/transform"
)

// Job names the inputs of one export run.
type Job struct {
	MainPath   string
	WebcamPath string // optional
	Meta       *timeline.Metadata
	Events     *timeline.EventLog
	Regions    *timeline.Regions
}

// Exporter renders an edited recording to a video file.
type Exporter struct {
	cfg      *config.Config
	settings Settings
	reporter ProgressReporter
	log      *slog.Logger
}

func NewExporter(cfg *config.Config, settings Settings, reporter ProgressReporter, log *slog.Logger) *Exporter {
	if reporter == nil {
		reporter = &LogReporter{Log: log}
	}
	return &Exporter{
		cfg:      cfg,
		settings: settings,
		reporter: reporter,
		log:      log,
	}
}

// Run renders the full timeline and writes the output file. A cancelled
// context aborts the encoder, removes the partial output and returns
// ErrCancelled. Losing the audio track degrades the run with a warning;
// losing the main video stream aborts it.
func (e *Exporter) Run(ctx context.Context, job Job) error {
	if err := e.settings.Validate(); err != nil {
		return fatalf(err)
	}

	mainInfo, err := media.Probe(job.MainPath)
	if err != nil {
		return fatalf(fmt.Errorf("failed to probe recording: %w", err))
	}

	var webcamInfo media.StreamInfo
	hasWebcam := job.WebcamPath != ""
	if hasWebcam {
		webcamInfo, err = media.Probe(job.WebcamPath)
		if err != nil {
			// A broken webcam track degrades the export, it does not abort it.
			e.log.Warn("failed to probe webcam track, exporting without it", "error", err)
			hasWebcam = false
		}
	}

	width, height := OutputSize(e.settings.Resolution, mainInfo.AspectRatio())
	segs := job.Regions.Segments(mainInfo.Duration)

	audioPath, audioCleanup, err := e.prepareAudio(ctx, job.MainPath, mainInfo, segs)
	if err != nil {
		return err
	}
	defer audioCleanup()

	cursors, err := render.PrepareAll(job.Meta.Platform, job.Meta.CursorImages)
	if err != nil {
		return fatalf(fmt.Errorf("failed to prepare cursor bitmaps: %w", err))
	}

	comp, err := render.NewCompositor(width, height, mainInfo.AspectRatio(), e.cfg, job.Meta.Geometry, job.Events, cursors, e.log)
	if err != nil {
		return fatalf(err)
	}
	engine := transform.NewEngine(job.Regions, job.Events, job.Meta.Geometry, e.cfg.Smoothing)

	mainSrc, err := media.NewFrameSource(job.MainPath)
	if err != nil {
		return fatalf(fmt.Errorf("failed to open recording: %w", err))
	}
	defer mainSrc.Close()

	var webcamSrc *media.FrameSource
	var webcamScale float64
	if hasWebcam {
		webcamSrc, err = media.NewFrameSource(job.WebcamPath)
		if err != nil {
			e.log.Warn("failed to open webcam track, exporting without it", "error", err)
		} else {
			defer webcamSrc.Close()
			// Webcam and screen tracks drift slightly in length; map screen
			// time onto the webcam clock proportionally.
			webcamScale = webcamInfo.Duration / mainInfo.Duration
		}
	}

	enc, err := NewEncoder(EncoderConfig{
		Width:       width,
		Height:      height,
		FPS:         e.settings.FPS,
		Format:      e.settings.Format,
		BitrateKbps: Bitrate(height, e.settings.Quality, e.settings.FPS),
		AudioPath:   audioPath,
		OutputPath:  e.settings.OutputPath,
		Inflight:    e.settings.Inflight,
	}, e.log)
	if err != nil {
		return fatalf(err)
	}

	exportDur := job.Regions.ExportDuration(mainInfo.Duration)
	totalFrames := int(math.Floor(exportDur * float64(e.settings.FPS)))
	if totalFrames < 1 {
		enc.Abort()
		return fatalf(fmt.Errorf("timeline is empty after edits"))
	}
	box := comp.ContentBox()

	e.log.Info("starting export",
		"output", e.settings.OutputPath,
		"size", fmt.Sprintf("%dx%d", width, height),
		"fps", e.settings.FPS,
		"frames", totalFrames,
		"duration", exportDur,
	)

	var st transform.State
	for frame := 0; frame < totalFrames; frame++ {
		select {
		case <-ctx.Done():
			enc.Abort()
			e.reporter.Fail(ErrCancelled)
			return ErrCancelled
		default:
		}

		te := float64(frame) / float64(e.settings.FPS)
		ts := job.Regions.Remap(te, mainInfo.Duration)

		mainFrame, err := mainSrc.FrameAt(ts)
		if err != nil {
			enc.Abort()
			return fatalf(fmt.Errorf("failed to decode frame at %.3fs: %w", ts, err))
		}
		if mainFrame == nil {
			enc.Abort()
			return fatalf(fmt.Errorf("recording has no frame at %.3fs", ts))
		}

		var webcamFrame *media.Frame
		if webcamSrc != nil {
			webcamFrame, err = webcamSrc.FrameAt(ts * webcamScale)
			if err != nil {
				e.log.Warn("webcam decode failed, dropping overlay", "error", err)
				webcamSrc.Close()
				webcamSrc = nil
			}
		}

		cam := engine.CameraAt(ts, box, &st)
		zoomEnv := engine.ZoomEnvelopeAt(ts)
		if err := comp.Compose(mainFrame, webcamFrame, ts, cam, zoomEnv); err != nil {
			enc.Abort()
			return fatalf(err)
		}
		if err := enc.Submit(ctx, comp.RGBA()); err != nil {
			enc.Abort()
			if ctx.Err() != nil {
				e.reporter.Fail(ErrCancelled)
				return ErrCancelled
			}
			return fatalf(err)
		}

		pct := math.Min(99, float64(frame+1)/float64(totalFrames)*100)
		e.reporter.Report(pct, "rendering")
	}

	if err := enc.Close(); err != nil {
		e.reporter.Fail(err)
		return fatalf(err)
	}
	e.reporter.Complete(e.settings.OutputPath)
	return nil
}

// prepareAudio builds the resegmented audio track when the timeline has
// cuts or speed changes. Resegmentation failure falls back to the original
// track; the export survives with unedited audio rather than aborting.
func (e *Exporter) prepareAudio(ctx context.Context, mainPath string, info media.StreamInfo, segs []timeline.Segment) (string, func(), error) {
	noop := func() {}
	if !info.HasAudio || e.settings.Format == FormatGIF {
		return "", noop, nil
	}
	if !needsResegment(segs) {
		return mainPath, noop, nil
	}

	dir, err := os.MkdirTemp("", "screenarc-audio-*")
	if err != nil {
		return "", noop, fatalf(fmt.Errorf("failed to create audio workdir: %w", err))
	}
	cleanup := func() { os.RemoveAll(dir) }

	out := filepath.Join(dir, "audio.wav")
	if err := audio.NewResegmenter(e.log).Resegment(ctx, mainPath, out, segs); err != nil {
		if ctx.Err() != nil {
			cleanup()
			return "", noop, ErrCancelled
		}
		e.log.Warn("audio resegmentation failed, using original track", "error", err)
		cleanup()
		return mainPath, noop, nil
	}
	return out, cleanup, nil
}

func needsResegment(segs []timeline.Segment) bool {
	for _, s := range segs {
		if s.Cut || s.Speed != 1 {
			return true
		}
	}
	return false
}
