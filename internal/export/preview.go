package export

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/media"
	"github.com/xug776576-maker/screenarc-fork/internal/render"
	"github.com/xug776576-maker/screenarc-fork/internal/transform"
)

// RenderFrameAt composes a single output frame at export time te without
// running an encoder. It opens its own decoders, so it is meant for
// one-off preview stills, not scrubbing.
func RenderFrameAt(job Job, cfg *config.Config, settings Settings, te float64, log *slog.Logger) (image.Image, error) {
	mainInfo, err := media.Probe(job.MainPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe recording: %w", err)
	}
	width, height := OutputSize(settings.Resolution, mainInfo.AspectRatio())

	cursors, err := render.PrepareAll(job.Meta.Platform, job.Meta.CursorImages)
	if err != nil {
		return nil, err
	}
	comp, err := render.NewCompositor(width, height, mainInfo.AspectRatio(), cfg, job.Meta.Geometry, job.Events, cursors, log)
	if err != nil {
		return nil, err
	}
	engine := transform.NewEngine(job.Regions, job.Events, job.Meta.Geometry, cfg.Smoothing)

	mainSrc, err := media.NewFrameSource(job.MainPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer mainSrc.Close()

	ts := job.Regions.Remap(te, mainInfo.Duration)
	mainFrame, err := mainSrc.FrameAt(ts)
	if err != nil {
		return nil, err
	}
	if mainFrame == nil {
		return nil, fmt.Errorf("recording has no frame at %.3fs", ts)
	}

	var webcamFrame *media.Frame
	if job.WebcamPath != "" {
		if webcamInfo, err := media.Probe(job.WebcamPath); err == nil {
			if webcamSrc, err := media.NewFrameSource(job.WebcamPath); err == nil {
				defer webcamSrc.Close()
				scale := webcamInfo.Duration / mainInfo.Duration
				webcamFrame, _ = webcamSrc.FrameAt(ts * scale)
			}
		}
	}

	var st transform.State
	cam := engine.CameraAt(ts, comp.ContentBox(), &st)
	if err := comp.Compose(mainFrame, webcamFrame, ts, cam, engine.ZoomEnvelopeAt(ts)); err != nil {
		return nil, err
	}
	return comp.Image(), nil
}
