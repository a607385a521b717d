// Package export drives the render/export pipeline: it walks the edited
// timeline frame by frame, composes each output frame, and streams the
// pixels to an external ffmpeg encode/mux process with bounded backpressure.
package export

import (
	"fmt"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
)

// Format is the output container format.
type Format string

const (
	FormatMP4 Format = "mp4"
	FormatGIF Format = "gif"
)

// Resolution is an output resolution preset. Presets fix the output height;
// width follows the source aspect ratio.
type Resolution string

const (
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
	Res2K    Resolution = "2k"
)

// Height returns the fixed output height for the preset.
func (r Resolution) Height() int {
	switch r {
	case Res720p:
		return 720
	case Res2K:
		return 1440
	default:
		return 1080
	}
}

// Quality selects the bitrate tier.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Settings configures one export run.
type Settings struct {
	Format     Format
	Resolution Resolution
	FPS        int
	Quality    Quality
	Inflight   int
	OutputPath string
}

// SettingsFromConfig seeds settings from the config defaults.
func SettingsFromConfig(d config.ExportDefaults, outputPath string) Settings {
	return Settings{
		Format:     Format(d.Format),
		Resolution: Resolution(d.Resolution),
		FPS:        d.FPS,
		Quality:    Quality(d.Quality),
		Inflight:   d.Inflight,
		OutputPath: outputPath,
	}
}

// Validate rejects settings the encoder cannot honor.
func (s Settings) Validate() error {
	switch s.Format {
	case FormatMP4, FormatGIF:
	default:
		return fmt.Errorf("format %q is not mp4 or gif", s.Format)
	}
	switch s.Resolution {
	case Res720p, Res1080p, Res2K:
	default:
		return fmt.Errorf("resolution %q is not 720p, 1080p or 2k", s.Resolution)
	}
	switch s.Quality {
	case QualityLow, QualityMedium, QualityHigh:
	default:
		return fmt.Errorf("quality %q is not low, medium or high", s.Quality)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("fps must be > 0, got %d", s.FPS)
	}
	if s.Inflight <= 0 {
		return fmt.Errorf("inflight must be > 0, got %d", s.Inflight)
	}
	if s.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// OutputSize derives the output dimensions: the preset's fixed height, with
// the width following the source aspect ratio, rounded down to an even
// number (required by yuv420p encoders).
func OutputSize(res Resolution, aspect float64) (int, int) {
	h := res.Height()
	w := int(float64(h) * aspect)
	if w%2 != 0 {
		w--
	}
	if w < 2 {
		w = 2
	}
	return w, h
}
