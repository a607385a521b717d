// Package audio reproduces the timeline's cut and speed edits in the audio
// domain: it splits the source track at the same breakpoints the video
// remapper uses, time-stretches sped-up spans, and concatenates the pieces.
// Any failure here is degradable; the exporter falls back to the original,
// unedited track.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

// atempo stage limits imposed by ffmpeg's stretch filter.
const (
	minStageRatio = 0.5
	maxStageRatio = 2.0
)

// Resegmenter drives ffmpeg to rebuild the audio track for an edit.
type Resegmenter struct {
	log *slog.Logger
}

// NewResegmenter returns a resegmenter logging through log.
func NewResegmenter(log *slog.Logger) *Resegmenter {
	if log == nil {
		log = slog.Default()
	}
	return &Resegmenter{log: log}
}

// Resegment extracts every kept segment of input's audio, stretches sped-up
// segments to their exported duration, and concatenates the results into a
// single WAV at outPath. Segments come from the same breakpoint walk as
// video remapping, so audio and video stay aligned by construction.
func (r *Resegmenter) Resegment(ctx context.Context, input, outPath string, segs []timeline.Segment) error {
	work, err := os.MkdirTemp("", "screenarc-audio-")
	if err != nil {
		return fmt.Errorf("audio workdir: %w", err)
	}
	defer os.RemoveAll(work)

	var parts []string
	for i, seg := range segs {
		if seg.Cut {
			continue
		}
		part := filepath.Join(work, fmt.Sprintf("seg_%03d.wav", i))
		if err := r.extractSegment(ctx, input, part, seg); err != nil {
			return fmt.Errorf("audio segment %d [%.3f,%.3f): %w", i, seg.Start, seg.End, err)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return fmt.Errorf("audio: no segments to keep")
	}
	if err := r.concat(ctx, parts, outPath); err != nil {
		return fmt.Errorf("audio concat: %w", err)
	}
	return nil
}

func (r *Resegmenter) extractSegment(ctx context.Context, input, out string, seg timeline.Segment) error {
	args := []string{
		"-y",
		"-i", input,
		"-ss", fmt.Sprintf("%.4f", seg.Start),
		"-to", fmt.Sprintf("%.4f", seg.End),
		"-vn",
	}
	if seg.Speed != 1 {
		args = append(args, "-filter:a", AtempoChain(seg.Speed))
	}
	args = append(args, "-acodec", "pcm_s16le", out)
	return r.run(ctx, args)
}

func (r *Resegmenter) concat(ctx context.Context, parts []string, out string) error {
	list := filepath.Join(filepath.Dir(parts[0]), "concat.txt")
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&b, "file '%s'\n", p)
	}
	if err := os.WriteFile(list, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return r.run(ctx, []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		out,
	})
}

func (r *Resegmenter) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.log.Debug("ffmpeg failed", "args", strings.Join(args, " "), "output", string(out))
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// AtempoChain builds an ffmpeg audio filter that stretches playback by the
// given speed factor. The atempo filter only accepts ratios in [0.5, 2.0],
// so factors outside that range chain multiple bounded stages whose product
// is the target.
func AtempoChain(speed float64) string {
	var stages []float64
	for speed > maxStageRatio {
		stages = append(stages, maxStageRatio)
		speed /= maxStageRatio
	}
	for speed < minStageRatio {
		stages = append(stages, minStageRatio)
		speed /= minStageRatio
	}
	stages = append(stages, speed)

	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = fmt.Sprintf("atempo=%.6f", s)
	}
	return strings.Join(parts, ",")
}
