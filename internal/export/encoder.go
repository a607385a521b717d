package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// Encoder streams raw RGBA frames to an ffmpeg encode/mux process over
// stdin. Frames are handed off to a single writer goroutine through a
// bounded channel; a full channel blocks Submit, which is the
// backpressure point that keeps the renderer at most Inflight frames
// ahead of the encoder.
type Encoder struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	frames    chan []byte
	free      chan []byte
	frameSize int
	output    string
	log       *slog.Logger

	// writeErr is set before writerDone closes.
	writerDone chan struct{}
	writeErr   error

	closeOnce sync.Once
}

// EncoderConfig describes one encode run.
type EncoderConfig struct {
	Width       int
	Height      int
	FPS         int
	Format      Format
	BitrateKbps int
	// AudioPath, when non-empty, is muxed as the audio track. Ignored for
	// GIF output.
	AudioPath  string
	OutputPath string
	Inflight   int
}

// NewEncoder starts the ffmpeg process and the writer goroutine.
func NewEncoder(cfg EncoderConfig, log *slog.Logger) (*Encoder, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-framerate", strconv.Itoa(cfg.FPS),
		"-i", "-",
	}

	withAudio := cfg.AudioPath != "" && cfg.Format != FormatGIF
	if withAudio {
		args = append(args, "-i", cfg.AudioPath)
	}

	switch cfg.Format {
	case FormatGIF:
		args = append(args,
			"-vf", "split[a][b];[a]palettegen[p];[b][p]paletteuse",
		)
	default:
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-b:v", fmt.Sprintf("%dk", cfg.BitrateKbps),
			"-pix_fmt", "yuv420p",
			"-movflags", "+faststart",
		)
		if withAudio {
			args = append(args,
				"-map", "0:v:0",
				"-map", "1:a:0",
				"-c:a", "aac",
				"-shortest",
			)
		}
	}
	args = append(args, cfg.OutputPath)

	cmd := exec.Command("ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open encoder stdin: %w", err)
	}
	cmd.Stderr = io.Discard

	log.Debug("starting encoder", "args", args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	inflight := cfg.Inflight
	if inflight <= 0 {
		inflight = 2
	}

	e := &Encoder{
		cmd:        cmd,
		stdin:      stdin,
		frames:     make(chan []byte, inflight),
		free:       make(chan []byte, inflight+1),
		frameSize:  cfg.Width * cfg.Height * 4,
		output:     cfg.OutputPath,
		log:        log,
		writerDone: make(chan struct{}),
	}
	go e.writeLoop()
	return e, nil
}

func (e *Encoder) writeLoop() {
	for buf := range e.frames {
		_, err := e.stdin.Write(buf)
		select {
		case e.free <- buf:
		default:
		}
		if err != nil {
			e.writeErr = fmt.Errorf("encoder write failed: %w", err)
			close(e.writerDone)
			// Drain so a blocked Submit can finish.
			for range e.frames {
			}
			return
		}
	}
	close(e.writerDone)
}

// Submit queues one frame for encoding. The pixel data is copied, so the
// caller may reuse pix immediately. Submit blocks while Inflight frames
// are already queued; a cancelled ctx unblocks it.
func (e *Encoder) Submit(ctx context.Context, pix []byte) error {
	if len(pix) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, encoder expects %d", len(pix), e.frameSize)
	}

	// A failed writer keeps draining the channel, so a plain send could
	// still win the race below and look like success. Surface the failure
	// before queueing anything.
	select {
	case <-e.writerDone:
		return e.submitErr()
	default:
	}

	var buf []byte
	select {
	case buf = <-e.free:
	default:
		buf = make([]byte, e.frameSize)
	}
	copy(buf, pix)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.writerDone:
		return e.submitErr()
	case e.frames <- buf:
		return nil
	}
}

func (e *Encoder) submitErr() error {
	if e.writeErr != nil {
		return e.writeErr
	}
	return fmt.Errorf("encoder already closed")
}

// Close flushes all queued frames, closes stdin and waits for ffmpeg to
// finalize the output file.
func (e *Encoder) Close() error {
	e.closeOnce.Do(func() { close(e.frames) })
	<-e.writerDone
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited with error: %w", err)
	}
	return e.writeErr
}

// Abort kills the encoder and removes the partial output file. The process
// dies before the writer goroutine is reaped: a stalled encoder stops
// draining stdin, and the writer can be blocked inside Write until the pipe
// breaks, so waiting on it first would never return.
func (e *Encoder) Abort() {
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.stdin.Close()
	e.closeOnce.Do(func() { close(e.frames) })
	<-e.writerDone
	e.cmd.Wait()
	if err := os.Remove(e.output); err != nil && !os.IsNotExist(err) {
		e.log.Warn("failed to remove partial output", "path", e.output, "error", err)
	}
}
