// Package capture records the screen with ffmpeg and the mouse with
// robotgo/gohook, producing the video file and metadata sidecar the
// editing pipeline consumes.
package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/google/uuid"
	hook "github.com/robotn/gohook"

	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

// pollInterval is the cursor position sampling cadence. 8ms keeps the
// move trail dense enough for smoothing at any export frame rate.
const pollInterval = 8 * time.Millisecond

// Session names the files one recording produced.
type Session struct {
	ID        string
	VideoPath string
	MetaPath  string
}

// Recorder captures the screen and mouse activity.
type Recorder struct {
	fps int
	log *slog.Logger
}

func NewRecorder(fps int, log *slog.Logger) *Recorder {
	return &Recorder{fps: fps, log: log}
}

// Record captures until ctx is cancelled, then finalizes the video and
// writes the metadata sidecar into dir.
func (r *Recorder) Record(ctx context.Context, dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create recording dir: %w", err)
	}

	id := uuid.NewString()
	session := &Session{
		ID:        id,
		VideoPath: filepath.Join(dir, id+".mp4"),
		MetaPath:  filepath.Join(dir, id+".json"),
	}

	screenW, screenH := robotgo.GetScreenSize()
	meta := &timeline.Metadata{
		Platform:   platformName(),
		ScreenSize: timeline.ScreenSize{Width: float64(screenW), Height: float64(screenH)},
		Geometry: timeline.Geometry{
			Width:  float64(screenW),
			Height: float64(screenH),
		},
		CursorImages: map[string]timeline.CursorImage{},
	}

	cmd, stdin, err := startGrab(session.VideoPath, r.fps)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	r.log.Info("recording started", "session", id, "video", session.VideoPath)

	var mu sync.Mutex
	appendEvent := func(x, y float64, typ timeline.EventType, pressed bool, button int) {
		t := float64(time.Since(start)) / float64(time.Millisecond)
		mu.Lock()
		meta.AppendEvent(t, x, y, typ, pressed, button, "")
		mu.Unlock()
	}

	hook.Register(hook.MouseDown, []string{}, func(e hook.Event) {
		appendEvent(float64(e.X), float64(e.Y), timeline.EventClick, true, int(e.Button))
	})
	hook.Register(hook.MouseUp, []string{}, func(e hook.Event) {
		appendEvent(float64(e.X), float64(e.Y), timeline.EventClick, false, int(e.Button))
	})
	hook.Register(hook.MouseWheel, []string{}, func(e hook.Event) {
		appendEvent(float64(e.X), float64(e.Y), timeline.EventScroll, false, 0)
	})
	evChan := hook.Start()
	go func() {
		<-hook.Process(evChan)
	}()

	// The hook layer only reports clicks and wheel motion reliably across
	// platforms, so cursor position is polled separately.
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		lastX, lastY := -1, -1
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				x, y := robotgo.Location()
				if x == lastX && y == lastY {
					continue
				}
				lastX, lastY = x, y
				appendEvent(float64(x), float64(y), timeline.EventMove, false, 0)
			}
		}
	}()

	<-ctx.Done()
	hook.End()
	<-pollDone

	// ffmpeg finalizes the container on a "q" keypress; killing it would
	// leave the moov atom unwritten.
	r.log.Info("stopping recording", "session", id)
	if _, err := io.WriteString(stdin, "q\n"); err != nil {
		r.log.Warn("failed to signal ffmpeg, killing it", "error", err)
		cmd.Process.Kill()
	}
	stdin.Close()
	if err := cmd.Wait(); err != nil {
		// ffmpeg exits non-zero on interrupt even after a clean finalize.
		r.log.Debug("ffmpeg exited", "status", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if err := timeline.SaveMetadata(session.MetaPath, meta); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}
	r.log.Info("recording saved", "session", id, "events", len(meta.Events))
	return session, nil
}

// startGrab launches the platform screen-grab ffmpeg process writing to
// outputFile. The returned pipe accepts "q" to finish the recording.
func startGrab(outputFile string, fps int) (*exec.Cmd, io.WriteCloser, error) {
	var cmd *exec.Cmd
	rate := strconv.Itoa(fps)

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("ffmpeg",
			"-f", "gdigrab",
			"-framerate", rate,
			"-i", "desktop",
			"-c:v", "libx264",
			"-preset", "ultrafast",
			"-pix_fmt", "yuv420p",
			"-y",
			outputFile)
	case "darwin":
		cmd = exec.Command("ffmpeg",
			"-f", "avfoundation",
			"-framerate", rate,
			"-i", "0:none",
			"-c:v", "libx264",
			"-preset", "ultrafast",
			"-pix_fmt", "yuv420p",
			"-y",
			outputFile)
	case "linux":
		display := os.Getenv("DISPLAY")
		if display == "" {
			display = ":0.0"
		}
		cmd = exec.Command("ffmpeg",
			"-f", "x11grab",
			"-framerate", rate,
			"-i", display,
			"-c:v", "libx264",
			"-preset", "ultrafast",
			"-pix_fmt", "yuv420p",
			"-y",
			outputFile)
	default:
		return nil, nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ffmpeg stdin: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start screen capture: %w", err)
	}
	return cmd, stdin, nil
}

func platformName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	default:
		return runtime.GOOS
	}
}
