package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ProgressReporter receives export progress updates. Percent is in [0,100]
// and never reaches 100 before Complete is called.
type ProgressReporter interface {
	Report(percent float64, message string)
	Complete(outputPath string)
	Fail(err error)
}

// ProgressBar renders export progress as an in-place terminal bar.
type ProgressBar struct {
	description string
	startTime   time.Time
	lastUpdate  time.Time
}

func NewProgressBar(description string) *ProgressBar {
	return &ProgressBar{
		description: description,
		startTime:   time.Now(),
	}
}

func (p *ProgressBar) Report(percent float64, message string) {
	// Throttle redraws so fast frame loops don't thrash the terminal.
	if time.Since(p.lastUpdate) < 100*time.Millisecond {
		return
	}
	p.lastUpdate = time.Now()

	barWidth := 30
	completed := int(float64(barWidth) * percent / 100)
	if completed > barWidth {
		completed = barWidth
	}
	bar := strings.Repeat("=", completed) + strings.Repeat("-", barWidth-completed)

	fmt.Printf("\r%s [%s] %.1f%% %s Elapsed: %v",
		p.description,
		bar,
		percent,
		message,
		time.Since(p.startTime).Round(time.Second),
	)
}

func (p *ProgressBar) Complete(outputPath string) {
	p.lastUpdate = time.Time{}
	p.Report(100, "")
	fmt.Printf("\nSaved %s\n", outputPath)
}

func (p *ProgressBar) Fail(err error) {
	fmt.Printf("\nError: %v\n", err)
}

// LogReporter forwards progress to a structured logger. Useful when the
// export runs headless.
type LogReporter struct {
	Log *slog.Logger
}

func (r *LogReporter) Report(percent float64, message string) {
	r.Log.Debug("export progress", "percent", percent, "stage", message)
}

func (r *LogReporter) Complete(outputPath string) {
	r.Log.Info("export complete", "output", outputPath)
}

func (r *LogReporter) Fail(err error) {
	r.Log.Error("export failed", "error", err)
}
