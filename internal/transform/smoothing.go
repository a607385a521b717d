package transform

import (
	"math"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

// State carries the camera's cross-frame memory for one render session:
// which zoom region is active, its resolved origin, and the last hold-phase
// pan target (which the zoom-out phase eases back from). It replaces what
// would otherwise be hidden package-level state; callers own one State per
// session and pass it into every CameraAt call.
type State struct {
	regionID string
	originX  float64
	originY  float64
	holdPanX float64
	holdPanY float64
	hasHold  bool
}

// Reset clears the region memory, e.g. when the user scrubs backwards.
func (s *State) Reset() { *s = State{} }

// smoothedCursor returns the exponentially smoothed cursor position at time
// t in source pixel coordinates. Events inside a trailing window are folded
// in one by one; movements below the dead-zone threshold get a damped rate
// so sensor jitter does not steer the camera. The position is interpolated
// between the two events bracketing t before the final smoothing step.
func smoothedCursor(events *timeline.EventLog, cfg config.Smoothing, t float64) (x, y float64, ok bool) {
	start := t - cfg.Window

	seed, haveSeed := events.LastAt(start)
	window := events.Between(start, t)
	if !haveSeed {
		if len(window) == 0 {
			return 0, 0, false
		}
		seed = window[0]
	}

	sx, sy := seed.X, seed.Y
	rawX, rawY := seed.X, seed.Y
	for _, ev := range window {
		rate := stepRate(ev.X-rawX, ev.Y-rawY, cfg)
		sx += (ev.X - sx) * rate
		sy += (ev.Y - sy) * rate
		rawX, rawY = ev.X, ev.Y
	}

	// Sub-sample interpolation between the bracketing events.
	if i := events.IndexAt(t); i >= 0 && i+1 < events.Len() {
		cur := events.All()[i]
		next := events.All()[i+1]
		if span := next.Time - cur.Time; span > 0 {
			frac := (t - cur.Time) / span
			ix := cur.X + (next.X-cur.X)*frac
			iy := cur.Y + (next.Y-cur.Y)*frac
			rate := stepRate(ix-rawX, iy-rawY, cfg)
			sx += (ix - sx) * rate
			sy += (iy - sy) * rate
		}
	}
	return sx, sy, true
}

func stepRate(dx, dy float64, cfg config.Smoothing) float64 {
	rate := cfg.Rate
	if math.Hypot(dx, dy) < cfg.DeadZonePx {
		rate *= cfg.DeadZoneDamp
	}
	return rate
}
