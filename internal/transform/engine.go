package transform

import (
	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

// Engine computes cameras from the edited regions and the recorded event
// log. It holds no mutable state of its own; all cross-frame memory lives in
// the caller-owned State.
type Engine struct {
	regions *timeline.Regions
	events  *timeline.EventLog
	geom    timeline.Geometry
	cfg     config.Smoothing
}

// NewEngine builds an engine over immutable recording data.
func NewEngine(regions *timeline.Regions, events *timeline.EventLog, geom timeline.Geometry, cfg config.Smoothing) *Engine {
	return &Engine{regions: regions, events: events, geom: geom, cfg: cfg}
}

// CameraAt returns the camera for source time t over the given content box.
// With no active zoom region the camera is the identity and the state is
// cleared for the next region.
func (e *Engine) CameraAt(t float64, box ContentBox, st *State) Camera {
	z, ok := e.regions.ActiveZoomAt(t)
	if !ok {
		st.Reset()
		return Identity()
	}
	if st.regionID != z.ID {
		st.Reset()
		st.regionID = z.ID
		st.originX, st.originY = e.resolveOrigin(z)
	}

	cam := Camera{Scale: 1, OriginX: st.originX, OriginY: st.originY}
	ease := Ease(z.Easing)
	tau := transitionFor(z)

	switch {
	case t < z.Start+tau: // zoom-in
		p := ease((t - z.Start) / tau)
		cam.Scale = 1 + (z.Level-1)*p
		// Translation eases toward the pan target the camera will hold at
		// the end of the zoom-in phase.
		tx, ty := e.panTarget(z.Start+tau, z.Level, cam, box)
		cam.TranslateX = tx * p
		cam.TranslateY = ty * p

	case t < z.End()-tau: // hold
		cam.Scale = z.Level
		tx, ty := e.panTarget(t, z.Level, cam, box)
		cam.TranslateX = tx
		cam.TranslateY = ty
		st.holdPanX, st.holdPanY = tx, ty
		st.hasHold = true

	default: // zoom-out
		p := ease((z.End() - t) / tau)
		cam.Scale = 1 + (z.Level-1)*p
		hx, hy := st.holdPanX, st.holdPanY
		if !st.hasHold {
			// Seeked straight into the zoom-out phase; reconstruct the pan
			// the hold phase ended with.
			full := Camera{Scale: z.Level, OriginX: st.originX, OriginY: st.originY}
			hx, hy = e.panTarget(z.End()-tau, z.Level, full, box)
		}
		cam.TranslateX = hx * p
		cam.TranslateY = hy * p
	}

	cam.TranslateX, cam.TranslateY = clampPan(cam.TranslateX, cam.TranslateY, cam.Scale, cam, box)
	return cam
}

// ZoomEnvelopeAt returns the zoom progress in [0,1] at source time t: 0 when
// no region is active, eased edges during the transitions, 1 during hold.
// The webcam overlay interpolates its size with this same envelope.
func (e *Engine) ZoomEnvelopeAt(t float64) float64 {
	z, ok := e.regions.ActiveZoomAt(t)
	if !ok {
		return 0
	}
	ease := Ease(z.Easing)
	tau := transitionFor(z)
	switch {
	case t < z.Start+tau:
		return ease((t - z.Start) / tau)
	case t < z.End()-tau:
		return 1
	default:
		return ease((z.End() - t) / tau)
	}
}

// panTarget computes the clamped translation that keeps the smoothed cursor
// stationary under a zoom of the given level.
func (e *Engine) panTarget(t, level float64, cam Camera, box ContentBox) (float64, float64) {
	cx, cy, ok := smoothedCursor(e.events, e.cfg, t)
	if !ok {
		return 0, 0
	}
	// Recording space to content space.
	px := (cx - e.geom.X) / e.geom.Width * box.Width
	py := (cy - e.geom.Y) / e.geom.Height * box.Height
	ox := cam.OriginX * box.Width
	oy := cam.OriginY * box.Height
	tx := (1 - level) * (px - ox)
	ty := (1 - level) * (py - oy)
	return clampPan(tx, ty, level, cam, box)
}

// resolveOrigin fixes the transform origin for the whole region. Fixed mode
// uses the user-chosen target point; auto mode prefers the click that
// triggered the region, falling back to the stored target.
func (e *Engine) resolveOrigin(z timeline.ZoomRegion) (float64, float64) {
	if z.Mode == timeline.ZoomAuto {
		for _, ev := range e.events.Between(z.Start, z.End()) {
			if ev.Type == timeline.EventClick && ev.Pressed {
				ox := (ev.X - e.geom.X) / e.geom.Width
				oy := (ev.Y - e.geom.Y) / e.geom.Height
				return clamp01(ox), clamp01(oy)
			}
		}
	}
	return clamp01(z.TargetX + 0.5), clamp01(z.TargetY + 0.5)
}

// transitionFor bounds the transition so zoom-in and zoom-out always fit
// inside the region.
func transitionFor(z timeline.ZoomRegion) float64 {
	tau := z.Transition
	if tau <= 0 {
		tau = 1e-6
	}
	if max := z.Duration / 2; tau > max {
		tau = max
	}
	return tau
}
