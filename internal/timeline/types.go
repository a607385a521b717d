// Package timeline models the edited recording: the regions a user places on
// the source clip (zoom, cut, speed) and the mouse-event log captured while
// recording. It maps timestamps on the edited ("export") timeline back to
// timestamps in the source media.
//
// Regions of one type may overlap; lookups are deterministic and pick the
// overlapping region with the earliest start time, breaking ties by id.
package timeline

import (
	"sort"

	"github.com/google/uuid"
)

// ZoomMode selects how a zoom region chooses its focus point.
type ZoomMode string

const (
	// ZoomAuto centers the zoom on recorded mouse activity.
	ZoomAuto ZoomMode = "auto"
	// ZoomFixed centers the zoom on a user-chosen point.
	ZoomFixed ZoomMode = "fixed"
)

// TrimType marks a cut region that trims an end of the recording.
type TrimType string

const (
	TrimNone  TrimType = ""
	TrimStart TrimType = "start"
	TrimEnd   TrimType = "end"
)

// ZoomRegion zooms into the frame over [Start, Start+Duration).
// TargetX/TargetY are offsets from the frame center in [-0.5, 0.5].
type ZoomRegion struct {
	ID         string   `json:"id"`
	Start      float64  `json:"start"`
	Duration   float64  `json:"duration"`
	Level      float64  `json:"level"`
	TargetX    float64  `json:"targetX"`
	TargetY    float64  `json:"targetY"`
	Mode       ZoomMode `json:"mode"`
	Easing     string   `json:"easing,omitempty"`
	Transition float64  `json:"transition,omitempty"`
}

// End returns the exclusive end time of the region.
func (z ZoomRegion) End() float64 { return z.Start + z.Duration }

// CutRegion removes [Start, Start+Duration) from the export.
type CutRegion struct {
	ID       string   `json:"id"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	Trim     TrimType `json:"trim,omitempty"`
}

func (c CutRegion) End() float64 { return c.Start + c.Duration }

// SpeedRegion plays [Start, Start+Duration) back at Factor times real time.
// Factor must be > 0.
type SpeedRegion struct {
	ID       string  `json:"id"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Factor   float64 `json:"factor"`
}

func (s SpeedRegion) End() float64 { return s.Start + s.Duration }

// Regions holds every region placed on the recording, keyed by id.
// The maps are treated as immutable once editing finishes.
type Regions struct {
	Zooms  map[string]ZoomRegion
	Cuts   map[string]CutRegion
	Speeds map[string]SpeedRegion
}

// NewRegions returns an empty region set.
func NewRegions() *Regions {
	return &Regions{
		Zooms:  make(map[string]ZoomRegion),
		Cuts:   make(map[string]CutRegion),
		Speeds: make(map[string]SpeedRegion),
	}
}

// NewRegionID mints an id for a freshly placed region.
func NewRegionID() string { return uuid.NewString() }

// SortedZooms returns the zoom regions ordered by start time, then id.
// This ordering is what makes region lookups deterministic.
func (r *Regions) SortedZooms() []ZoomRegion {
	out := make([]ZoomRegion, 0, len(r.Zooms))
	for _, z := range r.Zooms {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortedCuts returns the cut regions ordered by start time, then id.
func (r *Regions) SortedCuts() []CutRegion {
	out := make([]CutRegion, 0, len(r.Cuts))
	for _, c := range r.Cuts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortedSpeeds returns the speed regions ordered by start time, then id.
func (r *Regions) SortedSpeeds() []SpeedRegion {
	out := make([]SpeedRegion, 0, len(r.Speeds))
	for _, s := range r.Speeds {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ActiveZoomAt returns the zoom region covering source time t, if any.
func (r *Regions) ActiveZoomAt(t float64) (ZoomRegion, bool) {
	for _, z := range r.SortedZooms() {
		if t >= z.Start && t < z.End() {
			return z, true
		}
	}
	return ZoomRegion{}, false
}

// ActiveSpeedAt returns the speed region covering source time t, if any.
func (r *Regions) ActiveSpeedAt(t float64) (SpeedRegion, bool) {
	for _, s := range r.SortedSpeeds() {
		if t >= s.Start && t < s.End() {
			return s, true
		}
	}
	return SpeedRegion{}, false
}

// InsideCutAt reports whether source time t falls inside a cut region.
func (r *Regions) InsideCutAt(t float64) bool {
	for _, c := range r.SortedCuts() {
		if t >= c.Start && t < c.End() {
			return true
		}
	}
	return false
}
