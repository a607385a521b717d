package timeline

import (
	"math"
	"sort"
)

// Segment is a maximal span of source time over which the edit is uniform:
// either entirely cut, or played at a single speed factor.
type Segment struct {
	Start float64
	End   float64
	Speed float64
	Cut   bool
}

// SourceDuration returns the source-time length of the segment.
func (s Segment) SourceDuration() float64 { return s.End - s.Start }

// ExportedDuration returns how much export time the segment occupies.
func (s Segment) ExportedDuration() float64 {
	if s.Cut {
		return 0
	}
	return s.SourceDuration() / s.Speed
}

// Segments splits [0, sourceDuration) at every cut and speed region boundary.
// The result is ordered, gap-free, and shared between video remapping and
// audio resegmentation so both walk identical breakpoints.
func (r *Regions) Segments(sourceDuration float64) []Segment {
	if sourceDuration <= 0 {
		return nil
	}
	points := []float64{0, sourceDuration}
	for _, c := range r.SortedCuts() {
		points = append(points, c.Start, c.End())
	}
	for _, s := range r.SortedSpeeds() {
		points = append(points, s.Start, s.End())
	}
	for i, p := range points {
		points[i] = math.Min(math.Max(p, 0), sourceDuration)
	}
	sort.Float64s(points)

	segs := make([]Segment, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if b-a <= 0 {
			continue
		}
		mid := a + (b-a)/2
		seg := Segment{Start: a, End: b, Speed: 1}
		if r.InsideCutAt(mid) {
			seg.Cut = true
		} else if sp, ok := r.ActiveSpeedAt(mid); ok && sp.Factor > 0 {
			seg.Speed = sp.Factor
		}
		segs = append(segs, seg)
	}
	return segs
}

// ExportDuration returns the length of the edited timeline:
// the source duration minus cuts, with sped-up spans scaled by 1/factor.
// Never negative.
func (r *Regions) ExportDuration(sourceDuration float64) float64 {
	total := 0.0
	for _, seg := range r.Segments(sourceDuration) {
		total += seg.ExportedDuration()
	}
	if total < 0 {
		return 0
	}
	return total
}

// Remap converts an export-timeline timestamp into the source timestamp that
// should be shown at that instant. It is monotonic non-decreasing in te,
// which the frame sources rely on for sequential decoding.
//
// te past the end of the export maps to the end of the last kept segment.
func (r *Regions) Remap(te, sourceDuration float64) float64 {
	if sourceDuration <= 0 {
		return 0
	}
	if te < 0 {
		te = 0
	}
	segs := r.Segments(sourceDuration)
	if len(segs) == 0 {
		return clampSource(te, sourceDuration)
	}

	acc := 0.0
	lastKeptEnd := -1.0
	for _, seg := range segs {
		if seg.Cut {
			continue
		}
		d := seg.ExportedDuration()
		if te < acc+d {
			return clampSource(seg.Start+(te-acc)*seg.Speed, sourceDuration)
		}
		acc += d
		lastKeptEnd = seg.End
	}
	if lastKeptEnd < 0 {
		// Everything is cut; fall back to the clamped input.
		return clampSource(te, sourceDuration)
	}
	return clampSource(lastKeptEnd, sourceDuration)
}

func clampSource(t, sourceDuration float64) float64 {
	if t < 0 {
		return 0
	}
	limit := math.Nextafter(sourceDuration, 0)
	if t > limit {
		return limit
	}
	return t
}
