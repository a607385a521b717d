package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionsWith(cuts []CutRegion, speeds []SpeedRegion) *Regions {
	r := NewRegions()
	for _, c := range cuts {
		if c.ID == "" {
			c.ID = NewRegionID()
		}
		r.Cuts[c.ID] = c
	}
	for _, s := range speeds {
		if s.ID == "" {
			s.ID = NewRegionID()
		}
		r.Speeds[s.ID] = s
	}
	return r
}

func TestRemapIdentityWithoutRegions(t *testing.T) {
	r := NewRegions()
	for _, te := range []float64{0, 0.5, 3.7, 9.99} {
		assert.InDelta(t, te, r.Remap(te, 10), 1e-9)
	}
}

func TestRemapClampsToSource(t *testing.T) {
	r := NewRegions()
	assert.Less(t, r.Remap(25, 10), 10.0)
	assert.Equal(t, 0.0, r.Remap(-1, 10))
	assert.Equal(t, 0.0, r.Remap(5, 0))
}

func TestExportDuration(t *testing.T) {
	tests := []struct {
		name   string
		r      *Regions
		source float64
		want   float64
	}{
		{"no regions", NewRegions(), 10, 10},
		{
			"single cut",
			regionsWith([]CutRegion{{Start: 2, Duration: 1}}, nil),
			10, 9,
		},
		{
			"double speed over full clip",
			regionsWith(nil, []SpeedRegion{{Start: 0, Duration: 10, Factor: 2}}),
			10, 5,
		},
		{
			"half speed stretches",
			regionsWith(nil, []SpeedRegion{{Start: 0, Duration: 4, Factor: 0.5}}),
			10, 14,
		},
		{
			"cut and speed combined",
			regionsWith(
				[]CutRegion{{Start: 0, Duration: 2}},
				[]SpeedRegion{{Start: 4, Duration: 4, Factor: 2}},
			),
			10, 6,
		},
		{
			"everything cut clamps to zero",
			regionsWith([]CutRegion{{Start: 0, Duration: 10}}, nil),
			10, 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.r.ExportDuration(tt.source), 1e-9)
		})
	}
}

func TestRemapScenarioSingleCut(t *testing.T) {
	// 10s source with [2,3) cut: export is 9s and the cut span is skipped.
	r := regionsWith([]CutRegion{{Start: 2, Duration: 1}}, nil)
	require.InDelta(t, 9, r.ExportDuration(10), 1e-9)

	ts := r.Remap(2.5, 10)
	assert.True(t, ts < 2 || ts >= 3, "remap(2.5)=%v landed inside the cut", ts)
	assert.InDelta(t, 6, r.Remap(5, 10), 1e-9)
}

func TestRemapScenarioFullSpeed(t *testing.T) {
	// 10s source played at 2x: export is 5s, remap(2.5) hits the middle.
	r := regionsWith(nil, []SpeedRegion{{Start: 0, Duration: 10, Factor: 2}})
	require.InDelta(t, 5, r.ExportDuration(10), 1e-9)
	assert.InDelta(t, 5, r.Remap(2.5, 10), 1e-9)
}

func TestRemapNeverLandsInsideCut(t *testing.T) {
	r := regionsWith(
		[]CutRegion{{Start: 1, Duration: 2}, {Start: 6, Duration: 0.5}},
		[]SpeedRegion{{Start: 4, Duration: 2, Factor: 4}},
	)
	exp := r.ExportDuration(10)
	for te := 0.0; te < exp; te += 0.01 {
		ts := r.Remap(te, 10)
		assert.False(t, ts >= 1 && ts < 3, "te=%v mapped into cut [1,3): %v", te, ts)
		assert.False(t, ts >= 6 && ts < 6.5, "te=%v mapped into cut [6,6.5): %v", te, ts)
	}
}

func TestRemapMonotonic(t *testing.T) {
	sets := []*Regions{
		NewRegions(),
		regionsWith([]CutRegion{{Start: 2, Duration: 1}}, nil),
		regionsWith(
			[]CutRegion{{Start: 0.5, Duration: 0.25}, {Start: 8, Duration: 1.5}},
			[]SpeedRegion{{Start: 2, Duration: 3, Factor: 0.5}, {Start: 5, Duration: 2, Factor: 3}},
		),
	}
	for _, r := range sets {
		prev := -1.0
		for te := 0.0; te < 12; te += 0.013 {
			ts := r.Remap(te, 10)
			require.GreaterOrEqual(t, ts, prev, "remap not monotonic at te=%v", te)
			prev = ts
		}
	}
}

func TestSegmentsCoverSourceWithoutGaps(t *testing.T) {
	r := regionsWith(
		[]CutRegion{{Start: 3, Duration: 2}},
		[]SpeedRegion{{Start: 2, Duration: 4, Factor: 2}},
	)
	segs := r.Segments(10)
	require.NotEmpty(t, segs)
	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 10.0, segs[len(segs)-1].End)
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].End, segs[i].Start, "gap before segment %d", i)
	}
}

func TestActiveZoomDeterministicOnOverlap(t *testing.T) {
	r := NewRegions()
	r.Zooms["b"] = ZoomRegion{ID: "b", Start: 1, Duration: 4, Level: 3}
	r.Zooms["a"] = ZoomRegion{ID: "a", Start: 1, Duration: 2, Level: 2}
	r.Zooms["c"] = ZoomRegion{ID: "c", Start: 0.5, Duration: 5, Level: 1.5}

	// Same instant, many lookups: always the earliest start (ties by id).
	for i := 0; i < 50; i++ {
		z, ok := r.ActiveZoomAt(1.5)
		require.True(t, ok)
		assert.Equal(t, "c", z.ID)
	}
	z, ok := r.ActiveZoomAt(5.2)
	require.True(t, ok)
	assert.Equal(t, "c", z.ID)
}
