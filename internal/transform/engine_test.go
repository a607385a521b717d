package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

var testGeom = timeline.Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}

var testBox = ContentBox{X: 96, Y: 54, Width: 1728, Height: 972}

func testEngine(zooms []timeline.ZoomRegion, evs []timeline.MouseEvent) *Engine {
	r := timeline.NewRegions()
	for _, z := range zooms {
		if z.ID == "" {
			z.ID = timeline.NewRegionID()
		}
		r.Zooms[z.ID] = z
	}
	return NewEngine(r, timeline.NewEventLog(evs), testGeom, config.Defaults().Smoothing)
}

func TestIdentityWithoutActiveRegion(t *testing.T) {
	e := testEngine(nil, nil)
	var st State
	cam := e.CameraAt(2.0, testBox, &st)
	assert.True(t, cam.IsIdentity())
	assert.Equal(t, 0.5, cam.OriginX)
	assert.Equal(t, 0.5, cam.OriginY)
}

func TestZoomScaleEnvelope(t *testing.T) {
	// Region [1,4) with 0.5s transitions to 2x.
	e := testEngine([]timeline.ZoomRegion{{
		Start: 1, Duration: 3, Level: 2, Transition: 0.5, Mode: timeline.ZoomFixed,
	}}, nil)
	var st State

	tests := []struct {
		at   float64
		want float64
	}{
		{1.0, 1},   // zoom-in begins
		{1.5, 2},   // zoom-in complete
		{2.5, 2},   // hold
		{3.5, 2},   // zoom-out begins
		{3.999, 1}, // zoom-out nearly complete
		{4.0, 1},   // region over
	}
	for _, tt := range tests {
		cam := e.CameraAt(tt.at, testBox, &st)
		assert.InDelta(t, tt.want, cam.Scale, 0.05, "scale at t=%v", tt.at)
	}
}

func TestOriginFromFixedTarget(t *testing.T) {
	e := testEngine([]timeline.ZoomRegion{{
		Start: 0, Duration: 4, Level: 2, Transition: 0.5,
		Mode: timeline.ZoomFixed, TargetX: 0.25, TargetY: -0.25,
	}}, nil)
	var st State
	cam := e.CameraAt(2, testBox, &st)
	assert.InDelta(t, 0.75, cam.OriginX, 1e-9)
	assert.InDelta(t, 0.25, cam.OriginY, 1e-9)
}

func TestOriginFromAutoClick(t *testing.T) {
	e := testEngine(
		[]timeline.ZoomRegion{{
			Start: 1, Duration: 3, Level: 2, Transition: 0.5, Mode: timeline.ZoomAuto,
		}},
		[]timeline.MouseEvent{
			{Time: 1.1, X: 480, Y: 270, Type: timeline.EventClick, Pressed: true},
		},
	)
	var st State
	cam := e.CameraAt(2, testBox, &st)
	assert.InDelta(t, 0.25, cam.OriginX, 1e-9)
	assert.InDelta(t, 0.25, cam.OriginY, 1e-9)
}

func TestPanStaysInsideContent(t *testing.T) {
	// Cursor parked in the far corner: translation must still keep the
	// scaled content covering the whole box.
	for _, level := range []float64{1.5, 2, 3, 5} {
		for _, target := range [][2]float64{{-0.5, -0.5}, {0, 0}, {0.5, 0.5}, {0.3, -0.4}} {
			e := testEngine(
				[]timeline.ZoomRegion{{
					Start: 0, Duration: 10, Level: level, Transition: 0.5,
					Mode: timeline.ZoomFixed, TargetX: target[0], TargetY: target[1],
				}},
				[]timeline.MouseEvent{
					{Time: 0, X: 1919, Y: 1079, Type: timeline.EventMove},
					{Time: 5, X: 0, Y: 0, Type: timeline.EventMove},
					{Time: 9, X: 1919, Y: 0, Type: timeline.EventMove},
				},
			)
			var st State
			for tt := 0.0; tt < 10; tt += 0.25 {
				cam := e.CameraAt(tt, testBox, &st)
				s := cam.Scale
				if s <= 1 {
					continue
				}
				maxRight := cam.OriginX * testBox.Width * (s - 1)
				maxLeft := -(1 - cam.OriginX) * testBox.Width * (s - 1)
				require.LessOrEqual(t, cam.TranslateX, maxRight+1e-9,
					"level=%v target=%v t=%v", level, target, tt)
				require.GreaterOrEqual(t, cam.TranslateX, maxLeft-1e-9)
				maxDown := cam.OriginY * testBox.Height * (s - 1)
				maxUp := -(1 - cam.OriginY) * testBox.Height * (s - 1)
				require.LessOrEqual(t, cam.TranslateY, maxDown+1e-9)
				require.GreaterOrEqual(t, cam.TranslateY, maxUp-1e-9)
			}
		}
	}
}

func TestCameraDeterministicForSameTime(t *testing.T) {
	e := testEngine(
		[]timeline.ZoomRegion{{
			Start: 0, Duration: 5, Level: 2, Transition: 0.5, Mode: timeline.ZoomFixed,
		}},
		[]timeline.MouseEvent{
			{Time: 0.5, X: 400, Y: 300, Type: timeline.EventMove},
			{Time: 2.0, X: 900, Y: 700, Type: timeline.EventMove},
		},
	)
	st1, st2 := &State{}, &State{}
	a := e.CameraAt(2.5, testBox, st1)
	b := e.CameraAt(2.5, testBox, st2)
	assert.Equal(t, a, b)
}

func TestZoomEnvelope(t *testing.T) {
	e := testEngine([]timeline.ZoomRegion{{
		Start: 1, Duration: 3, Level: 2, Transition: 0.5,
	}}, nil)
	assert.Equal(t, 0.0, e.ZoomEnvelopeAt(0.5))
	assert.Equal(t, 1.0, e.ZoomEnvelopeAt(2.0))
	assert.Equal(t, 0.0, e.ZoomEnvelopeAt(4.5))
	mid := e.ZoomEnvelopeAt(1.25)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestSmoothingDeadZoneDampsJitter(t *testing.T) {
	cfg := config.Defaults().Smoothing
	base := []timeline.MouseEvent{{Time: 0, X: 500, Y: 500, Type: timeline.EventMove}}

	// Sub-threshold jitter barely moves the smoothed position.
	jitter := append(base, timeline.MouseEvent{Time: 0.2, X: 501, Y: 500, Type: timeline.EventMove})
	jx, _, ok := smoothedCursor(timeline.NewEventLog(jitter), cfg, 0.3)
	require.True(t, ok)

	// The same distance travelled in one deliberate move shifts it more.
	move := append(base, timeline.MouseEvent{Time: 0.2, X: 600, Y: 500, Type: timeline.EventMove})
	mx, _, ok := smoothedCursor(timeline.NewEventLog(move), cfg, 0.3)
	require.True(t, ok)

	assert.Less(t, math.Abs(jx-500)/1, math.Abs(mx-500)/100,
		"jitter moved proportionally as much as a real move")
}

func TestEasingBounds(t *testing.T) {
	for _, f := range []EaseFunc{EaseLinear, EaseInCubic, EaseOutCubic, EaseInOutCubic, EaseOutQuad} {
		assert.Equal(t, 0.0, f(0))
		assert.Equal(t, 1.0, f(1))
		assert.Equal(t, 0.0, f(-5))
		assert.Equal(t, 1.0, f(5))
	}
}
