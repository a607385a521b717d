package render

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/media"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
	"github.com/xug776576-maker/screenarc-fork/internal/transform"
)

var testGeom = timeline.Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}

func newTestCompositor(t *testing.T, cfg *config.Config, evs []timeline.MouseEvent) *Compositor {
	t.Helper()
	c, err := NewCompositor(640, 360, 16.0/9.0, cfg, testGeom,
		timeline.NewEventLog(evs), nil, slog.Default())
	require.NoError(t, err)
	return c
}

// solidFrame fabricates a decoded frame filled with one RGBA value.
func solidFrame(w, h int, r, g, b byte) *media.Frame {
	data := make([]byte, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = r, g, b, 255
	}
	return &media.Frame{Data: data, Width: w, Height: h}
}

func TestContentBoxFitsAspectInsidePadding(t *testing.T) {
	cfg := config.Defaults()
	cfg.Frame.Padding = 0.1
	c := newTestCompositor(t, cfg, nil)

	box := c.ContentBox()
	// 640x360 output, 16:9 video: width-limited at 512, height 288.
	assert.InDelta(t, 512, box.Width, 1e-9)
	assert.InDelta(t, 288, box.Height, 1e-9)
	assert.InDelta(t, 64, box.X, 1e-9)
	assert.InDelta(t, 36, box.Y, 1e-9)
}

func TestContentBoxTallVideoIsHeightLimited(t *testing.T) {
	cfg := config.Defaults()
	cfg.Frame.Padding = 0.1
	c, err := NewCompositor(640, 360, 0.5, cfg, testGeom, timeline.NewEventLog(nil), nil, nil)
	require.NoError(t, err)

	box := c.ContentBox()
	assert.InDelta(t, 288, box.Height, 1e-9)
	assert.InDelta(t, 144, box.Width, 1e-9)
}

func TestComposeProducesPixels(t *testing.T) {
	cfg := config.Defaults()
	cfg.Frame.Background = config.BackgroundSolid
	cfg.Frame.BackgroundA = "#203040"
	c := newTestCompositor(t, cfg, nil)

	err := c.Compose(solidFrame(320, 180, 200, 10, 10), nil, 0, transform.Identity(), 0)
	require.NoError(t, err)

	pix := c.RGBA()
	require.Len(t, pix, 640*360*4)

	// Corner shows the background, center shows the video.
	assert.Equal(t, byte(0x20), pix[0])
	mid := (180*640 + 320) * 4
	assert.Greater(t, pix[mid], byte(150), "expected video red at center")
}

func TestComposeAppliesZoomedCamera(t *testing.T) {
	cfg := config.Defaults()
	cfg.Frame.Padding = 0.05
	c := newTestCompositor(t, cfg, nil)

	cam := transform.Camera{Scale: 2, OriginX: 0.5, OriginY: 0.5}
	err := c.Compose(solidFrame(320, 180, 10, 200, 10), nil, 0, cam, 1)
	require.NoError(t, err)

	// At 2x about the center, the video covers the former padding gutter.
	pix := c.RGBA()
	edge := (180*640 + 5) * 4
	assert.Greater(t, pix[edge+1], byte(150), "zoomed video should reach the left edge")
}

func TestWebcamSizeConstantWithoutScaleOnZoom(t *testing.T) {
	cfg := config.Defaults()
	cfg.Webcam.ScaleOnZoom = false
	c := newTestCompositor(t, cfg, nil)

	base := c.WebcamSize(0)
	for _, env := range []float64{0, 0.25, 0.8, 1} {
		assert.Equal(t, base, c.WebcamSize(env))
	}
}

func TestWebcamSizeInterpolatesWithEnvelope(t *testing.T) {
	cfg := config.Defaults()
	cfg.Webcam.ScaleOnZoom = true
	cfg.Webcam.Size = 0.2
	cfg.Webcam.ZoomSize = 0.1
	c := newTestCompositor(t, cfg, nil)

	assert.InDelta(t, 0.2*360, c.WebcamSize(0), 1e-9)
	assert.InDelta(t, 0.15*360, c.WebcamSize(0.5), 1e-9)
	assert.InDelta(t, 0.1*360, c.WebcamSize(1), 1e-9)
}

func TestClickScalePulse(t *testing.T) {
	cfg := config.Defaults()
	cfg.Cursor.ScaleEnabled = true
	cfg.Cursor.ScaleAmount = 0.5
	cfg.Cursor.ScaleDuration = 0.2
	c := newTestCompositor(t, cfg, []timeline.MouseEvent{
		{Time: 1.0, X: 100, Y: 100, Type: timeline.EventClick, Pressed: true},
	})

	assert.Equal(t, 1.0, c.clickScaleAt(0.5), "before the click")
	assert.InDelta(t, 0.5, c.clickScaleAt(1.1), 1e-9, "pulse midpoint hits the full dip")
	assert.Equal(t, 1.0, c.clickScaleAt(1.5), "after the pulse")

	mid := c.clickScaleAt(1.05)
	assert.Less(t, mid, 1.0)
	assert.Greater(t, mid, 0.5)
}

func TestComposeDrawsWebcamOverlay(t *testing.T) {
	cfg := config.Defaults()
	cfg.Frame.Background = config.BackgroundSolid
	cfg.Frame.BackgroundA = "#000000"
	cfg.Webcam.Anchor = config.AnchorBottomRight
	cfg.Webcam.Shape = config.WebcamSquare
	cfg.Webcam.ShadowBlur = 0
	c := newTestCompositor(t, cfg, nil)

	err := c.Compose(
		solidFrame(320, 180, 0, 0, 0),
		solidFrame(160, 120, 10, 10, 250),
		0, transform.Identity(), 0,
	)
	require.NoError(t, err)

	// Sample inside the overlay's anchor corner region.
	size := int(c.WebcamSize(0))
	margin := int(cfg.Webcam.Margin * 360)
	x := 640 - margin - size/2
	y := 360 - margin - size/2
	pix := c.RGBA()
	off := (y*640 + x) * 4
	assert.Greater(t, pix[off+2], byte(150), "expected webcam blue at anchor corner")
}
