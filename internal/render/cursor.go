package render

import (
	"github.com/gogpu/gg"

	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
	"github.com/xug776576-maker/screenarc-fork/internal/transform"
)

// drawClickRipples draws an expanding, fading circle for every press whose
// age at time t is still inside the ripple duration.
func (c *Compositor) drawClickRipples(t float64, box transform.ContentBox) {
	if !c.cursor.RippleEnabled || c.cursor.RippleDuration <= 0 {
		return
	}
	col := gg.Hex(c.cursor.RippleColor)
	for _, ev := range c.events.Between(t-c.cursor.RippleDuration, t) {
		if ev.Type != timeline.EventClick || !ev.Pressed {
			continue
		}
		age := t - ev.Time
		if age < 0 || age >= c.cursor.RippleDuration {
			continue
		}
		progress := transform.EaseOutQuad(age / c.cursor.RippleDuration)
		radius := c.cursor.RippleSize * progress
		alpha := col.A * (1 - progress)

		x, y := c.toContent(ev.X, ev.Y, box)
		c.ctx.SetFillBrush(gg.SolidRGBA(col.R, col.G, col.B, alpha))
		c.ctx.DrawCircle(x, y, radius)
		c.fill()
	}
}

// drawCursor replays the recorded cursor at time t: the last event at or
// before t, drawn only while fresh, with the optional click-scale pulse.
func (c *Compositor) drawCursor(t float64, box transform.ContentBox) {
	if !c.cursor.Show {
		return
	}
	ev, ok := c.events.LastAt(t)
	if !ok {
		return
	}
	if age := t - ev.Time; age >= c.smooth.CursorFreshMs/1000 {
		return
	}
	prepared := c.lookupCursor(ev.CursorKey)
	if prepared == nil {
		return
	}

	scale := c.contentScale(box) * c.clickScaleAt(t)
	w := float64(prepared.Width) * scale
	h := float64(prepared.Height) * scale
	x, y := c.toContent(ev.X, ev.Y, box)
	x -= float64(prepared.HotX) * scale
	y -= float64(prepared.HotY) * scale

	if c.cursor.Shadow {
		c.ctx.SetFillBrush(gg.SolidRGBA(0, 0, 0, 0.25))
		c.ctx.DrawEllipse(x+w/2, y+h*0.95, w*0.45, h*0.12)
		c.fill()
	}
	c.ctx.DrawImageEx(prepared.Image, gg.DrawImageOptions{
		X: x, Y: y,
		DstWidth: w, DstHeight: h,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
	})
}

// clickScaleAt returns the cursor scale multiplier for the click pulse: a
// triangular envelope dipping to ScaleAmount at the pulse midpoint.
func (c *Compositor) clickScaleAt(t float64) float64 {
	if !c.cursor.ScaleEnabled || c.cursor.ScaleDuration <= 0 {
		return 1
	}
	click, ok := c.events.LastClickAt(t)
	if !ok {
		return 1
	}
	age := t - click.Time
	if age < 0 || age >= c.cursor.ScaleDuration {
		return 1
	}
	progress := age / c.cursor.ScaleDuration
	depth := 1 - absf(2*progress-1) // 0 -> 1 -> 0
	return 1 - (1-c.cursor.ScaleAmount)*transform.EaseOutQuad(depth)
}

func (c *Compositor) lookupCursor(key string) *PreparedCursor {
	if p, ok := c.cursors[key]; ok {
		return p
	}
	return c.cursors[DefaultCursorKey]
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
