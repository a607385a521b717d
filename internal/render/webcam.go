package render

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/media"
)

// webcamLayout is the overlay's resolved placement for one frame.
type webcamLayout struct {
	x, y, w, h float64
}

// WebcamSize returns the overlay's edge length in output pixels for a given
// zoom envelope. With ScaleOnZoom disabled the size is constant; otherwise
// it interpolates between the normal and zoomed size fractions using the
// same envelope as the camera, so both animate in lockstep.
func (c *Compositor) WebcamSize(zoomEnv float64) float64 {
	frac := c.webcam.Size
	if c.webcam.ScaleOnZoom {
		frac += (c.webcam.ZoomSize - c.webcam.Size) * zoomEnv
	}
	return frac * float64(c.height)
}

func (c *Compositor) webcamLayoutFor(zoomEnv float64, frameAspect float64) webcamLayout {
	size := c.WebcamSize(zoomEnv)
	w, h := size, size
	if c.webcam.Shape == config.WebcamRectangle {
		w = size * frameAspect
	}
	margin := c.webcam.Margin * float64(c.height)

	var x, y float64
	switch c.webcam.Anchor {
	case config.AnchorTopLeft:
		x, y = margin, margin
	case config.AnchorTopRight:
		x, y = float64(c.width)-w-margin, margin
	case config.AnchorBottomLeft:
		x, y = margin, float64(c.height)-h-margin
	case config.AnchorBottomCenter:
		x, y = (float64(c.width)-w)/2, float64(c.height)-h-margin
	default: // bottom-right
		x, y = float64(c.width)-w-margin, float64(c.height)-h-margin
	}
	return webcamLayout{x: x, y: y, w: w, h: h}
}

// drawWebcam overlays the webcam frame: shadow, shape clip, center-cropped
// image, honoring the horizontal flip.
func (c *Compositor) drawWebcam(f *media.Frame, zoomEnv float64) {
	if f.Width <= 0 || f.Height <= 0 {
		return
	}
	lay := c.webcamLayoutFor(zoomEnv, float64(f.Width)/float64(f.Height))

	c.drawWebcamShadow(lay)
	c.clipWebcamShape(lay)

	// Center-crop the source to the overlay's aspect ratio.
	srcW, srcH := float64(f.Width), float64(f.Height)
	targetAspect := lay.w / lay.h
	cropW, cropH := srcW, srcH
	if srcW/srcH > targetAspect {
		cropW = srcH * targetAspect
	} else {
		cropH = srcW / targetAspect
	}
	src := image.Rect(
		int((srcW-cropW)/2), int((srcH-cropH)/2),
		int((srcW+cropW)/2), int((srcH+cropH)/2),
	)

	x := lay.x
	if c.webcam.FlipH {
		// Mirror the canvas about the overlay's vertical center line; the
		// draw position maps back onto itself.
		c.ctx.Push()
		c.ctx.Translate(2*(lay.x+lay.w/2), 0)
		c.ctx.Scale(-1, 1)
	}
	c.ctx.DrawImageEx(frameImage(f), gg.DrawImageOptions{
		X: x, Y: lay.y,
		DstWidth: lay.w, DstHeight: lay.h,
		SrcRect:       &src,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
	})
	if c.webcam.FlipH {
		c.ctx.Pop()
	}
	c.ctx.ResetClip()
}

func (c *Compositor) drawWebcamShadow(lay webcamLayout) {
	if c.webcam.ShadowBlur <= 0 {
		return
	}
	col := gg.Hex(c.webcam.ShadowColor)
	for i := shadowPasses; i >= 1; i-- {
		grow := c.webcam.ShadowBlur * float64(i) / shadowPasses
		alpha := col.A / (shadowPasses * float64(i))
		c.ctx.SetFillBrush(gg.SolidRGBA(col.R, col.G, col.B, alpha))
		c.webcamShapePath(webcamLayout{
			x: lay.x - grow, y: lay.y - grow,
			w: lay.w + 2*grow, h: lay.h + 2*grow,
		})
		c.fill()
	}
}

func (c *Compositor) clipWebcamShape(lay webcamLayout) {
	c.webcamShapePath(lay)
	c.ctx.Clip()
}

func (c *Compositor) webcamShapePath(lay webcamLayout) {
	switch c.webcam.Shape {
	case config.WebcamCircle:
		c.ctx.DrawEllipse(lay.x+lay.w/2, lay.y+lay.h/2, lay.w/2, lay.h/2)
	case config.WebcamSquare:
		c.ctx.DrawRoundedRectangle(lay.x, lay.y, lay.w, lay.h, c.webcam.CornerRadius)
	default: // rectangle
		c.ctx.DrawRoundedRectangle(lay.x, lay.y, lay.w, lay.h, c.webcam.CornerRadius)
	}
}
