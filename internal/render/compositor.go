// Package render composes output frames: a styled background, the framed and
// camera-transformed video, click effects, the replayed cursor, and the
// webcam overlay. Drawing runs on gg's software rasterizer; each stage
// finishes before the next so later stages clip and overlay cleanly.
package render

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/xug776576-maker/screenarc-fork/internal/config"
	"github.com/xug776576-maker/screenarc-fork/internal/media"
	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
	"github.com/xug776576-maker/screenarc-fork/internal/transform"
)

// shadow blur is approximated with layered silhouettes.
const shadowPasses = 4

// Compositor draws one output frame at a time into a reusable canvas.
// It is not safe for concurrent use; the export loop is sequential.
type Compositor struct {
	width  int
	height int
	aspect float64 // main video aspect ratio

	frame  config.FrameStyle
	cursor config.CursorStyle
	webcam config.WebcamStyle
	smooth config.Smoothing

	geom    timeline.Geometry
	events  *timeline.EventLog
	cursors map[string]*PreparedCursor

	ctx     *gg.Context
	bgImage *gg.ImageBuf
	out     *image.RGBA
	log     *slog.Logger
}

// NewCompositor builds a compositor for the given output size. videoAspect
// is the main video's width/height; it fixes the content box for the whole
// session. A configured background image is loaded eagerly so a bad path
// fails at setup, not mid-export.
func NewCompositor(width, height int, videoAspect float64, cfg *config.Config, geom timeline.Geometry, events *timeline.EventLog, cursors map[string]*PreparedCursor, log *slog.Logger) (*Compositor, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Compositor{
		width:   width,
		height:  height,
		aspect:  videoAspect,
		frame:   cfg.Frame,
		cursor:  cfg.Cursor,
		webcam:  cfg.Webcam,
		smooth:  cfg.Smoothing,
		geom:    geom,
		events:  events,
		cursors: cursors,
		ctx:     gg.NewContext(width, height),
		log:     log,
	}
	if c.frame.Background == config.BackgroundImage {
		img, err := gg.LoadImage(c.frame.BackgroundImg)
		if err != nil {
			return nil, fmt.Errorf("load background image: %w", err)
		}
		c.bgImage = img
	}
	return c, nil
}

// ContentBox returns the post-padding rectangle the video occupies: the
// video aspect ratio fit inside (1 - 2*padding) of the output, centered.
func (c *Compositor) ContentBox() transform.ContentBox {
	availW := float64(c.width) * (1 - 2*c.frame.Padding)
	availH := float64(c.height) * (1 - 2*c.frame.Padding)
	w, h := availW, availW/c.aspect
	if h > availH {
		h = availH
		w = availH * c.aspect
	}
	return transform.ContentBox{
		X:      (float64(c.width) - w) / 2,
		Y:      (float64(c.height) - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Compose draws a complete output frame for source time t. mainFrame must
// not be nil; webcamFrame may be. zoomEnv is the zoom envelope in [0,1] used
// to interpolate the webcam overlay size.
func (c *Compositor) Compose(mainFrame, webcamFrame *media.Frame, t float64, cam transform.Camera, zoomEnv float64) error {
	box := c.ContentBox()

	c.drawBackground()

	// Everything inside the camera transform: framed video, click ripples,
	// cursor. The transform scales about the region's fixed origin point and
	// then applies the bounded pan.
	c.ctx.Push()
	ox := box.X + cam.OriginX*box.Width
	oy := box.Y + cam.OriginY*box.Height
	c.ctx.Translate(cam.TranslateX, cam.TranslateY)
	c.ctx.Translate(ox, oy)
	c.ctx.Scale(cam.Scale, cam.Scale)
	c.ctx.Translate(-ox, -oy)

	if err := c.drawFramedVideo(mainFrame, box); err != nil {
		c.ctx.Pop()
		return err
	}
	c.drawClickRipples(t, box)
	c.drawCursor(t, box)
	c.ctx.Pop()

	// The webcam overlay sits in output space, pinned to its anchor.
	if webcamFrame != nil {
		c.drawWebcam(webcamFrame, zoomEnv)
	}
	return nil
}

// RGBA returns the composed frame as interleaved RGBA bytes. The returned
// slice is reused across frames; the encoder copies it before the next
// Compose call.
func (c *Compositor) RGBA() []byte {
	img := c.ctx.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba.Pix
	}
	// Fallback conversion for non-RGBA canvas implementations.
	if c.out == nil {
		c.out = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c.out.Set(x, y, img.At(x, y))
		}
	}
	return c.out.Pix
}

// Image exposes the composed frame for preview rendering.
func (c *Compositor) Image() image.Image { return c.ctx.Image() }

func (c *Compositor) drawBackground() {
	w, h := float64(c.width), float64(c.height)
	switch c.frame.Background {
	case config.BackgroundGradient:
		grad := gg.NewLinearGradientBrush(0, 0, w, h).
			AddColorStop(0, gg.Hex(c.frame.BackgroundA)).
			AddColorStop(1, gg.Hex(c.frame.BackgroundB))
		c.ctx.SetFillBrush(grad)
		c.ctx.DrawRectangle(0, 0, w, h)
		c.fill()
	case config.BackgroundImage:
		c.drawCoverImage(c.bgImage, 0, 0, w, h)
	default:
		c.ctx.SetHexColor(c.frame.BackgroundA)
		c.ctx.DrawRectangle(0, 0, w, h)
		c.fill()
	}
}

func (c *Compositor) drawFramedVideo(f *media.Frame, box transform.ContentBox) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("compose: empty main frame")
	}

	c.drawShadow(box)

	c.ctx.DrawRoundedRectangle(box.X, box.Y, box.Width, box.Height, c.frame.CornerRadius)
	c.ctx.Clip()
	img := frameImage(f)
	c.ctx.DrawImageEx(img, gg.DrawImageOptions{
		X:             box.X,
		Y:             box.Y,
		DstWidth:      box.Width,
		DstHeight:     box.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
	})
	c.ctx.ResetClip()

	if c.frame.BorderWidth > 0 {
		c.ctx.SetHexColor(c.frame.BorderColor)
		c.ctx.SetLineWidth(c.frame.BorderWidth)
		c.ctx.DrawRoundedRectangle(box.X, box.Y, box.Width, box.Height, c.frame.CornerRadius)
		c.stroke()
	}
	return nil
}

// drawShadow lays a blurred-looking drop shadow under the content rect by
// stacking progressively larger, fainter rounded silhouettes.
func (c *Compositor) drawShadow(box transform.ContentBox) {
	if c.frame.ShadowBlur <= 0 {
		return
	}
	col := gg.Hex(c.frame.ShadowColor)
	for i := shadowPasses; i >= 1; i-- {
		grow := c.frame.ShadowBlur * float64(i) / shadowPasses
		alpha := col.A / (shadowPasses * float64(i))
		c.ctx.SetFillBrush(gg.SolidRGBA(col.R, col.G, col.B, alpha))
		c.ctx.DrawRoundedRectangle(
			box.X-grow+c.frame.ShadowOffsetX,
			box.Y-grow+c.frame.ShadowOffsetY,
			box.Width+2*grow,
			box.Height+2*grow,
			c.frame.CornerRadius+grow,
		)
		c.fill()
	}
}

func (c *Compositor) drawCoverImage(img *gg.ImageBuf, x, y, w, h float64) {
	iw, ih := float64(img.Width()), float64(img.Height())
	if iw == 0 || ih == 0 {
		return
	}
	// Cover fit: scale to fill, crop the overflowing dimension.
	scale := w / iw
	if s := h / ih; s > scale {
		scale = s
	}
	cropW := w / scale
	cropH := h / scale
	src := image.Rect(
		int((iw-cropW)/2), int((ih-cropH)/2),
		int((iw+cropW)/2), int((ih+cropH)/2),
	)
	c.ctx.DrawImageEx(img, gg.DrawImageOptions{
		X: x, Y: y,
		DstWidth: w, DstHeight: h,
		SrcRect:       &src,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
	})
}

func (c *Compositor) fill() {
	if err := c.ctx.Fill(); err != nil {
		c.log.Warn("fill failed", "err", err)
	}
}

func (c *Compositor) stroke() {
	if err := c.ctx.Stroke(); err != nil {
		c.log.Warn("stroke failed", "err", err)
	}
}

// toContent maps a recording-space coordinate into the content box.
func (c *Compositor) toContent(x, y float64, box transform.ContentBox) (float64, float64) {
	cx := box.X + (x-c.geom.X)/c.geom.Width*box.Width
	cy := box.Y + (y-c.geom.Y)/c.geom.Height*box.Height
	return cx, cy
}

// contentScale is the recording-to-content pixel ratio, used to size cursor
// bitmaps consistently with the video.
func (c *Compositor) contentScale(box transform.ContentBox) float64 {
	return box.Width / c.geom.Width
}

func frameImage(f *media.Frame) *gg.ImageBuf {
	return gg.ImageBufFromImage(&image.RGBA{
		Pix:    f.Data,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	})
}
