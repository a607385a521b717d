package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/xug776576-maker/screenarc-fork/internal/timeline"
)

// DefaultCursorKey is the bitmap used when an event carries no cursor key.
const DefaultCursorKey = "default"

// PreparedCursor is a recorded cursor bitmap converted to straight RGBA and
// ready to draw.
type PreparedCursor struct {
	Image  *gg.ImageBuf
	Width  int
	Height int
	HotX   int
	HotY   int
}

// CursorBitmapPreparer converts a platform's raw cursor pixel stream into a
// drawable bitmap. Each capture platform stores cursor pixels differently;
// the variant is chosen once per session from the recording metadata.
type CursorBitmapPreparer interface {
	Platform() string
	Prepare(img timeline.CursorImage) (*PreparedCursor, error)
}

// PreparerFor selects the bitmap preparer for a recording platform.
// Unknown platforms get the Linux layout, the most common capture source.
func PreparerFor(platform string) CursorBitmapPreparer {
	switch platform {
	case "windows":
		return windowsPreparer{}
	case "darwin", "macos":
		return macPreparer{}
	default:
		return linuxPreparer{}
	}
}

// PrepareAll converts every cursor image in the metadata with one preparer.
func PrepareAll(platform string, images map[string]timeline.CursorImage) (map[string]*PreparedCursor, error) {
	prep := PreparerFor(platform)
	out := make(map[string]*PreparedCursor, len(images))
	for key, img := range images {
		p, err := prep.Prepare(img)
		if err != nil {
			return nil, fmt.Errorf("prepare cursor %q (%s): %w", key, prep.Platform(), err)
		}
		out[key] = p
	}
	return out, nil
}

// windowsPreparer handles BGRA bitmaps with straight alpha.
type windowsPreparer struct{}

func (windowsPreparer) Platform() string { return "windows" }

func (windowsPreparer) Prepare(img timeline.CursorImage) (*PreparedCursor, error) {
	rgba, err := checkedRGBA(img)
	if err != nil {
		return nil, err
	}
	for i := 0; i+3 < len(rgba.Pix); i += 4 {
		rgba.Pix[i], rgba.Pix[i+2] = rgba.Pix[i+2], rgba.Pix[i]
	}
	return finishCursor(img, rgba), nil
}

// macPreparer handles RGBA bitmaps with premultiplied alpha.
type macPreparer struct{}

func (macPreparer) Platform() string { return "macos" }

func (macPreparer) Prepare(img timeline.CursorImage) (*PreparedCursor, error) {
	rgba, err := checkedRGBA(img)
	if err != nil {
		return nil, err
	}
	unpremultiply(rgba.Pix)
	return finishCursor(img, rgba), nil
}

// linuxPreparer handles X11 ARGB words with premultiplied alpha.
type linuxPreparer struct{}

func (linuxPreparer) Platform() string { return "linux" }

func (linuxPreparer) Prepare(img timeline.CursorImage) (*PreparedCursor, error) {
	rgba, err := checkedRGBA(img)
	if err != nil {
		return nil, err
	}
	// Little-endian ARGB words arrive as B,G,R,A bytes.
	for i := 0; i+3 < len(rgba.Pix); i += 4 {
		b, g, r, a := rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3]
		rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3] = r, g, b, a
	}
	unpremultiply(rgba.Pix)
	return finishCursor(img, rgba), nil
}

func checkedRGBA(img timeline.CursorImage) (*image.RGBA, error) {
	want := img.Width * img.Height * 4
	if img.Width <= 0 || img.Height <= 0 || len(img.Image) != want {
		return nil, fmt.Errorf("cursor bitmap %dx%d has %d bytes, want %d",
			img.Width, img.Height, len(img.Image), want)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(rgba.Pix, img.Image)
	return rgba, nil
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		pix[i] = uint8(min32(uint32(pix[i])*255/a, 255))
		pix[i+1] = uint8(min32(uint32(pix[i+1])*255/a, 255))
		pix[i+2] = uint8(min32(uint32(pix[i+2])*255/a, 255))
	}
}

func min32(v, limit uint32) uint32 {
	if v > limit {
		return limit
	}
	return v
}

func finishCursor(img timeline.CursorImage, rgba *image.RGBA) *PreparedCursor {
	return &PreparedCursor{
		Image:  gg.ImageBufFromImage(rgba),
		Width:  img.Width,
		Height: img.Height,
		HotX:   img.XHot,
		HotY:   img.YHot,
	}
}
