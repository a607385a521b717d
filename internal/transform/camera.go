// Package transform computes the per-frame camera for cinematic zoom: a
// scale, a bounded translation that tracks smoothed mouse activity, and a
// fixed transform origin per zoom region.
package transform

// Camera is the transform applied to the framed video content for one frame.
// Translation is in output pixels, applied after scaling about the origin.
// Origin is a fraction of the content box (0.5/0.5 is the center).
type Camera struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
	OriginX    float64
	OriginY    float64
}

// Identity is the camera used when no zoom region is active.
func Identity() Camera {
	return Camera{Scale: 1, OriginX: 0.5, OriginY: 0.5}
}

// IsIdentity reports whether the camera leaves the content untouched.
func (c Camera) IsIdentity() bool {
	return c.Scale == 1 && c.TranslateX == 0 && c.TranslateY == 0
}

// ContentBox is the post-padding rectangle the video occupies in the output,
// in output pixels.
type ContentBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// clampPan bounds the translation so the scaled content still covers the
// whole content box: no background may show through at the edges. The
// horizontal and vertical bounds are independent and derive from the origin
// position and the scale.
func clampPan(tx, ty, scale float64, origin Camera, box ContentBox) (float64, float64) {
	if scale <= 1 {
		return 0, 0
	}
	maxRight := origin.OriginX * box.Width * (scale - 1)
	maxLeft := -(1 - origin.OriginX) * box.Width * (scale - 1)
	if tx > maxRight {
		tx = maxRight
	}
	if tx < maxLeft {
		tx = maxLeft
	}
	maxDown := origin.OriginY * box.Height * (scale - 1)
	maxUp := -(1 - origin.OriginY) * box.Height * (scale - 1)
	if ty > maxDown {
		ty = maxDown
	}
	if ty < maxUp {
		ty = maxUp
	}
	return tx, ty
}
