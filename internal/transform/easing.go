package transform

import "math"

// EaseFunc maps linear progress in [0,1] to eased progress in [0,1].
type EaseFunc func(float64) float64

// Ease resolves an easing name from a zoom region. Unknown names fall back
// to the cubic in-out default.
func Ease(name string) EaseFunc {
	switch name {
	case "linear":
		return EaseLinear
	case "ease-in":
		return EaseInCubic
	case "ease-out":
		return EaseOutCubic
	default:
		return EaseInOutCubic
	}
}

func EaseLinear(t float64) float64 { return clamp01(t) }

func EaseInCubic(t float64) float64 {
	t = clamp01(t)
	return t * t * t
}

func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}

func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad is the ripple effect's progress curve.
func EaseOutQuad(t float64) float64 {
	t = clamp01(t)
	return 1 - (1-t)*(1-t)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
