package histogram

import "math"

// A ScaleFunc maps a raw count and a reference maximum to a brightness in [0,1]. It should
// be monotonic in value.
type ScaleFunc func(value, max float64) float64

// DefaultFExpFactor is the compression rate used by ScaledDefault.
const DefaultFExpFactor = 0.001

func fexp(x, k float64) float64 {
	return 1.0 - math.Exp(-k*x)
}

// FExp is 1 - e^(-k·value), normalized by the same curve at max. Unlike linear scaling it
// keeps sparse pixels visibly distinct from empty ones.
func FExp(k float64) ScaleFunc {
	return func(value, max float64) float64 {
		return fexp(value, k) / fexp(max, k)
	}
}

// Log is ln(k·value + 1), normalized at max.
func Log(k float64) ScaleFunc {
	return func(value, max float64) float64 {
		return math.Log1p(k*value) / math.Log1p(k*max)
	}
}

func Linear(value, max float64) float64 {
	return value / max
}

// Ceil lights every visited pixel fully.
func Ceil(value, _ float64) float64 {
	if value > 0 {
		return 1.0
	}
	return 0.0
}

// ScaleByte evaluates f and converts to a byte, mapping NaN (as from an empty channel) to 0.
func ScaleByte(f ScaleFunc, value, max float64) uint8 {
	if max <= 0 {
		return 0
	}

	s := f(value, max)
	switch {
	case math.IsNaN(s) || s <= 0:
		return 0
	case s >= 1:
		return math.MaxUint8
	}

	return uint8(s * math.MaxUint8)
}
