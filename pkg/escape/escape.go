// Package escape classifies seeds of the quadratic map as escaping or bounded.
package escape

import (
	"math"

	"github.com/willbeason/buddhabrot/pkg/geometry"
	"github.com/willbeason/buddhabrot/pkg/transforms"
)

// Radius is the escape radius. An orbit has escaped once |z| > Radius.
const Radius = 2.0

// WillLoopForever reports whether c lies in the main cardioid or the period-2 bulb, the two
// largest regions whose orbits never escape. A false result says nothing about c.
func WillLoopForever(c geometry.Complex) bool {
	x, y := c.Re, c.Im

	xq := x - 0.25
	p := math.Sqrt(xq*xq + y*y)
	if x < p-2.0*p*p+0.25 {
		return true
	}

	xb := x + 1.0
	return xb*xb+y*y < 0.0625
}

// Result describes how an orbit ended.
type Result struct {
	// Length is the number of map applications performed, at most the iteration budget.
	Length int
	// Escaped is set when some iterate had |z| > Radius.
	Escaped bool
	// Cycled is set when iteration stopped early because a checkpoint value repeated.
	Cycled bool
}

// An Iterator runs orbits of a map. It reuses its cycle table between orbits, so a single
// Iterator must not be shared between goroutines.
type Iterator struct {
	Map transforms.Mandelbrot

	periods map[geometry.Complex]struct{}
}

// Orbit iterates z <- z² + c from z = 0 for up to maxIterations steps. visit, if non-nil, is
// called with the step number (starting at 1) and the new iterate, including the iterate
// that escapes.
//
// At steps that are powers of two the iterate is recorded; seeing an already recorded value
// means the orbit is periodic and iteration stops without escaping.
func (it *Iterator) Orbit(c geometry.Complex, maxIterations int, visit func(n int, z geometry.Complex)) Result {
	if it.periods == nil {
		it.periods = make(map[geometry.Complex]struct{})
	} else {
		clear(it.periods)
	}

	var result Result
	z := geometry.Complex{}
	for n := 1; n <= maxIterations; n++ {
		z = it.Map.Next(z, c)
		result.Length = n

		if visit != nil {
			visit(n, z)
		}

		if z.Norm() > Radius {
			result.Escaped = true
			return result
		}

		if n&(n-1) == 0 {
			if _, seen := it.periods[z]; seen {
				result.Cycled = true
				return result
			}
			it.periods[z] = struct{}{}
		}
	}

	return result
}

// Orbit runs a single orbit with a fresh Iterator.
func Orbit(c geometry.Complex, maxIterations int, visit func(n int, z geometry.Complex)) Result {
	var it Iterator
	return it.Orbit(c, maxIterations, visit)
}
