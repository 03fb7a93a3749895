package viewport

import (
	"math"
	"math/rand/v2"

	"github.com/willbeason/buddhabrot/pkg/geometry"
)

// StartZoom is the half-extent of the view at zoom level 0.
const StartZoom = 2.0

// Region is an axis-aligned rectangle of the complex plane, [StartX,StopX)×[StartY,StopY).
type Region struct {
	StartX, StopX float64
	StartY, StopY float64
}

// Centered returns the square view around center at the given zoom level. Each zoom level
// halves the extent.
func Centered(center geometry.Complex, zoom float64) Region {
	half := StartZoom / math.Pow(2.0, zoom)
	return Region{
		StartX: center.Re - half,
		StopX:  center.Re + half,
		StartY: center.Im - half,
		StopY:  center.Im + half,
	}
}

func (r Region) Width() float64 {
	return r.StopX - r.StartX
}

func (r Region) Height() float64 {
	return r.StopY - r.StartY
}

func (r Region) Center() geometry.Complex {
	return geometry.New((r.StartX+r.StopX)*0.5, (r.StartY+r.StopY)*0.5)
}

// Scale grows (s > 1) or shrinks the region about its center.
func (r Region) Scale(s float64) Region {
	c := r.Center()
	hw := r.Width() * 0.5 * s
	hh := r.Height() * 0.5 * s
	return Region{
		StartX: c.Re - hw,
		StopX:  c.Re + hw,
		StartY: c.Im - hh,
		StopY:  c.Im + hh,
	}
}

// Sample draws a point uniformly from the region.
func (r Region) Sample(rng *rand.Rand) geometry.Complex {
	return geometry.New(
		r.StartX+rng.Float64()*r.Width(),
		r.StartY+rng.Float64()*r.Height(),
	)
}

// Pixel maps z onto a width×height raster covering the region. ok is false when z falls
// outside [0,width)×[0,height), including the StopX and StopY edges.
func (r Region) Pixel(z geometry.Complex, width, height int) (x, y int, ok bool) {
	fx := (z.Re - r.StartX) / r.Width() * float64(width)
	fy := (z.Im - r.StartY) / r.Height() * float64(height)

	// Written negated so NaN lands out of bounds.
	if !(fx >= 0 && fx < float64(width)) || !(fy >= 0 && fy < float64(height)) {
		return -1, -1, false
	}

	return int(math.Floor(fx)), int(math.Floor(fy)), true
}
