// Package histogram accumulates orbit visits into per-channel count grids.
package histogram

// Image is one channel's visit counts on a Width×Height grid.
//
// Max and Min track every value written so far without rescanning the grid. Image is not
// safe for concurrent use.
type Image struct {
	Width, Height int

	pixels   []int64
	max, min int64
	written  bool
}

func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		pixels: make([]int64, width*height),
	}
}

func (img *Image) inBounds(x, y int) bool {
	return x >= 0 && x < img.Width && y >= 0 && y < img.Height
}

func (img *Image) track(v int64) {
	if !img.written {
		img.max, img.min = v, v
		img.written = true
		return
	}

	if v > img.max {
		img.max = v
	}
	if v < img.min {
		img.min = v
	}
}

// Incr adds one visit at (x, y). Out of bounds coordinates are ignored and reported false.
func (img *Image) Incr(x, y int) bool {
	if !img.inBounds(x, y) {
		return false
	}

	i := y*img.Width + x
	img.pixels[i]++
	img.track(img.pixels[i])

	return true
}

// Set overwrites the count at (x, y). Out of bounds coordinates are ignored.
func (img *Image) Set(x, y int, v int64) bool {
	if !img.inBounds(x, y) {
		return false
	}

	img.pixels[y*img.Width+x] = v
	img.track(v)

	return true
}

// At returns the count at (x, y), or 0 outside the grid.
func (img *Image) At(x, y int) int64 {
	if !img.inBounds(x, y) {
		return 0
	}
	return img.pixels[y*img.Width+x]
}

// Max is the largest value ever written, or 0 for an untouched image.
func (img *Image) Max() int64 {
	return img.max
}

// Min is the smallest value ever written, or 0 for an untouched image.
func (img *Image) Min() int64 {
	return img.min
}

// Pixels exposes the row-major counts.
func (img *Image) Pixels() []int64 {
	return img.pixels
}

// Scaled compresses the count at (x, y) to a byte with f, evaluated against the channel
// maximum. Results of f outside [0,1] are clamped.
func (img *Image) Scaled(x, y int, f ScaleFunc) uint8 {
	return ScaleByte(f, float64(img.At(x, y)), float64(img.max))
}

// ScaledDefault applies FExp(DefaultFExpFactor).
func (img *Image) ScaledDefault(x, y int) uint8 {
	return img.Scaled(x, y, FExp(DefaultFExpFactor))
}
