package transforms

import "github.com/willbeason/buddhabrot/pkg/geometry"

// Mandelbrot is the quadratic map z -> z² + c.
type Mandelbrot struct{}

func (Mandelbrot) Next(z, c geometry.Complex) geometry.Complex {
	return z.Mul(z).Add(c)
}
