package geometry

import (
	"fmt"
	"math"
)

// Complex is a point in the complex plane.
//
// It is a plain comparable value, so two Complex values are equal only when both parts are
// bit-for-bit equal floats, and a Complex may be used directly as a map key.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func New(re, im float64) Complex {
	return Complex{Re: re, Im: im}
}

// Mul returns (a+bi)(c+di).
func (z Complex) Mul(w Complex) Complex {
	return Complex{
		Re: z.Re*w.Re - z.Im*w.Im,
		Im: z.Re*w.Im + z.Im*w.Re,
	}
}

func (z Complex) Add(w Complex) Complex {
	return Complex{Re: z.Re + w.Re, Im: z.Im + w.Im}
}

// Norm is the Euclidean length of z.
func (z Complex) Norm() float64 {
	return math.Hypot(z.Re, z.Im)
}

func (z Complex) String() string {
	return fmt.Sprintf("(%5.1f%+5.1fi)", z.Re, z.Im)
}
