// Package sample defines the complex sample value that flows through the
// FFT datapath.
package sample

import (
	"fmt"
	"math"
)

// Sample is a complex value with double-precision real and imaginary parts.
// Samples are immutable and copied by value between pipeline registers.
type Sample struct {
	Real float64
	Imag float64
}

// Zero is the sample driven on idle or invalid cycles.
var Zero = Sample{}

// New creates a sample from its components.
func New(re, im float64) Sample {
	return Sample{Real: re, Imag: im}
}

// FromComplex converts a complex128 into a Sample.
func FromComplex(c complex128) Sample {
	return Sample{Real: real(c), Imag: imag(c)}
}

// Complex128 converts the sample into a complex128.
func (s Sample) Complex128() complex128 {
	return complex(s.Real, s.Imag)
}

// Add returns s + o.
func (s Sample) Add(o Sample) Sample {
	return Sample{Real: s.Real + o.Real, Imag: s.Imag + o.Imag}
}

// Sub returns s - o.
func (s Sample) Sub(o Sample) Sample {
	return Sample{Real: s.Real - o.Real, Imag: s.Imag - o.Imag}
}

// Mul returns the complex product s * o.
func (s Sample) Mul(o Sample) Sample {
	return Sample{
		Real: s.Real*o.Real - s.Imag*o.Imag,
		Imag: s.Real*o.Imag + s.Imag*o.Real,
	}
}

// Scale multiplies both components by k.
func (s Sample) Scale(k float64) Sample {
	return Sample{Real: s.Real * k, Imag: s.Imag * k}
}

// Magnitude returns |s|.
func (s Sample) Magnitude() float64 {
	return math.Hypot(s.Real, s.Imag)
}

// String formats the sample as "(re + imj)".
func (s Sample) String() string {
	return fmt.Sprintf("(%g + %gj)", s.Real, s.Imag)
}

// Twiddle returns the rotation exp(-j*2*pi*k/n).
func Twiddle(k, n int) Sample {
	angle := -2.0 * math.Pi * float64(k) / float64(n)
	return Sample{Real: math.Cos(angle), Imag: math.Sin(angle)}
}
