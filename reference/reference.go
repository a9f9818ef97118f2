// Package reference provides golden discrete Fourier transforms used to
// verify the cycle model, and helpers for mapping the pipeline's
// bit-reversed output positions back to frequency bins.
package reference

import (
	"errors"
	"fmt"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/sarchlab/fftsim/sample"
)

// ErrLengthMismatch is returned when a spectrum does not match the expected
// transform size.
var ErrLengthMismatch = errors.New("reference: length mismatch")

// Transform computes a forward DFT of a block of samples.
type Transform func(x []sample.Sample) []sample.Sample

// Gonum computes the forward DFT using gonum's complex FFT.
func Gonum(x []sample.Sample) []sample.Sample {
	if len(x) == 0 {
		return nil
	}

	coeffs := fourier.NewCmplxFFT(len(x)).Coefficients(nil, toComplex(x))

	return fromComplex(coeffs)
}

// GoDSP computes the forward DFT using go-dsp.
func GoDSP(x []sample.Sample) []sample.Sample {
	if len(x) == 0 {
		return nil
	}

	return fromComplex(dspfft.FFT(toComplex(x)))
}

// ByName returns the transform registered under name ("gonum" or "godsp").
func ByName(name string) (Transform, error) {
	switch name {
	case "gonum", "":
		return Gonum, nil
	case "godsp":
		return GoDSP, nil
	default:
		return nil, fmt.Errorf("reference: unknown transform %q", name)
	}
}

// Mismatch describes one output position that disagrees with the reference.
type Mismatch struct {
	Position int
	Bin      int
	Got      sample.Sample
	Want     sample.Sample
}

func (m Mismatch) String() string {
	return fmt.Sprintf("position %d (bin %d): got %v, want %v", m.Position, m.Bin, m.Got, m.Want)
}

// CompareBitReversed checks a block of pipeline outputs, indexed by output
// position, against the reference spectrum of input. Position p must hold
// bin BitReverse(p).
func CompareBitReversed(
	transform Transform,
	input, output []sample.Sample,
	tol float64,
) ([]Mismatch, error) {
	if len(input) != len(output) {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrLengthMismatch, len(input), len(output))
	}

	if !IsPowerOfTwo(len(input)) {
		return nil, fmt.Errorf("%w: size %d is not a power of two", ErrLengthMismatch, len(input))
	}

	want := transform(input)
	nbits := Log2(len(input))

	var mismatches []Mismatch
	for pos, got := range output {
		bin := ReverseBits(pos, nbits)
		if !Close(got, want[bin], tol) {
			mismatches = append(mismatches, Mismatch{
				Position: pos,
				Bin:      bin,
				Got:      got,
				Want:     want[bin],
			})
		}
	}

	return mismatches, nil
}

// Close reports whether a and b agree within tol in both components.
func Close(a, b sample.Sample, tol float64) bool {
	d := a.Sub(b)
	return d.Real <= tol && d.Real >= -tol && d.Imag <= tol && d.Imag >= -tol
}

func toComplex(x []sample.Sample) []complex128 {
	out := make([]complex128, len(x))
	for i, s := range x {
		out[i] = s.Complex128()
	}
	return out
}

func fromComplex(x []complex128) []sample.Sample {
	out := make([]sample.Sample, len(x))
	for i, c := range x {
		out[i] = sample.FromComplex(c)
	}
	return out
}
