// Package stimulus builds the packed memory words that the DMA engines
// stream into the FFT cores.
//
// A 64-bit word carries the real part in its upper 32 bits and the
// imaginary part in its lower 32 bits, both unsigned.
package stimulus

import (
	"github.com/sarchlab/fftsim/sample"
)

// PackWord packs a real and an imaginary part into one memory word.
func PackWord(re, im uint32) uint64 {
	return uint64(re)<<32 | uint64(im)
}

// PackSample packs a sample, truncating each part to an unsigned 32-bit
// integer.
func PackSample(s sample.Sample) uint64 {
	return PackWord(uint32(s.Real), uint32(s.Imag))
}

// Impulse returns n words holding a unit impulse at position 0.
func Impulse(n int) []uint64 {
	words := make([]uint64, n)
	if n > 0 {
		words[0] = PackWord(1, 0)
	}
	return words
}

// DC returns n words with the constant real value v.
func DC(n int, v uint32) []uint64 {
	words := make([]uint64, n)
	for i := range words {
		words[i] = PackWord(v, 0)
	}
	return words
}

// Ramp returns n words where word i holds the real value i.
func Ramp(n int) []uint64 {
	words := make([]uint64, n)
	for i := range words {
		words[i] = PackWord(uint32(i), 0)
	}
	return words
}

// Alternating returns n words alternating between amp and zero, which puts
// all energy other than DC into the Nyquist bin.
func Alternating(n int, amp uint32) []uint64 {
	words := make([]uint64, n)
	for i := range words {
		if i%2 == 0 {
			words[i] = PackWord(amp, 0)
		}
	}
	return words
}

// Tone returns n words of a complex exponential at frequency bin, scaled by
// amp and lifted by offset in both parts so that it stays unsigned.
func Tone(n, bin int, offset, amp float64) []uint64 {
	words := make([]uint64, n)
	lift := sample.New(offset, offset)
	for i := range words {
		words[i] = PackSample(sample.Twiddle(i*bin, n).Scale(amp).Add(lift))
	}
	return words
}

// Samples converts 64-bit packed words back into samples.
func Samples(words []uint64) []sample.Sample {
	s := make([]sample.Sample, len(words))
	for i, w := range words {
		s[i] = sample.New(float64(uint32(w>>32)), float64(uint32(w)))
	}
	return s
}

// ForDataWidth repacks 64-bit words for a narrower data bus, which carries
// only the real part in its low bits. Words are returned unchanged for a
// 64-bit bus.
func ForDataWidth(words []uint64, width uint) []uint64 {
	if width >= 64 {
		return words
	}

	mask := uint64(1)<<width - 1
	narrow := make([]uint64, len(words))
	for i, w := range words {
		narrow[i] = (w >> 32) & mask
	}
	return narrow
}
