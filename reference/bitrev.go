package reference

import (
	"math/bits"

	"github.com/sarchlab/fftsim/sample"
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of a power of two.
func Log2(n int) int {
	return bits.TrailingZeros(uint(n))
}

// ReverseBits reverses the low nbits bits of x.
func ReverseBits(x, nbits int) int {
	if nbits == 0 {
		return 0
	}
	return int(bits.Reverse(uint(x)) >> (bits.UintSize - nbits))
}

// BitReversalIndices returns the bit-reversal permutation for a size-n
// radix-2 transform.
func BitReversalIndices(n int) []int {
	if n <= 0 {
		return nil
	}

	nbits := Log2(n)
	idx := make([]int, n)
	for i := range n {
		idx[i] = ReverseBits(i, nbits)
	}
	return idx
}

// NaturalOrder reorders a block of pipeline outputs, indexed by output
// position, into natural frequency-bin order.
func NaturalOrder(output []sample.Sample) []sample.Sample {
	idx := BitReversalIndices(len(output))
	natural := make([]sample.Sample, len(output))
	for pos, bin := range idx {
		natural[bin] = output[pos]
	}
	return natural
}
