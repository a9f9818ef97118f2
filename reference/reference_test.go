package reference_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fftsim/reference"
	"github.com/sarchlab/fftsim/sample"
)

var _ = Describe("Bit reversal", func() {
	It("should reverse the low bits", func() {
		Expect(reference.ReverseBits(6, 3)).To(Equal(3))
		Expect(reference.ReverseBits(1, 4)).To(Equal(8))
		Expect(reference.ReverseBits(0, 0)).To(BeZero())
	})

	It("should take the log of powers of two", func() {
		Expect(reference.Log2(1)).To(BeZero())
		Expect(reference.Log2(4)).To(Equal(2))
		Expect(reference.Log2(1024)).To(Equal(10))
	})

	It("should produce the permutation for size 8", func() {
		Expect(reference.BitReversalIndices(8)).To(Equal([]int{0, 4, 2, 6, 1, 5, 3, 7}))
	})

	It("should be its own inverse", func() {
		idx := reference.BitReversalIndices(32)
		for i, j := range idx {
			Expect(idx[j]).To(Equal(i))
		}
	})

	It("should reorder outputs into natural order", func() {
		out := []sample.Sample{
			sample.New(0, 0), sample.New(2, 0), sample.New(1, 0), sample.New(3, 0),
		}
		natural := reference.NaturalOrder(out)
		for bin, s := range natural {
			Expect(s.Real).To(Equal(float64(bin)))
		}
	})

	It("should recognise powers of two", func() {
		Expect(reference.IsPowerOfTwo(1)).To(BeTrue())
		Expect(reference.IsPowerOfTwo(64)).To(BeTrue())
		Expect(reference.IsPowerOfTwo(0)).To(BeFalse())
		Expect(reference.IsPowerOfTwo(12)).To(BeFalse())
	})
})

var _ = Describe("Transforms", func() {
	input := []sample.Sample{
		sample.New(1, 0), sample.New(2, -1), sample.New(0, 3), sample.New(-4, 0.5),
		sample.New(7, 0), sample.New(0, 0), sample.New(-1, -1), sample.New(2, 2),
	}

	It("should agree between gonum and go-dsp", func() {
		a := reference.Gonum(input)
		b := reference.GoDSP(input)
		Expect(a).To(HaveLen(len(input)))
		for i := range a {
			Expect(reference.Close(a[i], b[i], 1e-9)).To(BeTrue(), "bin %d", i)
		}
	})

	It("should put the DC sum in bin 0", func() {
		dc := make([]sample.Sample, 4)
		for i := range dc {
			dc[i] = sample.New(1, 0)
		}
		out := reference.Gonum(dc)
		Expect(out[0].Real).To(BeNumerically("~", 4, 1e-12))
		for _, s := range out[1:] {
			Expect(s.Magnitude()).To(BeNumerically("<", 1e-12))
		}
	})

	It("should look up transforms by name", func() {
		_, err := reference.ByName("gonum")
		Expect(err).NotTo(HaveOccurred())
		_, err = reference.ByName("godsp")
		Expect(err).NotTo(HaveOccurred())
		_, err = reference.ByName("fftw")
		Expect(err).To(HaveOccurred())
	})

	Describe("CompareBitReversed", func() {
		It("should accept a bit-reversed spectrum", func() {
			want := reference.Gonum(input)
			output := make([]sample.Sample, len(want))
			for pos, bin := range reference.BitReversalIndices(len(want)) {
				output[pos] = want[bin]
			}

			mismatches, err := reference.CompareBitReversed(reference.Gonum, input, output, 1e-9)
			Expect(err).NotTo(HaveOccurred())
			Expect(mismatches).To(BeEmpty())
		})

		It("should report natural-order output as mismatched", func() {
			output := reference.Gonum(input)
			mismatches, err := reference.CompareBitReversed(reference.Gonum, input, output, 1e-9)
			Expect(err).NotTo(HaveOccurred())
			Expect(mismatches).NotTo(BeEmpty())
			Expect(mismatches[0].Position).To(Equal(1))
			Expect(mismatches[0].Bin).To(Equal(4))
		})

		It("should reject length mismatches", func() {
			_, err := reference.CompareBitReversed(reference.Gonum, input, input[:4], 1e-9)
			Expect(errors.Is(err, reference.ErrLengthMismatch)).To(BeTrue())
		})
	})
})
