package fft_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fftsim/reference"
	"github.com/sarchlab/fftsim/sample"
	"github.com/sarchlab/fftsim/timing/fft"
)

const tol = 1e-9

type observed struct {
	cycle int
	index int
	data  sample.Sample
}

// drive feeds the stream one sample per cycle (nil entries are idle cycles)
// and records every valid output.
func drive(f *fft.FFT, stream []*sample.Sample) []observed {
	var outs []observed
	for cycle, s := range stream {
		in := fft.Inputs{}
		if s != nil {
			in.Valid = true
			in.Data = *s
		}

		o := f.Evaluate(in)
		if o.OutValid {
			outs = append(outs, observed{cycle: cycle, index: o.OutIndex, data: o.OutData})
		}

		f.Tick(in)
	}
	return outs
}

func stream(idle int, blocks ...[]sample.Sample) []*sample.Sample {
	var s []*sample.Sample
	for _, b := range blocks {
		for i := range b {
			s = append(s, &b[i])
		}
	}
	for i := 0; i < idle; i++ {
		s = append(s, nil)
	}
	return s
}

func randomBlock(r *rand.Rand, n int) []sample.Sample {
	b := make([]sample.Sample, n)
	for i := range b {
		b[i] = sample.New(r.Float64()*2-1, r.Float64()*2-1)
	}
	return b
}

func dataOf(outs []observed) []sample.Sample {
	d := make([]sample.Sample, len(outs))
	for i, o := range outs {
		d[i] = o.data
	}
	return d
}

func expectMatchesReference(input []sample.Sample, outs []observed) {
	mismatches, err := reference.CompareBitReversed(reference.Gonum, input, dataOf(outs), tol)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	ExpectWithOffset(1, mismatches).To(BeEmpty())
}

func newFFT(n int) *fft.FFT {
	f, err := fft.New(n)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Plan", func() {
	It("should compute stage sizes, offsets and latency for N=4", func() {
		plan, err := fft.NewPlan(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Stages).To(Equal([]fft.StageConfig{
			{Size: 4, Offset: 0, Latency: 3},
			{Size: 2, Offset: 1, Latency: 2},
		}))
		Expect(plan.LatencyCycles).To(Equal(5))
	})

	It("should compute offsets for deeper pipelines", func() {
		plan, err := fft.NewPlan(16)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.NumStages()).To(Equal(4))

		offsets := []int{}
		for _, s := range plan.Stages {
			offsets = append(offsets, s.Offset)
		}
		Expect(offsets).To(Equal([]int{0, 7, 2, 1}))
		Expect(plan.LatencyCycles).To(Equal(19))
	})

	It("should reject invalid sizes", func() {
		for _, n := range []int{0, 1, 3, 6, 100} {
			_, err := fft.NewPlan(n)
			Expect(errors.Is(err, fft.ErrInvalidSize)).To(BeTrue(), "size %d", n)

			_, err = fft.New(n)
			Expect(errors.Is(err, fft.ErrInvalidSize)).To(BeTrue(), "size %d", n)
		}
	})
})

var _ = Describe("FFT", func() {
	var r *rand.Rand

	BeforeEach(func() {
		r = rand.New(rand.NewSource(42))
	})

	Describe("latency", func() {
		for _, n := range []int{2, 4, 8, 16, 32} {
			n := n
			It("should emit the first output LatencyCycles after the first input", func() {
				f := newFFT(n)
				outs := drive(f, stream(4*n, randomBlock(r, n)))

				Expect(outs).To(HaveLen(n))
				Expect(outs[0].cycle).To(Equal(f.LatencyCycles()))
				for i, o := range outs {
					Expect(o.cycle).To(Equal(f.LatencyCycles() + i))
					Expect(o.index).To(Equal(i))
				}
			})
		}
	})

	Describe("transform", func() {
		It("should map an impulse to all ones", func() {
			n := 8
			block := make([]sample.Sample, n)
			block[0] = sample.New(1, 0)

			outs := drive(newFFT(n), stream(3*n, block))

			Expect(outs).To(HaveLen(n))
			for _, o := range outs {
				Expect(o.data.Real).To(BeNumerically("~", 1, tol))
				Expect(o.data.Imag).To(BeNumerically("~", 0, tol))
			}
		})

		It("should put a DC block into output position 0", func() {
			n := 8
			block := make([]sample.Sample, n)
			for i := range block {
				block[i] = sample.New(1, 0)
			}

			outs := drive(newFFT(n), stream(3*n, block))

			Expect(outs).To(HaveLen(n))
			Expect(outs[0].index).To(Equal(0))
			Expect(outs[0].data.Magnitude()).To(BeNumerically("~", float64(n), tol))
			for _, o := range outs[1:] {
				Expect(o.data.Magnitude()).To(BeNumerically("<", tol))
			}
		})

		It("should match the reference in bit-reversed order", func() {
			for _, n := range []int{4, 16, 64} {
				block := randomBlock(r, n)
				outs := drive(newFFT(n), stream(3*n, block))
				Expect(outs).To(HaveLen(n))
				expectMatchesReference(block, outs)
			}
		})

		It("should be linear", func() {
			n := 16
			x := randomBlock(r, n)
			y := randomBlock(r, n)
			a, b := 2.5, -0.75

			mixed := make([]sample.Sample, n)
			for i := range mixed {
				mixed[i] = x[i].Scale(a).Add(y[i].Scale(b))
			}

			fx := dataOf(drive(newFFT(n), stream(3*n, x)))
			fy := dataOf(drive(newFFT(n), stream(3*n, y)))
			fm := dataOf(drive(newFFT(n), stream(3*n, mixed)))

			Expect(fm).To(HaveLen(n))
			for i := range fm {
				want := fx[i].Scale(a).Add(fy[i].Scale(b))
				Expect(reference.Close(fm[i], want, tol)).To(BeTrue(), "position %d", i)
			}
		})
	})

	Describe("block handling", func() {
		It("should isolate back-to-back blocks", func() {
			n := 8
			first := randomBlock(r, n)
			second := randomBlock(r, n)

			outs := drive(newFFT(n), stream(3*n, first, second))

			Expect(outs).To(HaveLen(2 * n))
			expectMatchesReference(first, outs[:n])
			expectMatchesReference(second, outs[n:])
			Expect(outs[n].index).To(Equal(0))
			Expect(outs[n].cycle).To(Equal(outs[n-1].cycle + 1))
		})

		It("should re-synchronize blocks separated by an idle gap", func() {
			n := 4
			f := newFFT(n)
			first := randomBlock(r, n)
			second := randomBlock(r, n)

			outs := drive(f, stream(3*n, first))
			Expect(f.InFlight()).To(BeFalse())
			outs2 := drive(f, stream(3*n, second))

			expectMatchesReference(first, outs)
			expectMatchesReference(second, outs2)
			Expect(outs2[0].cycle).To(Equal(f.LatencyCycles()))
		})

		It("should treat samples past N as the start of a new block", func() {
			n := 4
			ramp := make([]sample.Sample, 10)
			for i := range ramp {
				ramp[i] = sample.New(float64(i), 0)
			}

			outs := drive(newFFT(n), stream(4*n, ramp))

			Expect(outs).To(HaveLen(10))
			expectMatchesReference(ramp[0:4], outs[0:4])
			expectMatchesReference(ramp[4:8], outs[4:8])

			// The trailing partial block is padded by the zero samples
			// clocked in while flushing.
			Expect(outs[8].index).To(Equal(0))
			Expect(outs[8].data.Real).To(BeNumerically("~", 17, tol))
			Expect(outs[9].index).To(Equal(1))
			Expect(outs[9].data.Real).To(BeNumerically("~", -1, tol))
		})
	})

	Describe("control and status", func() {
		var f *fft.FFT

		BeforeEach(func() {
			f = newFFT(4)
		})

		It("should be idle after construction", func() {
			o := f.Evaluate(fft.Inputs{})
			Expect(o.Status).To(BeFalse())
			Expect(o.InIndex).To(Equal(-1))
			Expect(o.OutIndex).To(Equal(-1))
			Expect(o.OutValid).To(BeFalse())
			Expect(o.OutData).To(Equal(sample.Zero))
		})

		It("should sync only on the first sample into an empty pipeline", func() {
			Expect(f.Control(false)).To(Equal(fft.Control{}))
			Expect(f.Control(true)).To(Equal(fft.Control{Enable: true, Sync: true}))

			f.Tick(fft.Inputs{Valid: true, Data: sample.New(1, 0)})
			Expect(f.Control(true)).To(Equal(fft.Control{Enable: true, Sync: false}))
			Expect(f.Control(false)).To(Equal(fft.Control{Enable: true, Sync: false}))
		})

		It("should report the input position while active", func() {
			for i := 0; i < 3; i++ {
				in := fft.Inputs{Valid: true, Data: sample.New(1, 0)}
				o := f.Evaluate(in)
				Expect(o.Status).To(BeTrue())
				Expect(o.InIndex).To(Equal(i))
				f.Tick(in)
			}
		})

		It("should keep clocking until the pipeline drains", func() {
			drive(f, stream(0, randomBlock(r, 4)))
			Expect(f.Evaluate(fft.Inputs{}).Status).To(BeTrue())

			drive(f, stream(f.LatencyCycles()+1))
			Expect(f.InFlight()).To(BeFalse())
			Expect(f.Evaluate(fft.Inputs{}).Status).To(BeFalse())

			count := f.InternalCount()
			f.Tick(fft.Inputs{})
			Expect(f.InternalCount()).To(Equal(count))
		})

		It("should stop flushing when reset mid-drain", func() {
			drive(f, stream(0, randomBlock(r, 4)))
			drive(f, stream(2))
			Expect(f.Evaluate(fft.Inputs{}).Status).To(BeTrue())

			f.Tick(fft.Inputs{Reset: true})

			Expect(f.Evaluate(fft.Inputs{}).Status).To(BeFalse())
			f.Tick(fft.Inputs{})
			Expect(f.Evaluate(fft.Inputs{}).Status).To(BeFalse())
			Expect(f.InternalCount()).To(BeZero())
		})

		It("should clear all state on reset", func() {
			drive(f, stream(0, randomBlock(r, 4)))
			Expect(f.InFlight()).To(BeTrue())

			Expect(f.Evaluate(fft.Inputs{Reset: true})).To(Equal(fft.Outputs{InIndex: -1, OutIndex: -1}))
			f.Tick(fft.Inputs{Reset: true})

			Expect(f.InFlight()).To(BeFalse())
			Expect(f.InternalCount()).To(BeZero())
			for i, s := range f.Stages() {
				Expect(s.Counter()).To(Equal(f.Plan().Stages[i].Offset))
				Expect(s.Out()).To(Equal(sample.Zero))
			}

			block := randomBlock(r, 4)
			expectMatchesReference(block, drive(f, stream(20, block)))
		})
	})
})
