// Package fft composes butterfly stages into a streaming N-point
// decimation-in-frequency FFT pipeline.
//
// The pipeline accepts one sample per enabled cycle and emits one sample per
// cycle after LatencyCycles. Outputs appear in bit-reversed order relative
// to natural frequency-bin order, since the cascade performs no explicit
// permutation.
package fft

import (
	"github.com/sarchlab/fftsim/sample"
	"github.com/sarchlab/fftsim/timing/stage"
)

// Inputs holds the values presented to the pipeline before a clock edge.
type Inputs struct {
	// Reset is the synchronous active-high reset.
	Reset bool
	// Valid marks Data as a sample to ingest this cycle.
	Valid bool
	// Data is the incoming sample.
	Data sample.Sample
}

// Outputs holds the externally observable values of the pipeline.
type Outputs struct {
	// Status is true while the pipeline is ingesting or flushing samples.
	Status bool
	// InIndex is the position of the current input within its block, or -1
	// when idle.
	InIndex int
	// OutIndex is the output position within the block, or -1 when OutValid
	// is false.
	OutIndex int
	// OutValid marks OutData as a transformed sample.
	OutValid bool
	// OutData is the transformed sample, or zero when invalid.
	OutData sample.Sample
}

// Control is the enable/sync pair broadcast to every stage.
type Control struct {
	Enable bool
	Sync   bool
}

// FFT is an N-point pipelined FFT built from log2(N) stages.
type FFT struct {
	plan   Plan
	stages []*stage.Stage
	// stageOut holds each stage's pre-edge output during Tick.
	stageOut []sample.Sample

	internalCnt  uint64
	samplesInCnt int
	outCntReg    int
	flushing     bool
	validPipe    *validPipe
}

// New creates an N-point pipeline.
func New(n int) (*FFT, error) {
	plan, err := NewPlan(n)
	if err != nil {
		return nil, err
	}

	f := &FFT{
		plan:      plan,
		stages:    make([]*stage.Stage, 0, plan.NumStages()),
		stageOut:  make([]sample.Sample, plan.NumStages()),
		outCntReg: n - 1,
		validPipe: newValidPipe(plan.LatencyCycles),
	}

	for _, cfg := range plan.Stages {
		s, err := stage.New(cfg.Size, cfg.Offset)
		if err != nil {
			return nil, err
		}
		f.stages = append(f.stages, s)
	}

	return f, nil
}

// N returns the transform size.
func (f *FFT) N() int {
	return f.plan.N
}

// Plan returns the stage configuration.
func (f *FFT) Plan() Plan {
	return f.plan
}

// LatencyCycles returns the pipeline latency in active cycles.
func (f *FFT) LatencyCycles() int {
	return f.plan.LatencyCycles
}

// Stages returns the stage instances in cascade order.
func (f *FFT) Stages() []*stage.Stage {
	return f.stages
}

// InternalCount returns the number of enabled cycles since reset.
func (f *FFT) InternalCount() uint64 {
	return f.internalCnt
}

// InFlight reports whether any ingested sample has not yet reached the
// output.
func (f *FFT) InFlight() bool {
	return f.validPipe.Any()
}

// Control derives the stage enable and sync signals for the given input
// validity. The pipeline keeps clocking while samples are in flight, and
// sync fires only on the first sample of a block entering an empty
// pipeline.
func (f *FFT) Control(valid bool) Control {
	inFlight := f.validPipe.Any()

	return Control{
		Enable: valid || inFlight,
		Sync:   f.samplesInCnt == 0 && valid && !inFlight,
	}
}

// Evaluate returns the combinational outputs for the current state and
// inputs.
func (f *FFT) Evaluate(in Inputs) Outputs {
	if in.Reset {
		return Outputs{InIndex: -1, OutIndex: -1}
	}

	out := Outputs{
		Status:   f.Control(in.Valid).Enable || f.flushing,
		InIndex:  -1,
		OutIndex: -1,
		OutValid: f.validPipe.Oldest(),
	}

	if out.Status {
		out.InIndex = f.samplesInCnt
	}

	if out.OutValid {
		out.OutIndex = f.outCntReg
		out.OutData = f.stages[len(f.stages)-1].Out()
	}

	return out
}

// Tick commits one clock edge. Every stage advances from the pre-edge
// output of its predecessor.
func (f *FFT) Tick(in Inputs) {
	if in.Reset {
		f.Reset()
		return
	}

	ctrl := f.Control(in.Valid)

	for i, s := range f.stages {
		f.stageOut[i] = s.Out()
	}

	for i, s := range f.stages {
		data := in.Data
		if i > 0 {
			data = f.stageOut[i-1]
		}
		s.Tick(stage.Inputs{Enable: ctrl.Enable, Sync: ctrl.Sync, Data: data})
	}

	if !ctrl.Enable {
		return
	}

	f.internalCnt++

	n := f.plan.N
	willBeValid := in.Valid
	if f.validPipe.Len() > 1 {
		willBeValid = f.validPipe.At(f.validPipe.Len() - 2)
	}

	f.validPipe.Shift(in.Valid)

	if in.Valid {
		f.samplesInCnt = (f.samplesInCnt + 1) % n
	}

	f.flushing = willBeValid

	if willBeValid {
		f.outCntReg = (f.outCntReg + 1) % n
	}

	if ctrl.Sync {
		f.outCntReg = n - 1
	}
}

// Reset clears every counter, the validity register and all stages.
func (f *FFT) Reset() {
	f.internalCnt = 0
	f.samplesInCnt = 0
	f.outCntReg = f.plan.N - 1
	f.flushing = false
	f.validPipe.Clear()

	for _, s := range f.stages {
		s.Reset()
	}
}
