// Package system ties the shared memory and the interleaved FFT processor
// into one clocked design.
//
// Every cycle is evaluated in a fixed order: the memory's registered read
// data feeds each DMA, each DMA feeds its FFT, and the scheduler's registered
// start pulses feed each DMA. All next states are computed from pre-edge
// values and then committed together.
package system

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sarchlab/fftsim/sample"
	"github.com/sarchlab/fftsim/timing/config"
	"github.com/sarchlab/fftsim/timing/core"
	"github.com/sarchlab/fftsim/timing/interleave"
	"github.com/sarchlab/fftsim/timing/memory"
)

// ErrCycleLimit is returned when a run does not go idle within the cycle
// limit.
var ErrCycleLimit = errors.New("cycle limit reached before the system went idle")

const defaultCycleLimit = 1 << 20

// Inputs holds the testbench-driven values for one cycle.
type Inputs struct {
	Reset bool
	// Start is the global start trigger.
	Start bool
	// BaseAddrs and NumSamples describe each core's transfer. They are
	// sampled by a core's DMA when its own start pulse arrives.
	BaseAddrs  []uint64
	NumSamples []int

	WriteEnable bool
	WriteAddr   uint64
	WriteData   uint64
}

// Outputs is a snapshot of every core's outputs during one cycle.
type Outputs struct {
	Cycle uint64
	Cores []core.Outputs
}

// Output is one valid transformed sample.
type Output struct {
	Cycle uint64
	Core  int
	// Index is the output position within the block. Position p holds
	// frequency bin bitrev(p).
	Index int
	Data  sample.Sample
}

// Valid returns the valid transformed samples in the snapshot.
func (o Outputs) Valid() []Output {
	var valid []Output
	for i, c := range o.Cores {
		if c.FFT.OutValid {
			valid = append(valid, Output{
				Cycle: o.Cycle,
				Core:  i,
				Index: c.FFT.OutIndex,
				Data:  c.FFT.OutData,
			})
		}
	}
	return valid
}

// Stats holds activity counters for the whole system.
type Stats struct {
	Cycles        uint64
	Starts        uint64
	IgnoredStarts uint64
	Cores         []core.Stats
}

// Stimulus returns the inputs for a cycle.
type Stimulus func(cycle uint64) Inputs

// Hold returns a stimulus that drives the same inputs every cycle.
func Hold(in Inputs) Stimulus {
	return func(uint64) Inputs { return in }
}

// Transfer describes one transfer per core.
type Transfer struct {
	BaseAddrs  []uint64
	NumSamples []int
}

// BlockTransfer returns the transfer that gives core i the block of n words
// starting at i*n.
func BlockTransfer(numCores, n int) Transfer {
	t := Transfer{
		BaseAddrs:  make([]uint64, numCores),
		NumSamples: make([]int, numCores),
	}
	for i := 0; i < numCores; i++ {
		t.BaseAddrs[i] = uint64(i * n)
		t.NumSamples[i] = n
	}
	return t
}

// Option is a functional option for configuring the System.
type Option func(*System)

// WithLogger sets the logger used for start, transfer and reset events.
func WithLogger(logger logr.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

// WithCycleLimit bounds the cycles a run may take before giving up.
func WithCycleLimit(limit uint64) Option {
	return func(s *System) {
		s.cycleLimit = limit
	}
}

// System is the shared memory plus the interleaved FFT processor.
type System struct {
	config *config.Config
	memory *memory.Memory
	fft    *interleave.InterleavedFFT

	logger     logr.Logger
	cycleLimit uint64

	cycle   uint64
	stats   Stats
	dmaBusy []bool
}

// New builds a system from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m, err := memory.New(cfg.Memory())
	if err != nil {
		return nil, err
	}

	f, err := interleave.New(cfg.Interleave())
	if err != nil {
		return nil, err
	}

	s := &System{
		config:     cfg.Clone(),
		memory:     m,
		fft:        f,
		logger:     logr.Discard(),
		cycleLimit: defaultCycleLimit,
		dmaBusy:    make([]bool, cfg.NumCores),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Config returns a copy of the system configuration.
func (s *System) Config() *config.Config {
	return s.config.Clone()
}

// Memory returns the shared memory.
func (s *System) Memory() *memory.Memory {
	return s.memory
}

// InterleavedFFT returns the interleaved processor.
func (s *System) InterleavedFFT() *interleave.InterleavedFFT {
	return s.fft
}

// Cycle returns the number of committed clock edges.
func (s *System) Cycle() uint64 {
	return s.cycle
}

// Busy reports whether the scheduler or any core is active.
func (s *System) Busy() bool {
	return s.fft.Busy()
}

// Evaluate returns the outputs for the current cycle without committing.
func (s *System) Evaluate(in Inputs) Outputs {
	return Outputs{
		Cycle: s.cycle,
		Cores: s.fft.Evaluate(s.fftInputs(in)),
	}
}

// Step evaluates one cycle, commits the clock edge and returns the outputs
// observed during the cycle.
func (s *System) Step(in Inputs) Outputs {
	fin := s.fftInputs(in)
	out := Outputs{
		Cycle: s.cycle,
		Cores: s.fft.Evaluate(fin),
	}

	addrs := make([]uint64, len(out.Cores))
	for i, c := range out.Cores {
		addrs[i] = c.MemAddr
	}

	s.observe(in, out)

	s.fft.Tick(fin)
	s.memory.Tick(memory.Inputs{
		Reset:       in.Reset,
		WriteEnable: in.WriteEnable,
		WriteAddr:   in.WriteAddr,
		WriteData:   in.WriteData,
		ReadAddrs:   addrs,
	})

	s.cycle++
	s.stats.Cycles++

	return out
}

func (s *System) fftInputs(in Inputs) interleave.Inputs {
	memData := make([]uint64, s.fft.NumCores())
	for i := range memData {
		memData[i] = s.memory.DataOut(i)
	}

	return interleave.Inputs{
		Reset:      in.Reset,
		Start:      in.Start,
		BaseAddrs:  in.BaseAddrs,
		NumSamples: in.NumSamples,
		MemData:    memData,
	}
}

func (s *System) observe(in Inputs, out Outputs) {
	if in.Reset {
		s.logger.V(1).Info("reset", "cycle", s.cycle)
		clear(s.dmaBusy)
		return
	}

	scheduler := s.fft.Scheduler()
	if in.Start {
		if scheduler.Accepts(in.Start) {
			s.stats.Starts++
			s.logger.V(1).Info("start accepted", "cycle", s.cycle)
		} else {
			s.stats.IgnoredStarts++
			s.logger.V(1).Info("start ignored", "cycle", s.cycle,
				"staggerCounter", scheduler.Counter())
		}
	}

	for i, c := range out.Cores {
		if scheduler.Start(i) {
			s.logger.V(1).Info("core start", "cycle", s.cycle, "core", i)
		}
		if s.dmaBusy[i] && !c.Busy {
			s.logger.V(1).Info("transfer complete", "cycle", s.cycle, "core", i)
		}
		s.dmaBusy[i] = c.Busy
	}
}

// RunCycles steps n cycles and returns the valid outputs.
func (s *System) RunCycles(n int, stim Stimulus) []Output {
	var valid []Output
	for i := 0; i < n; i++ {
		out := s.Step(stim(s.cycle))
		valid = append(valid, out.Valid()...)
	}
	return valid
}

// RunUntilIdle steps at least one cycle and continues until the system is
// idle. It returns the valid outputs seen along the way.
func (s *System) RunUntilIdle(stim Stimulus) ([]Output, error) {
	var valid []Output
	for n := uint64(0); ; n++ {
		if n >= s.cycleLimit {
			return valid, fmt.Errorf("after %d cycles: %w", n, ErrCycleLimit)
		}

		out := s.Step(stim(s.cycle))
		valid = append(valid, out.Valid()...)

		if !s.Busy() {
			return valid, nil
		}
	}
}

// Run pulses the global start with the given transfer and runs until every
// core has drained.
func (s *System) Run(t Transfer) ([]Output, error) {
	first := s.cycle
	return s.RunUntilIdle(func(cycle uint64) Inputs {
		return Inputs{
			Start:      cycle == first,
			BaseAddrs:  t.BaseAddrs,
			NumSamples: t.NumSamples,
		}
	})
}

// Stats returns the activity counters.
func (s *System) Stats() Stats {
	stats := s.stats
	stats.Cores = make([]core.Stats, s.fft.NumCores())
	for i := range stats.Cores {
		stats.Cores[i] = s.fft.Core(i).Stats()
	}
	return stats
}

// Reset clears the memory, the processor and the statistics.
func (s *System) Reset() {
	s.memory.Reset()
	s.fft.Reset()
	s.cycle = 0
	s.stats = Stats{}
	clear(s.dmaBusy)
}
