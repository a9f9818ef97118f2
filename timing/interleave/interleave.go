// Package interleave replicates DMA+FFT cores and staggers their start
// times so that several transforms overlap in time.
//
//	              +---> core 0 (DMA -> FFT) ---> out 0
//	              |
//	start --------+---> core 1 (DMA -> FFT) ---> out 1   (hop cycles later)
//	              |
//	              +---> core n (DMA -> FFT) ---> out n
//
// Cores share only the start trigger and the external memory. Each reads
// through its own port and runs independently once started.
package interleave

import (
	"fmt"

	"github.com/sarchlab/fftsim/timing/core"
	"github.com/sarchlab/fftsim/timing/dma"
)

// Config holds construction parameters for the interleaved processor.
type Config struct {
	// FFTSize is the number of points per core.
	FFTSize int
	// NumCores is the number of DMA+FFT pairs.
	NumCores int
	// HopSize is the stagger offset in cycles between core starts.
	HopSize int
	// DMA holds the bus widths shared by every core.
	DMA dma.Config
}

// Inputs holds the values presented before a clock edge.
type Inputs struct {
	Reset bool
	// Start is the global start trigger.
	Start bool
	// BaseAddrs and NumSamples hold one transfer description per core.
	BaseAddrs  []uint64
	NumSamples []int
	// MemData holds the word on each core's memory read port.
	MemData []uint64
}

// InterleavedFFT is a set of staggered DMA+FFT cores.
type InterleavedFFT struct {
	config    Config
	cores     []*core.Core
	scheduler *Scheduler
}

// New creates an interleaved processor.
func New(config Config) (*InterleavedFFT, error) {
	if config.NumCores <= 0 {
		return nil, fmt.Errorf("num_cores must be > 0, got %d", config.NumCores)
	}
	if config.HopSize < 0 {
		return nil, fmt.Errorf("hop_size must be >= 0, got %d", config.HopSize)
	}

	p := &InterleavedFFT{
		config:    config,
		cores:     make([]*core.Core, config.NumCores),
		scheduler: NewScheduler(config.NumCores, config.HopSize),
	}

	for i := range p.cores {
		c, err := core.NewCore(core.Config{FFTSize: config.FFTSize, DMA: config.DMA})
		if err != nil {
			return nil, fmt.Errorf("core %d: %w", i, err)
		}
		p.cores[i] = c
	}

	return p, nil
}

// Config returns the construction parameters.
func (p *InterleavedFFT) Config() Config {
	return p.config
}

// NumCores returns the number of cores.
func (p *InterleavedFFT) NumCores() int {
	return len(p.cores)
}

// Core returns core i.
func (p *InterleavedFFT) Core(i int) *core.Core {
	return p.cores[i]
}

// Scheduler returns the stagger scheduler.
func (p *InterleavedFFT) Scheduler() *Scheduler {
	return p.scheduler
}

// Evaluate returns every core's combinational outputs.
func (p *InterleavedFFT) Evaluate(in Inputs) []core.Outputs {
	outs := make([]core.Outputs, len(p.cores))
	for i, c := range p.cores {
		outs[i] = c.Evaluate(p.coreInputs(in, i))
	}
	return outs
}

// Tick commits one clock edge. Cores observe the scheduler's pre-edge start
// pulses.
func (p *InterleavedFFT) Tick(in Inputs) {
	for i, c := range p.cores {
		c.Tick(p.coreInputs(in, i))
	}

	p.scheduler.Tick(in.Reset, in.Start)
}

func (p *InterleavedFFT) coreInputs(in Inputs, i int) core.Inputs {
	ci := core.Inputs{
		Reset: in.Reset,
		Start: p.scheduler.Start(i),
	}

	if i < len(in.BaseAddrs) {
		ci.BaseAddr = in.BaseAddrs[i]
	}
	if i < len(in.NumSamples) {
		ci.NumSamples = in.NumSamples[i]
	}
	if i < len(in.MemData) {
		ci.MemData = in.MemData[i]
	}

	return ci
}

// Busy reports whether the scheduler or any core is still active.
func (p *InterleavedFFT) Busy() bool {
	if p.scheduler.Active() {
		return true
	}

	for _, c := range p.cores {
		if c.Busy() {
			return true
		}
	}

	return false
}

// Reset clears the scheduler and every core.
func (p *InterleavedFFT) Reset() {
	p.scheduler.Reset()
	for _, c := range p.cores {
		c.Reset()
	}
}
