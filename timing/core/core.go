// Package core provides one FFT core: a DMA engine feeding an FFT pipeline.
// The DMA's unpacked sample and valid pulse drive the FFT input in the same
// cycle, so both advance together on every clock edge.
package core

import (
	"github.com/sarchlab/fftsim/timing/dma"
	"github.com/sarchlab/fftsim/timing/fft"
)

// Stats holds activity counters for a core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// SamplesIn is the number of valid samples handed from DMA to FFT.
	SamplesIn uint64
	// SamplesOut is the number of valid transformed samples emitted.
	SamplesOut uint64
	// Blocks is the number of block re-synchronizations.
	Blocks uint64
	// Transfers is the number of DMA transfers started.
	Transfers uint64
}

// Config holds the construction parameters of a core.
type Config struct {
	// FFTSize is the transform size N.
	FFTSize int
	// DMA holds the bus widths.
	DMA dma.Config
}

// Inputs holds the values presented to the core before a clock edge.
type Inputs struct {
	Reset      bool
	Start      bool
	BaseAddr   uint64
	NumSamples int
	// MemData is the word on this core's memory read port.
	MemData uint64
}

// Outputs holds the values a core drives.
type Outputs struct {
	// MemAddr is the address on this core's memory read port.
	MemAddr uint64
	// Busy is the DMA busy flag.
	Busy bool
	// FFTIn is the sample handed from DMA to FFT this cycle.
	FFTIn dma.Outputs
	// FFT is the pipeline's observable output.
	FFT fft.Outputs
}

// Core is one DMA+FFT pair.
type Core struct {
	// DMA is the memory front end.
	DMA *dma.DMA
	// FFT is the transform pipeline.
	FFT *fft.FFT

	stats Stats
}

// NewCore creates a core with the given configuration.
func NewCore(config Config) (*Core, error) {
	f, err := fft.New(config.FFTSize)
	if err != nil {
		return nil, err
	}

	return &Core{
		DMA: dma.New(config.DMA),
		FFT: f,
	}, nil
}

// Evaluate returns the combinational outputs for the current state.
func (c *Core) Evaluate(in Inputs) Outputs {
	dmaOut := c.DMA.Evaluate(in.MemData)

	return Outputs{
		MemAddr: dmaOut.MemAddr,
		Busy:    dmaOut.Busy,
		FFTIn:   dmaOut,
		FFT:     c.FFT.Evaluate(c.fftInputs(in, dmaOut)),
	}
}

// Tick commits one clock edge for both the DMA and the FFT.
func (c *Core) Tick(in Inputs) {
	dmaOut := c.DMA.Evaluate(in.MemData)
	fftIn := c.fftInputs(in, dmaOut)

	c.stats.Cycles++
	if !in.Reset {
		c.countActivity(in, fftIn)
	}

	c.FFT.Tick(fftIn)
	c.DMA.Tick(dma.Inputs{
		Reset:      in.Reset,
		Start:      in.Start,
		BaseAddr:   in.BaseAddr,
		NumSamples: in.NumSamples,
		MemData:    in.MemData,
	})
}

func (c *Core) fftInputs(in Inputs, dmaOut dma.Outputs) fft.Inputs {
	if in.Reset {
		return fft.Inputs{Reset: true}
	}

	return fft.Inputs{
		Valid: dmaOut.FFTValid,
		Data:  dmaOut.FFTData,
	}
}

func (c *Core) countActivity(in Inputs, fftIn fft.Inputs) {
	if in.Start && !c.DMA.Active() {
		c.stats.Transfers++
	}

	if fftIn.Valid {
		c.stats.SamplesIn++
	}

	if c.FFT.Control(fftIn.Valid).Sync {
		c.stats.Blocks++
	}

	if c.FFT.Evaluate(fftIn).OutValid {
		c.stats.SamplesOut++
	}
}

// Busy reports whether the DMA is transferring or the FFT still holds
// samples in flight.
func (c *Core) Busy() bool {
	return c.DMA.Busy() || c.FFT.InFlight()
}

// Stats returns activity counters for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Reset clears all core state, including statistics.
func (c *Core) Reset() {
	c.DMA.Reset()
	c.FFT.Reset()
	c.stats = Stats{}
}
