// Package dma models the memory-streaming front end of an FFT core.
//
// On an accepted start the DMA issues one incrementing address per cycle.
// The memory answers one cycle later; a one-deep request pipeline
// (readWait -> readReq) marks the cycle in which each word is on the data
// bus so it can be unpacked into a sample for the FFT.
package dma

import (
	"github.com/sarchlab/fftsim/sample"
)

// Default bus widths.
const (
	DefaultAddrWidth = 12
	DefaultDataWidth = 64
)

// Config holds the bus widths fixed at construction.
type Config struct {
	// AddrWidth is the address bus width in bits. Addresses wrap silently.
	AddrWidth uint
	// DataWidth is the memory data bus width in bits.
	DataWidth uint
}

// DefaultConfig returns a 12-bit address, 64-bit data configuration.
func DefaultConfig() Config {
	return Config{
		AddrWidth: DefaultAddrWidth,
		DataWidth: DefaultDataWidth,
	}
}

// Inputs holds the values presented to the DMA before a clock edge.
type Inputs struct {
	Reset bool
	// Start requests a transfer. It is ignored while a transfer is active.
	Start bool
	// BaseAddr and NumSamples are latched on an accepted start.
	BaseAddr   uint64
	NumSamples int
	// MemData is the word currently driven by the memory read port.
	MemData uint64
}

// Outputs holds the values the DMA drives.
type Outputs struct {
	Busy    bool
	MemAddr uint64
	// FFTValid marks FFTData as a sample read from memory.
	FFTValid bool
	FFTData  sample.Sample
}

// DMA is a single-channel address generator and unpacker.
type DMA struct {
	config   Config
	addrMask uint64

	baseAddr      uint64
	numSamples    int
	sampleCounter int
	currentAddr   uint64
	memAddr       uint64
	readReq       bool
	readWait      bool
	active        bool
	busy          bool
}

// New creates a DMA with the given bus widths.
func New(config Config) *DMA {
	if config.AddrWidth == 0 {
		config.AddrWidth = DefaultAddrWidth
	}
	if config.DataWidth == 0 {
		config.DataWidth = DefaultDataWidth
	}

	mask := ^uint64(0)
	if config.AddrWidth < 64 {
		mask = (uint64(1) << config.AddrWidth) - 1
	}

	return &DMA{
		config:   config,
		addrMask: mask,
	}
}

// Config returns the bus configuration.
func (d *DMA) Config() Config {
	return d.config
}

// Busy reports whether a transfer is in progress, including the trailing
// in-flight read.
func (d *DMA) Busy() bool {
	return d.busy
}

// Active reports whether the issue loop is running.
func (d *DMA) Active() bool {
	return d.active
}

// MemAddr returns the registered address driven to memory.
func (d *DMA) MemAddr() uint64 {
	return d.memAddr
}

// Issued returns the number of addresses issued in the current transfer.
func (d *DMA) Issued() int {
	return d.sampleCounter
}

// Evaluate returns the combinational outputs for the current state and the
// word on the memory data bus.
func (d *DMA) Evaluate(memData uint64) Outputs {
	out := Outputs{
		Busy:    d.busy,
		MemAddr: d.memAddr,
	}

	if d.readReq {
		out.FFTValid = true
		out.FFTData = d.Unpack(memData)
	}

	return out
}

// Unpack converts a memory word into a sample. For 64-bit words the upper
// 32 bits are the real part and the lower 32 bits the imaginary part, both
// read as unsigned integers. Narrower buses carry only a real part.
func (d *DMA) Unpack(word uint64) sample.Sample {
	if d.config.DataWidth == 64 {
		return sample.New(float64(uint32(word>>32)), float64(uint32(word)))
	}

	return sample.New(float64(uint32(word)), 0)
}

// Tick commits one clock edge.
func (d *DMA) Tick(in Inputs) {
	if in.Reset {
		d.Reset()
		return
	}

	issuing := false

	active := d.active
	busy := d.busy
	memAddr := d.memAddr
	currentAddr := d.currentAddr
	counter := d.sampleCounter

	if in.Start && !d.active {
		active = true
		busy = true
		d.baseAddr = in.BaseAddr & d.addrMask
		d.numSamples = in.NumSamples
		memAddr = d.baseAddr
		currentAddr = (d.baseAddr + 1) & d.addrMask
		counter = 1
		issuing = true
	}

	if d.active {
		if d.sampleCounter < d.numSamples {
			memAddr = d.currentAddr
			currentAddr = (d.currentAddr + 1) & d.addrMask
			counter = d.sampleCounter + 1
			issuing = true
		} else if !d.readReq && !d.readWait {
			active = false
			busy = false
		}
	}

	d.readReq = d.readWait
	d.readWait = issuing

	d.active = active
	d.busy = busy
	d.memAddr = memAddr
	d.currentAddr = currentAddr
	d.sampleCounter = counter
}

// Reset returns the DMA to idle.
func (d *DMA) Reset() {
	d.baseAddr = 0
	d.numSamples = 0
	d.sampleCounter = 0
	d.currentAddr = 0
	d.memAddr = 0
	d.readReq = false
	d.readWait = false
	d.active = false
	d.busy = false
}
