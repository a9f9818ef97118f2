// Package stage provides one radix-2 decimation-in-frequency butterfly level
// of the streaming FFT pipeline.
//
// A stage of size N works over a repeating period of N cycles:
//
//   - Phase 1 (cnt < N/2): the input sample is stored in the input buffer
//     and the difference computed during the previous period is emitted.
//   - Phase 2 (cnt >= N/2): the input is paired with the sample stored N/2
//     cycles earlier; the sum is emitted immediately and the twiddled
//     difference is stored for emission during the next Phase 1.
package stage

import (
	"errors"
	"fmt"

	"github.com/sarchlab/fftsim/sample"
)

// ErrInvalidSize is returned when a stage size is not a power of two >= 2.
var ErrInvalidSize = errors.New("stage: size must be a power of two >= 2")

// Inputs holds the values presented to a stage before a clock edge.
type Inputs struct {
	// Reset clears the counter, output register and buffers.
	Reset bool
	// Enable allows the stage to advance. Disabled cycles freeze all state.
	Enable bool
	// Sync re-aligns the counter to the initial offset and clears buffers.
	Sync bool
	// Data is the incoming sample.
	Data sample.Sample
}

// Stage is a single butterfly level with its delay buffers.
type Stage struct {
	size       int
	delayLen   int
	initOffset int

	cnt    int
	out    sample.Sample
	bufIn  []sample.Sample
	bufOut []sample.Sample

	twiddles []sample.Sample
}

// New creates a stage of the given size whose counter starts at offset.
func New(size, offset int) (*Stage, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	delayLen := size / 2
	s := &Stage{
		size:       size,
		delayLen:   delayLen,
		initOffset: ((offset % size) + size) % size,
		bufIn:      make([]sample.Sample, delayLen),
		bufOut:     make([]sample.Sample, delayLen),
		twiddles:   make([]sample.Sample, delayLen),
	}

	for k := range s.twiddles {
		s.twiddles[k] = sample.Twiddle(k, size)
	}

	s.cnt = s.initOffset

	return s, nil
}

// Size returns the number of points this stage operates on.
func (s *Stage) Size() int {
	return s.size
}

// DelayLen returns the buffer length, which is Size()/2.
func (s *Stage) DelayLen() int {
	return s.delayLen
}

// InitOffset returns the counter value loaded on reset and sync.
func (s *Stage) InitOffset() int {
	return s.initOffset
}

// Counter returns the current cycle counter in [0, Size()).
func (s *Stage) Counter() int {
	return s.cnt
}

// Out returns the registered output sample.
func (s *Stage) Out() sample.Sample {
	return s.out
}

// Tick commits one clock edge.
func (s *Stage) Tick(in Inputs) {
	if in.Reset {
		s.Reset()
		return
	}

	if !in.Enable {
		return
	}

	c := s.cnt
	if in.Sync {
		c = s.initOffset
		s.clearBuffers()
	}

	if c < s.delayLen {
		s.bufIn[c] = in.Data
		s.out = s.bufOut[c]
	} else {
		k := c - s.delayLen
		a := s.bufIn[k]
		b := in.Data

		s.out = a.Add(b)
		s.bufOut[k] = a.Sub(b).Mul(s.twiddles[k])
	}

	s.cnt = (c + 1) % s.size
}

// Reset reloads the counter with the initial offset and zeroes the output
// register and both buffers.
func (s *Stage) Reset() {
	s.cnt = s.initOffset
	s.out = sample.Zero
	s.clearBuffers()
}

func (s *Stage) clearBuffers() {
	clear(s.bufIn)
	clear(s.bufOut)
}
