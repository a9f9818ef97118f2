package fft

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidSize is returned when the transform size is not a power of two
// of at least 2.
var ErrInvalidSize = errors.New("fft: size must be a power of two >= 2")

// StageConfig describes one stage of the cascade.
type StageConfig struct {
	// Size is the number of points the stage operates on (N >> i).
	Size int
	// Offset is the counter value loaded on reset and sync so that the
	// stage's phase lines up with the arrival of the previous stage's data.
	Offset int
	// Latency is the stage's contribution to the pipeline latency,
	// Size/2 + 1 cycles.
	Latency int
}

// Plan is the ordered stage configuration for an N-point transform.
type Plan struct {
	N      int
	Stages []StageConfig
	// LatencyCycles is the number of cycles between a sample entering the
	// pipeline and its transformed value appearing at the output.
	LatencyCycles int
}

// NewPlan computes the stage sizes, alignment offsets and latency for an
// N-point transform.
func NewPlan(n int) (Plan, error) {
	if n < 2 || n&(n-1) != 0 {
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}

	numStages := bits.TrailingZeros(uint(n))
	plan := Plan{
		N:      n,
		Stages: make([]StageConfig, 0, numStages),
	}

	total := 0
	for i := 0; i < numStages; i++ {
		size := n >> i
		cfg := StageConfig{
			Size:    size,
			Offset:  (size - (total % size)) % size,
			Latency: size/2 + 1,
		}
		plan.Stages = append(plan.Stages, cfg)
		total += cfg.Latency
	}

	plan.LatencyCycles = total

	return plan, nil
}

// NumStages returns log2(N).
func (p Plan) NumStages() int {
	return len(p.Stages)
}
