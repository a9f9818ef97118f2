package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fftsim/reference"
	"github.com/sarchlab/fftsim/sample"
	"github.com/sarchlab/fftsim/stimulus"
	"github.com/sarchlab/fftsim/timing/config"
	"github.com/sarchlab/fftsim/timing/system"
)

// scenario is a memory image plus the transfer each core performs.
type scenario struct {
	name     string
	words    []uint64
	transfer system.Transfer
	// runs is the number of times the global start is pulsed, each after
	// the previous run has drained.
	runs int
}

func newScenario(name string, cfg *config.Config, wavPath string) (*scenario, error) {
	n := cfg.FFTSize
	cores := cfg.NumCores

	sc := &scenario{name: name, runs: 1}

	switch name {
	case "standard":
		sc.words = stimulus.Ramp(cores * n)
		sc.transfer = system.BlockTransfer(cores, n)
	case "restart":
		sc.words = stimulus.Ramp(cores * n)
		sc.transfer = system.BlockTransfer(cores, n)
		sc.runs = 2
	case "partial":
		sc.words = stimulus.Ramp(cores * n)
		sc.transfer = system.BlockTransfer(cores, n)
		for i := range sc.transfer.NumSamples {
			sc.transfer.NumSamples[i] = n / 2
		}
	case "stream":
		// Two full blocks plus half a block per core.
		span := 2*n + n/2
		sc.words = stimulus.Ramp(cores * span)
		sc.transfer = system.BlockTransfer(cores, span)
	case "impulse":
		sc.words = perCore(cores, func(int) []uint64 { return stimulus.Impulse(n) })
		sc.transfer = system.BlockTransfer(cores, n)
	case "dc":
		sc.words = perCore(cores, func(i int) []uint64 { return stimulus.DC(n, uint32(i+1)) })
		sc.transfer = system.BlockTransfer(cores, n)
	case "alternating":
		sc.words = perCore(cores, func(int) []uint64 { return stimulus.Alternating(n, 7) })
		sc.transfer = system.BlockTransfer(cores, n)
	case "tone":
		// Core i sees a tone at bin i mod N.
		sc.words = perCore(cores, func(i int) []uint64 { return stimulus.Tone(n, i%n, 1000.5, 500) })
		sc.transfer = system.BlockTransfer(cores, n)
	case "wav":
		if wavPath == "" {
			return nil, fmt.Errorf("scenario wav requires -wav")
		}
		w, err := stimulus.LoadWAV(wavPath)
		if err != nil {
			return nil, err
		}
		if len(w.Words) < cores*n {
			return nil, fmt.Errorf("WAV has %d frames, need at least %d", len(w.Words), cores*n)
		}
		sc.words = w.Words
		sc.transfer = system.BlockTransfer(cores, n)
	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}

	if len(sc.words) > cfg.MemDepth {
		sc.words = sc.words[:cfg.MemDepth]
	}
	sc.words = stimulus.ForDataWidth(sc.words, cfg.DataWidth)

	return sc, nil
}

// perCore concatenates one block of words per core.
func perCore(cores int, block func(core int) []uint64) []uint64 {
	var words []uint64
	for i := 0; i < cores; i++ {
		words = append(words, block(i)...)
	}
	return words
}

// simulate builds a system, preloads the scenario and runs it. It returns
// the valid outputs of each run.
func simulate(
	sc *scenario,
	cfg *config.Config,
	logger logr.Logger,
	useEngine bool,
) (*system.System, [][]system.Output, error) {
	s, err := system.New(cfg, system.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	if err := s.Memory().LoadWords(0, sc.words); err != nil {
		return nil, nil, err
	}

	if useEngine {
		runs, err := simulateOnEngine(s, sc)
		return s, runs, err
	}

	runs := make([][]system.Output, sc.runs)
	for r := range runs {
		runs[r], err = s.Run(sc.transfer)
		if err != nil {
			return s, runs, fmt.Errorf("run %d: %w", r, err)
		}
	}

	return s, runs, nil
}

func simulateOnEngine(s *system.System, sc *scenario) ([][]system.Output, error) {
	engine := sim.NewSerialEngine()
	comp := system.NewComponent("FFTSystem", engine, 1*sim.GHz, s)

	var current []system.Output
	comp.SetSink(func(o system.Outputs) {
		current = append(current, o.Valid()...)
	})

	runs := make([][]system.Output, sc.runs)
	for r := range runs {
		current = nil
		comp.Enqueue(system.Inputs{
			Start:      true,
			BaseAddrs:  sc.transfer.BaseAddrs,
			NumSamples: sc.transfer.NumSamples,
		})
		if err := engine.Run(); err != nil {
			return runs, fmt.Errorf("run %d: %w", r, err)
		}
		runs[r] = current
	}

	return runs, nil
}

// blockResult is the verification outcome of one output block.
type blockResult struct {
	run     int
	core    int
	block   int
	outputs int
	// partial blocks received fewer than N input samples and are not
	// compared against the reference.
	partial    bool
	mismatches []reference.Mismatch
}

// verify splits each core's outputs into blocks of N and compares every
// full block with the reference transform of the words it was fed.
func verify(
	s *system.System,
	sc *scenario,
	runs [][]system.Output,
	transform reference.Transform,
	tol float64,
) ([]blockResult, error) {
	cfg := s.Config()
	n := cfg.FFTSize
	addrMask := uint64(1)<<cfg.AddrWidth - 1

	var results []blockResult
	for r, outs := range runs {
		perCore := make([][]sample.Sample, cfg.NumCores)
		for _, o := range outs {
			perCore[o.Core] = append(perCore[o.Core], o.Data)
		}

		for c, data := range perCore {
			unpack := s.InterleavedFFT().Core(c).DMA.Unpack
			base := sc.transfer.BaseAddrs[c]
			num := sc.transfer.NumSamples[c]

			for b := 0; b*n < len(data); b++ {
				end := min((b+1)*n, len(data))
				res := blockResult{run: r, core: c, block: b, outputs: end - b*n}

				if (b+1)*n > num || res.outputs < n {
					res.partial = true
					results = append(results, res)
					continue
				}

				input := make([]sample.Sample, n)
				for k := range input {
					addr := (base + uint64(b*n+k)) & addrMask
					input[k] = unpack(s.Memory().Peek(addr))
				}

				var err error
				res.mismatches, err = reference.CompareBitReversed(transform, input, data[b*n:end], tol)
				if err != nil {
					return nil, fmt.Errorf("core %d block %d: %w", c, b, err)
				}
				results = append(results, res)
			}
		}
	}

	return results, nil
}
