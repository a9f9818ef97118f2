// Package main provides the entry point for FFTSim.
// FFTSim is a cycle-accurate simulator of an interleaved multi-core
// streaming FFT datapath.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/fftsim/reference"
	"github.com/sarchlab/fftsim/timing/config"
)

var (
	configPath   = flag.String("config", "", "Path to configuration JSON file")
	scenarioName = flag.String("scenario", "standard", "Stimulus scenario: standard|restart|partial|stream|impulse|dc|alternating|tone|wav")
	wavPath      = flag.String("wav", "", "WAV file used by the wav scenario")
	refName      = flag.String("ref", "gonum", "Reference transform: gonum|godsp")
	useEngine    = flag.Bool("engine", false, "Drive the system from an Akita serial engine")
	saveConfig   = flag.String("save-config", "", "Write the effective configuration to this path and exit")
	verbosity    = flag.Int("v", 0, "Log verbosity")
)

func main() {
	flag.Parse()
	os.Exit(run(os.Stdout, newLogger(os.Stderr, *verbosity)))
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

func run(out io.Writer, logger logr.Logger) int {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 1
	}

	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			return 1
		}
		return 0
	}

	transform, err := reference.ByName(*refName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sc, err := newScenario(*scenarioName, cfg, *wavPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing scenario: %v\n", err)
		return 1
	}

	logger.Info("running", "scenario", sc.name, "fftSize", cfg.FFTSize,
		"cores", cfg.NumCores, "hop", cfg.HopSize, "engine", *useEngine)

	s, runs, err := simulate(sc, cfg, logger, *useEngine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
		return 1
	}

	results, err := verify(s, sc, runs, transform, cfg.Tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		return 1
	}

	printReport(out, sc, cfg, s.Stats(), runs, results)

	for _, r := range results {
		if len(r.mismatches) > 0 {
			return 2
		}
	}
	return 0
}
