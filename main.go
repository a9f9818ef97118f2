// Package main provides the entry point for FFTSim.
// FFTSim is a cycle-accurate interleaved streaming FFT simulator built on
// Akita.
//
// For the full CLI, use: go run ./cmd/fftsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("FFTSim - Interleaved Streaming FFT Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: fftsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config       Path to configuration JSON file")
	fmt.Println("  -scenario     standard|restart|partial|stream|impulse|dc|")
	fmt.Println("                alternating|tone|wav")
	fmt.Println("  -wav          WAV file for the wav scenario")
	fmt.Println("  -ref          Reference transform: gonum|godsp")
	fmt.Println("  -engine       Drive the system from an Akita engine")
	fmt.Println("  -save-config  Write the effective configuration and exit")
	fmt.Println("  -v            Log verbosity")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/fftsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/fftsim' instead.")
	}
}
