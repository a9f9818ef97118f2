// Package config holds the construction parameters of the interleaved FFT
// system and reads and writes them as JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/fftsim/timing/dma"
	"github.com/sarchlab/fftsim/timing/interleave"
	"github.com/sarchlab/fftsim/timing/memory"
)

// Config holds the parameters fixed when the system is built.
type Config struct {
	// FFTSize is the number of points per transform. Must be a power of two.
	// Default: 4.
	FFTSize int `json:"fft_size"`

	// NumCores is the number of DMA+FFT cores. Default: 2.
	NumCores int `json:"num_cores"`

	// HopSize is the stagger in cycles between core starts. Default: 1.
	HopSize int `json:"hop_size"`

	// AddrWidth is the memory address bus width in bits. Default: 12.
	AddrWidth uint `json:"addr_width"`

	// DataWidth is the memory data bus width in bits. Default: 64.
	DataWidth uint `json:"data_width"`

	// MemDepth is the number of words in the shared memory. Default: 2048.
	MemDepth int `json:"mem_depth"`

	// Tolerance is the absolute error allowed when checking outputs
	// against a reference transform. Default: 1e-9.
	Tolerance float64 `json:"tolerance"`
}

// DefaultConfig returns the configuration of the reference system.
func DefaultConfig() *Config {
	return &Config{
		FFTSize:   4,
		NumCores:  2,
		HopSize:   1,
		AddrWidth: dma.DefaultAddrWidth,
		DataWidth: dma.DefaultDataWidth,
		MemDepth:  2048,
		Tolerance: 1e-9,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every parameter is in range.
func (c *Config) Validate() error {
	if c.FFTSize < 2 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft_size must be a power of two >= 2, got %d", c.FFTSize)
	}
	if c.NumCores < 1 {
		return fmt.Errorf("num_cores must be > 0")
	}
	if c.HopSize < 0 {
		return fmt.Errorf("hop_size must be >= 0")
	}
	if c.AddrWidth < 1 || c.AddrWidth > 32 {
		return fmt.Errorf("addr_width must be in [1, 32], got %d", c.AddrWidth)
	}
	if c.DataWidth < 1 || c.DataWidth > 64 {
		return fmt.Errorf("data_width must be in [1, 64], got %d", c.DataWidth)
	}
	if c.MemDepth < 1 {
		return fmt.Errorf("mem_depth must be > 0")
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be > 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// DMA returns the bus widths shared by every core.
func (c *Config) DMA() dma.Config {
	return dma.Config{AddrWidth: c.AddrWidth, DataWidth: c.DataWidth}
}

// Memory returns the shared memory parameters, one read port per core.
func (c *Config) Memory() memory.Config {
	return memory.Config{Depth: c.MemDepth, NumPorts: c.NumCores, DataWidth: c.DataWidth}
}

// Interleave returns the interleaved processor parameters.
func (c *Config) Interleave() interleave.Config {
	return interleave.Config{
		FFTSize:  c.FFTSize,
		NumCores: c.NumCores,
		HopSize:  c.HopSize,
		DMA:      c.DMA(),
	}
}
