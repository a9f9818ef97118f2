// Package memory provides the shared multi-port memory that feeds the DMA
// engines, backed by Akita storage.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// ErrOutOfRange is returned when a backdoor load targets an address beyond
// the memory depth.
var ErrOutOfRange = errors.New("memory: address out of range")

// wordBytes is the storage footprint of one word regardless of data width.
const wordBytes = 8

// Config holds memory configuration parameters.
type Config struct {
	// Depth is the number of addressable words.
	Depth int
	// NumPorts is the number of independent read ports.
	NumPorts int
	// DataWidth in bits. Stored words are masked to this width.
	DataWidth uint
}

// DefaultConfig returns a 2048-word, single-port, 64-bit memory.
func DefaultConfig() Config {
	return Config{
		Depth:     2048,
		NumPorts:  1,
		DataWidth: 64,
	}
}

// Inputs holds the values presented to the memory before a clock edge.
type Inputs struct {
	Reset       bool
	WriteEnable bool
	WriteAddr   uint64
	WriteData   uint64
	// ReadAddrs holds one address per read port.
	ReadAddrs []uint64
}

// Memory is a synchronous-read, synchronous-write word store with one write
// port and several read ports. Reads return the content before the edge.
//
// Every access is checked against Depth before it reaches the storage.
// Reads outside the memory return zero and writes outside it are dropped.
type Memory struct {
	config   Config
	dataMask uint64
	storage  *mem.Storage
	dataOut  []uint64

	droppedWrites uint64
}

// New creates a memory with the given configuration.
func New(config Config) (*Memory, error) {
	if config.Depth <= 0 {
		return nil, fmt.Errorf("memory depth must be > 0, got %d", config.Depth)
	}
	if config.NumPorts <= 0 {
		return nil, fmt.Errorf("memory needs at least one read port, got %d", config.NumPorts)
	}
	if config.DataWidth == 0 || config.DataWidth > 64 {
		return nil, fmt.Errorf("memory data width must be in [1, 64], got %d", config.DataWidth)
	}

	mask := ^uint64(0)
	if config.DataWidth < 64 {
		mask = (uint64(1) << config.DataWidth) - 1
	}

	return &Memory{
		config:   config,
		dataMask: mask,
		storage:  mem.NewStorage(uint64(config.Depth) * wordBytes),
		dataOut:  make([]uint64, config.NumPorts),
	}, nil
}

// Config returns the memory configuration.
func (m *Memory) Config() Config {
	return m.config
}

// DataOut returns the registered word on read port i.
func (m *Memory) DataOut(i int) uint64 {
	return m.dataOut[i]
}

// Load writes a word directly, bypassing the clocked write port.
func (m *Memory) Load(addr, word uint64) error {
	if !m.contains(addr) {
		return fmt.Errorf("%w: address %d, depth %d", ErrOutOfRange, addr, m.config.Depth)
	}

	var buf [wordBytes]byte
	binary.LittleEndian.PutUint64(buf[:], word&m.dataMask)

	if err := m.storage.Write(addr*wordBytes, buf[:]); err != nil {
		return fmt.Errorf("memory write at %d: %w", addr, err)
	}

	return nil
}

// Peek reads a word directly. Out-of-range addresses read as zero.
func (m *Memory) Peek(addr uint64) uint64 {
	if !m.contains(addr) {
		return 0
	}

	data, err := m.storage.Read(addr*wordBytes, wordBytes)
	if err != nil {
		return 0
	}

	return binary.LittleEndian.Uint64(data)
}

// LoadWords writes consecutive words starting at base. It stops at the
// first word that cannot be stored.
func (m *Memory) LoadWords(base uint64, words []uint64) error {
	for i, w := range words {
		if err := m.Load(base+uint64(i), w); err != nil {
			return err
		}
	}
	return nil
}

// DroppedWrites returns the number of write-port writes that were not
// stored, such as writes beyond the depth.
func (m *Memory) DroppedWrites() uint64 {
	return m.droppedWrites
}

func (m *Memory) contains(addr uint64) bool {
	return addr < uint64(m.config.Depth)
}

// Tick commits one clock edge: every read port latches the addressed word,
// then the write port stores its data.
func (m *Memory) Tick(in Inputs) {
	if in.Reset {
		m.Reset()
		return
	}

	for i := range m.dataOut {
		var addr uint64
		if i < len(in.ReadAddrs) {
			addr = in.ReadAddrs[i]
		}
		m.dataOut[i] = m.Peek(addr)
	}

	if in.WriteEnable {
		if err := m.Load(in.WriteAddr, in.WriteData); err != nil {
			m.droppedWrites++
		}
	}
}

// Reset clears every word and read register.
func (m *Memory) Reset() {
	m.storage = mem.NewStorage(uint64(m.config.Depth) * wordBytes)
	clear(m.dataOut)
	m.droppedWrites = 0
}
