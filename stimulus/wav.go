package stimulus

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when the input is not a readable WAV file.
var ErrInvalidWAV = errors.New("invalid WAV file")

// WAV holds PCM audio converted to memory words.
type WAV struct {
	SampleRate int
	BitDepth   int
	Channels   int
	// Words holds the first channel, one real-valued word per frame.
	Words []uint64
}

// LoadWAV reads a WAV file into memory words.
func LoadWAV(path string) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	return DecodeWAV(f)
}

// DecodeWAV decodes WAV audio into memory words. Signed PCM samples are
// offset by half the full scale so that they fit the unsigned data bus.
func DecodeWAV(r io.ReadSeeker) (*WAV, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}

	bitDepth := int(dec.BitDepth)
	bias := int64(0)
	if bitDepth > 8 {
		bias = int64(1) << (bitDepth - 1)
	}

	frames := len(buf.Data) / channels
	words := make([]uint64, frames)
	for i := range words {
		words[i] = PackWord(uint32(int64(buf.Data[i*channels])+bias), 0)
	}

	return &WAV{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Channels:   channels,
		Words:      words,
	}, nil
}
