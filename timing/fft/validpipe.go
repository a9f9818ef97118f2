package fft

// validPipe is a fixed-length shift register of validity flags backed by a
// ring buffer. Index 0 is the newest entry and index Len()-1 the oldest.
type validPipe struct {
	bits []bool
	head int
	live int
}

func newValidPipe(length int) *validPipe {
	return &validPipe{bits: make([]bool, length)}
}

// Len returns the register length.
func (p *validPipe) Len() int {
	return len(p.bits)
}

// At returns entry i, where 0 is the most recently shifted-in flag.
func (p *validPipe) At(i int) bool {
	return p.bits[(p.head+i)%len(p.bits)]
}

// Any reports whether any entry is set.
func (p *validPipe) Any() bool {
	return p.live > 0
}

// Oldest returns the tail entry.
func (p *validPipe) Oldest() bool {
	return p.At(len(p.bits) - 1)
}

// Shift drops the oldest entry and inserts v at the head.
func (p *validPipe) Shift(v bool) {
	p.head = (p.head - 1 + len(p.bits)) % len(p.bits)

	if p.bits[p.head] {
		p.live--
	}

	p.bits[p.head] = v
	if v {
		p.live++
	}
}

// Clear resets every entry to false.
func (p *validPipe) Clear() {
	clear(p.bits)
	p.head = 0
	p.live = 0
}
