package interleave

// Scheduler issues per-core start pulses staggered by a fixed hop.
//
// A global start observed while idle begins a staggering sequence. Core i
// receives a one-cycle pulse when the stagger counter equals i*hop. The
// sequence ends once the counter exceeds numCores*hop + 2; starts observed
// before then are ignored.
type Scheduler struct {
	numCores int
	hop      int

	active  bool
	counter int
	starts  []bool
}

// NewScheduler creates a scheduler for numCores cores spaced hop cycles
// apart.
func NewScheduler(numCores, hop int) *Scheduler {
	return &Scheduler{
		numCores: numCores,
		hop:      hop,
		starts:   make([]bool, numCores),
	}
}

// Active reports whether a staggering sequence is in progress.
func (s *Scheduler) Active() bool {
	return s.active
}

// Counter returns the stagger counter.
func (s *Scheduler) Counter() int {
	return s.counter
}

// Start returns the registered start pulse for core i.
func (s *Scheduler) Start(i int) bool {
	return s.starts[i]
}

// Accepts reports whether a global start presented this cycle would begin
// a new sequence.
func (s *Scheduler) Accepts(start bool) bool {
	return start && !s.active
}

// Tick commits one clock edge.
func (s *Scheduler) Tick(reset, start bool) {
	if reset {
		s.Reset()
		return
	}

	active := s.active
	cnt := s.counter

	if start && !active {
		active = true
		cnt = 0
		s.active = true
		s.counter = 0
	}

	if !active {
		clear(s.starts)
		return
	}

	for i := range s.starts {
		s.starts[i] = cnt == i*s.hop
	}

	s.counter = cnt + 1

	if cnt > s.numCores*s.hop+2 {
		s.active = false
	}
}

// Reset returns the scheduler to idle.
func (s *Scheduler) Reset() {
	s.active = false
	s.counter = 0
	clear(s.starts)
}
