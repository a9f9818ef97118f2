package system

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Component drives a System from an Akita engine, one step per tick.
//
// Queued inputs are consumed one per cycle. Once the queue is empty the
// component keeps holding the last transfer description, without the
// start, reset and write strobes, until the system goes idle.
type Component struct {
	*sim.TickingComponent

	system  *System
	pending []Inputs
	hold    Inputs
	sink    func(Outputs)
}

// NewComponent wraps a System in a ticking component.
func NewComponent(name string, engine sim.Engine, freq sim.Freq, s *System) *Component {
	c := &Component{system: s}
	c.TickingComponent = sim.NewTickingComponent(name, engine, freq, c)
	return c
}

// System returns the wrapped system.
func (c *Component) System() *System {
	return c.system
}

// SetSink registers a callback that receives every cycle's outputs.
func (c *Component) SetSink(sink func(Outputs)) {
	c.sink = sink
}

// Enqueue queues inputs for upcoming cycles and wakes the component.
func (c *Component) Enqueue(in ...Inputs) {
	c.pending = append(c.pending, in...)
	c.TickLater()
}

// Tick advances the system by one cycle. It reports no progress once the
// queue is drained and the system is idle.
func (c *Component) Tick() bool {
	if len(c.pending) == 0 && !c.system.Busy() {
		return false
	}

	in := c.hold
	if len(c.pending) > 0 {
		in = c.pending[0]
		c.pending = c.pending[1:]

		c.hold = Inputs{
			BaseAddrs:  in.BaseAddrs,
			NumSamples: in.NumSamples,
		}
	}

	out := c.system.Step(in)
	if c.sink != nil {
		c.sink(out)
	}

	return true
}
