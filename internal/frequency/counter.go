// Package frequency implements the frequency counter module: a simple
// per-event-type occurrence tally, ported from
// original_source/sim_modules/frequency_counter.py.
package frequency

import (
	"fmt"
	"io"

	"github.com/snarg/uamp-sim/internal/dispatch"
	"github.com/snarg/uamp-sim/internal/module"
	"github.com/snarg/uamp-sim/internal/simevent"
)

// Handle is the subset of engine capabilities Counter needs.
type Handle interface {
	Subscribe(eventType simevent.Type, handler dispatch.Handler, filter dispatch.Filter)
}

// Counter is the FrequencyCounter module: it subscribes to every event type
// in the taxonomy and counts occurrences of each.
type Counter struct {
	module.Base

	engine Handle
	counts map[simevent.Type]int
	order  []simevent.Type
}

// New constructs a Counter.
func New(name string, engine Handle) *Counter {
	return &Counter{
		Base:   module.NewBase(name, module.FrequencyCounter),
		engine: engine,
		counts: make(map[simevent.Type]int),
	}
}

// Build subscribes to every event type in the fixed taxonomy.
func (c *Counter) Build() error {
	for _, t := range simevent.AllTypes {
		c.engine.Subscribe(t, c.count, nil)
	}
	return nil
}

func (c *Counter) count(event simevent.Event) {
	if _, seen := c.counts[event.Type]; !seen {
		c.order = append(c.order, event.Type)
	}
	c.counts[event.Type]++
}

// PrintStats writes one "type: count" line per observed event type, in the
// order each type was first seen.
func (c *Counter) PrintStats(w io.Writer) {
	for _, t := range c.order {
		fmt.Fprintf(w, "%s: %d\n", t, c.counts[t])
	}
}

func (c *Counter) Finish() error {
	return nil
}
