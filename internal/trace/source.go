// Package trace is the engine-facing trace-source contract (spec.md §4.2)
// plus a JSON/gzipped-JSON implementation. The engine depends only on the
// Source interface; it does not care about the underlying file format.
package trace

import (
	"fmt"
	"time"

	"github.com/snarg/uamp-sim/internal/simevent"
)

// Error reports a trace file that could not be read or decoded — always
// fatal per spec.md §7.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("trace %q: %s", e.Path, e.Reason)
}

// Source is the contract the engine pulls events through. Events are
// delivered in non-decreasing timestamp order; exhaustion is signalled only
// via EndOfTrace — Peek/Get return ok=false once exhausted.
type Source interface {
	Build() error
	PeekEvent() (simevent.Event, bool)
	GetEvent() (simevent.Event, bool)
	GetEvents(count int) []simevent.Event
	EndOfTrace() bool
	StartTime() time.Time
	EndTime() time.Time
	Finish() error
}
