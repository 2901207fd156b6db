// Package alarm defines the engine's one-shot and periodic future callback.
package alarm

import "time"

// Alarm is a future callback the engine fires at Timestamp. A non-zero
// Period makes it periodic: on fire, the engine advances Timestamp by
// Period and re-enqueues it. Cancelled is checked at pop time rather than
// scanning the heap for removal — see original design note in DESIGN.md.
type Alarm struct {
	Timestamp time.Time
	Handler   func()
	Period    time.Duration // zero means one-shot
	Name      string
	Cancelled bool
}

// New creates a one-shot alarm.
func New(timestamp time.Time, handler func(), name string) *Alarm {
	return &Alarm{Timestamp: timestamp, Handler: handler, Name: name}
}

// NewPeriodic creates an alarm that re-fires every period after its first
// firing at timestamp.
func NewPeriodic(timestamp time.Time, handler func(), period time.Duration, name string) *Alarm {
	return &Alarm{Timestamp: timestamp, Handler: handler, Period: period, Name: name}
}

// IsPeriodic reports whether the alarm re-enqueues itself after firing.
func (a *Alarm) IsPeriodic() bool {
	return a.Period > 0
}

// Cancel marks the alarm so the engine drops it silently on pop. For a
// periodic alarm this takes effect on its next firing.
func (a *Alarm) Cancel() {
	a.Cancelled = true
}

// Fire invokes the alarm's handler.
func (a *Alarm) Fire() {
	a.Handler()
}
