// Package dispatch is the pub/sub fabric modules subscribe through. It is
// adapted from the shape of a concurrent, channel-fanout subscriber
// registry for SSE delivery, stripped down to the
// engine's single-threaded, synchronous, re-entrant-safe shape: listeners
// are an ordered slice per event type, invoked in registration order, with
// no locks and no replay buffer — the engine is the only producer and
// consumer.
package dispatch

import "github.com/snarg/uamp-sim/internal/simevent"

// Filter decides whether a listener should receive a given event. A nil
// filter always matches.
type Filter func(simevent.Event) bool

// Handler processes a dispatched event.
type Handler func(simevent.Event)

type listener struct {
	filter  Filter
	handler Handler
}

// Registry maps event type to its ordered listeners. Subscribing during
// dispatch takes effect only on subsequent broadcasts: Broadcast indexes up
// to the listener count observed at call start, so a handler that
// subscribes a new listener mid-dispatch will not re-trigger it this round.
type Registry struct {
	listeners map[simevent.Type][]listener
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[simevent.Type][]listener)}
}

// Subscribe appends a listener for the exact event type. filter may be nil
// to match every event of that type.
func (r *Registry) Subscribe(eventType simevent.Type, handler Handler, filter Filter) {
	r.listeners[eventType] = append(r.listeners[eventType], listener{filter: filter, handler: handler})
}

// Broadcast invokes every matching listener for event.Type, in registration
// order, synchronously. A handler may re-enter Broadcast (nested, depth
// first) or Subscribe (effective next call only) — this method only reads
// the slice length it observed at entry, so listeners added during this
// broadcast do not fire until the next one.
func (r *Registry) Broadcast(event simevent.Event) {
	subs := r.listeners[event.Type]
	n := len(subs)
	for i := 0; i < n; i++ {
		l := subs[i]
		if l.filter == nil || l.filter(event) {
			l.handler(event)
		}
	}
}
