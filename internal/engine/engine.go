// Package engine drives the time loop: it merges the trace stream and the
// alarm stream into a single priority queue, owns current simulated time,
// dispatches events to subscribed modules, and enforces the warmup gate.
// Ported from original_source/uamp_sim.py's Simulator class.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/snarg/uamp-sim/internal/alarm"
	"github.com/snarg/uamp-sim/internal/device"
	"github.com/snarg/uamp-sim/internal/dispatch"
	"github.com/snarg/uamp-sim/internal/module"
	"github.com/snarg/uamp-sim/internal/queue"
	"github.com/snarg/uamp-sim/internal/simevent"
	"github.com/snarg/uamp-sim/internal/trace"
)

// EventQueueThreshold is the minimum queue depth the engine tries to
// maintain by pulling more events from the trace, per spec.md §4.5.
const EventQueueThreshold = 100

// The prediction window (predictor.VerifyWindow) lives with the preload predictor; kept out
// of this package since it is a predictor concern, not an engine one.

// Options configures a new Engine.
type Options struct {
	Verbose       bool
	Debug         bool
	DebugInterval int
	Log           zerolog.Logger
	Out           io.Writer
	In            io.Reader
}

// Engine is the scheduler/dispatch core: spec.md §4.5.
type Engine struct {
	modules         []module.Module
	moduleByName    map[string]module.Module
	moduleTypeIndex map[module.Type][]module.Module

	eventQueue *queue.PriorityQueue
	registry   *dispatch.Registry

	currentTime   time.Time
	warmupPeriod  time.Duration
	deviceState   device.State
	traceSource   trace.Source
	traceExecuted bool

	verbose       bool
	debugMode     bool
	debugInterval int
	debugCount    int

	log zerolog.Logger
	out io.Writer
	in  *bufio.Scanner
}

// New returns an Engine ready for RegisterModule/Build.
func New(opts Options) *Engine {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	in := opts.In
	if in == nil {
		in = strings.NewReader("")
	}
	debugInterval := opts.DebugInterval
	if debugInterval <= 0 {
		debugInterval = 1
	}
	return &Engine{
		moduleByName:    make(map[string]module.Module),
		moduleTypeIndex: make(map[module.Type][]module.Module),
		eventQueue:      queue.New(),
		registry:        dispatch.NewRegistry(),
		deviceState:     device.New(),
		verbose:         opts.Verbose,
		debugMode:       opts.Debug,
		debugInterval:   debugInterval,
		log:             opts.Log,
		out:             out,
		in:              bufio.NewScanner(in),
	}
}

// RegisterModule adds sim_module to the engine's registry. Duplicate names
// are a ModuleError, per spec.md §4.5's failure semantics.
func (e *Engine) RegisterModule(m module.Module) error {
	if _, exists := e.moduleByName[m.Name()]; exists {
		return &module.Error{Module: m.Name(), Reason: "already registered"}
	}
	e.moduleByName[m.Name()] = m
	e.modules = append(e.modules, m)
	e.moduleTypeIndex[m.Type()] = append(e.moduleTypeIndex[m.Type()], m)
	return nil
}

// HasModule reports whether name was registered.
func (e *Engine) HasModule(name string) bool {
	_, ok := e.moduleByName[name]
	return ok
}

// ModuleByName returns the module registered under name, if any.
func (e *Engine) ModuleByName(name string) (module.Module, bool) {
	m, ok := e.moduleByName[name]
	return m, ok
}

// ModuleForType returns the first-registered module of the given type, if
// any. Behavior under duplicate registrations is intentionally unspecified
// by spec.md §9 — callers must not depend on which duplicate is returned
// beyond "the first one registered."
func (e *Engine) ModuleForType(t module.Type) (module.Module, bool) {
	mods := e.moduleTypeIndex[t]
	if len(mods) == 0 {
		return nil, false
	}
	return mods[0], true
}

// Build wires traceSource into the engine, sets current_time to the trace's
// start time, calls Build on every registered module in insertion order,
// and pushes the warmup-end alarm. Matches uamp_sim.py's Simulator.build.
func (e *Engine) Build(traceSource trace.Source, warmupPeriod time.Duration) error {
	e.traceSource = traceSource
	e.warmupPeriod = warmupPeriod
	e.currentTime = traceSource.StartTime()
	e.traceExecuted = false

	for _, m := range e.modules {
		if err := m.Build(); err != nil {
			return err
		}
	}

	warmupAlarm := alarm.New(e.currentTime.Add(warmupPeriod), e.enableStatsCollection, "Warmup Period Alarm")
	e.eventQueue.Push(warmupAlarm, queue.Key{Timestamp: warmupAlarm.Timestamp, Tier: queue.TierSimulator})
	return nil
}

func (e *Engine) enableStatsCollection() {
	for _, m := range e.modules {
		m.EnableStatsCollection()
	}
}

// Subscribe registers handler for eventType, matching spec.md §4.3.
func (e *Engine) Subscribe(eventType simevent.Type, handler dispatch.Handler, filter dispatch.Filter) {
	e.registry.Subscribe(eventType, handler, filter)
}

// Broadcast dispatches event synchronously to every matching listener,
// after validating and/or stamping its timestamp and updating device state.
// A timestamp mismatch panics with *ScheduleError — recovered and
// surfaced as a fatal error by Run, never caught by a handler.
func (e *Engine) Broadcast(event simevent.Event) {
	if !event.Timestamp.IsZero() {
		if !event.Timestamp.Equal(e.currentTime) {
			panic(&ScheduleError{Got: event.Timestamp.String(), Want: e.currentTime.String()})
		}
	} else {
		event.Timestamp = e.currentTime
	}

	e.updateDeviceState(event)
	e.registry.Broadcast(event)
}

// RegisterAlarm enqueues a into the event queue at tier ALARM, per
// spec.md §4.4.
func (e *Engine) RegisterAlarm(a *alarm.Alarm) {
	e.eventQueue.Push(a, queue.Key{Timestamp: a.Timestamp, Tier: queue.TierAlarm})
}

// CurrentTime returns the timestamp of the event presently being dispatched.
func (e *Engine) CurrentTime() time.Time {
	return e.currentTime
}

// DeviceState returns the engine-owned device state snapshot.
func (e *Engine) DeviceState() device.State {
	return e.deviceState
}

func (e *Engine) updateDeviceState(event simevent.Event) {
	switch p := event.Payload.(type) {
	case simevent.ScreenPayload:
		e.deviceState.Screen = p.State
	case simevent.ScreenOrientationPayload:
		e.deviceState.ScreenOrientation = p.State
	case simevent.PhoneStatePayload:
		e.deviceState.Phone = p.State
	case simevent.HeadsetPayload:
		e.deviceState.Headset = p.State
	case simevent.DockPayload:
		e.deviceState.Dock = p.State
	case simevent.NetworkTypePayload:
		e.deviceState.Network.Type = p.NetworkType
	case simevent.NetworkStatusPayload:
		e.deviceState.Network.ConnectionState = p.State
	case simevent.BatteryLevelPayload:
		e.deviceState.Battery.Level = p.Level
	case simevent.BatteryTempPayload:
		e.deviceState.Battery.Temp = p.Temperature
	case simevent.BatteryStatusPayload:
		e.deviceState.Battery.Status = p.Status
	case simevent.BatteryPlugStatePayload:
		e.deviceState.Battery.PlugState = p.State
	case simevent.BatteryEnergyPayload:
		e.deviceState.Battery.EnergyState = p.State
	}
}

// Run drives the main loop until the trace is exhausted and the queue is
// empty, then prints every module's stats and calls finish. A panic
// recovered from a handler (ScheduleError, or any module panic) is
// returned as a *HandlerError rather than crashing the process, so the
// caller can log a clean diagnostic and choose its own exit code.
func (e *Engine) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Cause: r}
		}
	}()

	if e.debugMode {
		e.debugCount = 0
		e.debugPrompt()
	}

	for !e.traceSource.EndOfTrace() || !e.eventQueue.Empty() {
		if e.eventQueue.Size() < EventQueueThreshold && !e.traceSource.EndOfTrace() {
			e.populateFromTrace()
			continue
		}

		curItem, peekErr := e.eventQueue.Peek()
		if peekErr != nil {
			e.populateFromTrace()
			continue
		}
		curKey := keyOf(curItem)

		if traceEvent, ok := e.traceSource.PeekEvent(); ok && traceEvent.Timestamp.Before(curKey.Timestamp) {
			e.populateFromTrace()
			continue
		}

		item, _ := e.eventQueue.Pop()
		e.currentTime = keyOf(item).Timestamp

		if e.verbose {
			if ev, ok := item.(simevent.Event); ok {
				e.log.Info().Str("event", ev.String()).Msg("dispatch")
			}
		}

		if e.debugMode {
			e.debugCount++
			if e.debugCount == e.debugInterval {
				e.debugPrompt()
				e.debugCount = 0
			}
		}

		e.executeItem(item)
	}

	e.finish()
	return nil
}

// keyOf recomputes the ordering key for an already-popped-or-peeked item,
// used only for its timestamp (the refill comparison against the trace's
// next event, and current_time on pop) — the queue itself tracks the
// authoritative key, including tier, internally.
func keyOf(item any) queue.Key {
	switch v := item.(type) {
	case *alarm.Alarm:
		return queue.Key{Timestamp: v.Timestamp, Tier: queue.TierAlarm}
	case simevent.Event:
		tier := queue.TierTrace
		if v.Type == simevent.SimDebug || v.Type == simevent.TraceEnd {
			tier = queue.TierSimulator
		}
		return queue.Key{Timestamp: v.Timestamp, Tier: tier}
	default:
		return queue.Key{}
	}
}

func (e *Engine) populateFromTrace() {
	events := e.traceSource.GetEvents(EventQueueThreshold)
	for _, ev := range events {
		e.eventQueue.Push(ev, queue.Key{Timestamp: ev.Timestamp, Tier: queue.TierTrace})
	}
}

func (e *Engine) executeItem(item any) {
	switch v := item.(type) {
	case *alarm.Alarm:
		if v.Cancelled {
			return
		}
		if !e.traceExecuted {
			v.Fire()
			if v.IsPeriodic() {
				v.Timestamp = v.Timestamp.Add(v.Period)
				e.eventQueue.Push(v, queue.Key{Timestamp: v.Timestamp, Tier: queue.TierAlarm})
			}
		}
	case simevent.Event:
		switch v.Type {
		case simevent.SimDebug:
			e.debugPrompt()
		case simevent.TraceEnd:
			e.traceExecuted = true
		default:
			e.Broadcast(v)
		}
	}
}

func (e *Engine) finish() {
	for _, m := range e.modules {
		header := fmt.Sprintf("======== %s Stats ========\n", m.Name())
		footer := strings.Repeat("=", len(header)-1) + "\n"
		fmt.Fprint(e.out, header)
		m.PrintStats(e.out)
		fmt.Fprint(e.out, footer)
	}
	for _, m := range e.modules {
		if err := m.Finish(); err != nil {
			e.log.Error().Err(err).Str("module", m.Name()).Msg("module finish failed")
		}
	}
	if err := e.traceSource.Finish(); err != nil {
		e.log.Error().Err(err).Msg("trace source finish failed")
	}
}

// debugPrompt is the interactive REPL from uamp_sim.py's __debug, ported to
// a bufio.Scanner read loop. An empty line resumes the main loop.
func (e *Engine) debugPrompt() {
	for {
		fmt.Fprint(e.out, "(uamp-sim debug) $ ")
		if !e.in.Scan() {
			return
		}
		line := strings.TrimSpace(e.in.Text())
		if line == "" {
			return
		}
		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]
		switch cmd {
		case "quit", "exit", "q":
			fmt.Fprintln(e.out, "Terminating Simulation")
			panic(&HandlerError{Cause: "debug quit requested"})
		case "interval":
			if len(args) == 1 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					e.debugInterval = n
					continue
				}
			}
			fmt.Fprintln(e.out, "Command Usage Error: interval command expects one numerical value")
		case "verbose":
			switch len(args) {
			case 0:
				e.verbose = true
			case 1:
				switch args[0] {
				case "on":
					e.verbose = true
				case "off":
					e.verbose = false
				default:
					fmt.Fprintln(e.out, "Command Usage Error: verbose command expects 'on' or 'off' for argument")
				}
			default:
				fmt.Fprintln(e.out, "Command Usage Error: verbose command expects at most one argument")
			}
		}
	}
}
