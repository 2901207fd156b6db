// Package module defines the capability set every simulator module
// implements, ported from sim_interface.py's SimModule/SimModuleType.
package module

import (
	"fmt"
	"io"
)

// Type identifies what kind of module a module instance is.
type Type string

const (
	PreloadPredictor Type = "preload-predictor"
	ReusePredictor   Type = "reuse-predictor"
	MemoryManager    Type = "memory-manager"
	FrequencyCounter Type = "frequency-counter"
)

// Module is the capability set the engine requires of every module:
// build/finish/print_stats plus stats-collection gating. Modules are
// polymorphic over this set — there is no registry of concrete types the
// engine knows about beyond this interface.
type Module interface {
	Name() string
	Type() Type
	Build() error
	PrintStats(w io.Writer)
	Finish() error
	EnableStatsCollection()
	DisableStatsCollection()
	StatsEnabled() bool
}

// Base provides the stats-gating boilerplate shared by every module, the
// Go analogue of SimModule's non-abstract methods. Embed it and implement
// Build/PrintStats/Finish to satisfy Module.
type Base struct {
	name         string
	moduleType   Type
	statsEnabled bool
}

// NewBase returns a Base identified by name and moduleType.
func NewBase(name string, moduleType Type) Base {
	return Base{name: name, moduleType: moduleType}
}

func (b *Base) Name() string { return b.name }
func (b *Base) Type() Type   { return b.moduleType }

func (b *Base) EnableStatsCollection()  { b.statsEnabled = true }
func (b *Base) DisableStatsCollection() { b.statsEnabled = false }
func (b *Base) StatsEnabled() bool      { return b.statsEnabled }

// Error is returned for module-construction failures: unknown module name
// or duplicate module name.
type Error struct {
	Module string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("module %q: %s", e.Module, e.Reason)
}
