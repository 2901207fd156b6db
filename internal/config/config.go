// Package config loads the simulator's INI configuration file and the
// process-level environment overrides, ported from uamp_sim.py's use of
// configparser for sim_config and extended with a caarlos0/env overlay for
// the ambient settings (log level, debug interval) the original left to
// CLI flags alone.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Error reports a problem loading or validating the sim config file.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// ModuleSpec is one module's configured name and its own INI section,
// queryable the way viper.Sub exposes a sub-tree.
type ModuleSpec struct {
	Name     string
	Settings *viper.Viper
}

// Simulator is the parsed [Simulator] section plus each named module's own
// section, per spec.md §6.
type Simulator struct {
	WarmupPeriod time.Duration
	Modules      []ModuleSpec
	// Skipped holds module names listed in `modules` that have no
	// matching section and must be dropped, per spec.md §6.
	Skipped []string
}

// Load reads and validates the INI file at path.
func Load(path string) (*Simulator, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Path: path, Reason: err.Error()}
	}

	if v.Sub("simulator") == nil {
		return nil, &Error{Path: path, Reason: "Simulator section missing from config file"}
	}

	warmup, err := parseWarmupPeriod(v.GetString("simulator.warmup_period"))
	if err != nil {
		return nil, &Error{Path: path, Reason: err.Error()}
	}

	sim := &Simulator{WarmupPeriod: warmup}

	modulesStr := strings.TrimSpace(v.GetString("simulator.modules"))
	var names []string
	if modulesStr != "" {
		names = strings.Fields(modulesStr)
	}

	// viper keeps no trace of a section without keys, so section headers
	// are collected from the raw file to tell an empty section from a
	// missing one.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Reason: err.Error()}
	}
	declared := make(map[string]bool)
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			declared[strings.ToLower(strings.TrimSpace(line[1:len(line)-1]))] = true
		}
	}

	for _, name := range names {
		sub := v.Sub(name)
		if sub == nil && declared[strings.ToLower(name)] {
			sub = viper.New()
		}
		if sub == nil {
			sim.Skipped = append(sim.Skipped, name)
			continue
		}
		sim.Modules = append(sim.Modules, ModuleSpec{Name: name, Settings: sub})
	}

	return sim, nil
}

// parseWarmupPeriod accepts the original format ("<N>h") plus Go's native
// duration syntax, empty meaning zero warmup.
func parseWarmupPeriod(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if strings.HasSuffix(raw, "h") {
		if n, err := strconv.Atoi(strings.TrimSuffix(raw, "h")); err == nil {
			return time.Duration(n) * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid warmup_period setting format: %q", raw)
	}
	return d, nil
}

// Overrides holds process-level defaults sourced from the environment,
// layered under the CLI flags in cmd/uamp-sim.
type Overrides struct {
	LogLevel      string `env:"UAMP_SIM_LOG_LEVEL" envDefault:"info"`
	DebugInterval int    `env:"UAMP_SIM_DEBUG_INTERVAL" envDefault:"1"`
}

// LoadOverrides parses the environment-sourced Overrides.
func LoadOverrides() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return Overrides{}, err
	}
	return o, nil
}
