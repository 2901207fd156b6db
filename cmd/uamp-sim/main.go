package main

import (
	"bufio"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/snarg/uamp-sim/internal/config"
	"github.com/snarg/uamp-sim/internal/engine"
	"github.com/snarg/uamp-sim/internal/frequency"
	"github.com/snarg/uamp-sim/internal/module"
	"github.com/snarg/uamp-sim/internal/predictor"
	"github.com/snarg/uamp-sim/internal/trace"
)

func main() {
	var (
		tracePath     string
		simConfigPath string
		verbose       bool
		debug         bool
		debugInterval int
		logLevel      string
	)
	flag.StringVar(&tracePath, "trace", "", "User log trace file (required)")
	flag.StringVar(&simConfigPath, "sim_config", "", "Sim configuration file (required)")
	flag.BoolVar(&verbose, "verbose", false, "Print out simulation run data")
	flag.BoolVar(&debug, "debug", false, "Run simulation in debug mode")
	flag.IntVar(&debugInterval, "debug-interval", 0, "Events between debug prompts (overrides UAMP_SIM_DEBUG_INTERVAL)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides UAMP_SIM_LOG_LEVEL)")
	flag.Parse()

	early := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if tracePath == "" || simConfigPath == "" {
		early.Fatal().Msg("--trace and --sim_config are required")
	}

	overrides, err := config.LoadOverrides()
	if err != nil {
		early.Fatal().Err(err).Msg("failed to load environment overrides")
	}
	if logLevel == "" {
		logLevel = overrides.LogLevel
	}
	if debugInterval == 0 {
		debugInterval = overrides.DebugInterval
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)

	sim, err := config.Load(simConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load sim config")
	}
	for _, skipped := range sim.Skipped {
		log.Warn().Str("module", skipped).Msg("unknown module name in config, skipping")
	}

	traceSource, err := trace.NewSource(tracePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open trace file")
	}

	eng := engine.New(engine.Options{
		Verbose:       verbose,
		Debug:         debug,
		DebugInterval: debugInterval,
		Log:           log,
		Out:           os.Stdout,
		In:            bufio.NewReader(os.Stdin),
	})

	for _, spec := range sim.Modules {
		m, err := buildModule(spec, eng)
		if err != nil {
			log.Warn().Err(err).Str("module", spec.Name).Msg("failed to construct module, skipping")
			continue
		}
		if err := eng.RegisterModule(m); err != nil {
			log.Fatal().Err(err).Str("module", spec.Name).Msg("failed to register module")
		}
	}

	if err := traceSource.Build(); err != nil {
		log.Fatal().Err(err).Msg("failed to build trace reader")
	}

	if err := eng.Build(traceSource, sim.WarmupPeriod); err != nil {
		log.Fatal().Err(err).Msg("failed to build simulator")
	}

	if err := eng.Run(); err != nil {
		log.Fatal().Err(err).Msg("simulation terminated with an error")
	}
}

// buildModule constructs the named module from its config section. The
// module name doubles as its factory key, mirroring
// original_source/sim_modules/__init__.py's get_simulator_module.
func buildModule(spec config.ModuleSpec, eng *engine.Engine) (module.Module, error) {
	switch spec.Name {
	case string(module.PreloadPredictor), "preload":
		intervalHours := spec.Settings.GetInt("interval_time")
		depreciation := spec.Settings.GetFloat64("depreciation")
		return predictor.New(spec.Name, eng, intervalHours, depreciation), nil
	case string(module.FrequencyCounter):
		return frequency.New(spec.Name, eng), nil
	default:
		return nil, &module.Error{Module: spec.Name, Reason: "no factory registered for this module name"}
	}
}

