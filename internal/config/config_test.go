package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("parses_modules_and_warmup", func(t *testing.T) {
		path := writeConfig(t, `
[Simulator]
modules = preload-predictor frequency-counter
warmup_period = 24h

[preload-predictor]
interval_time = 6
depreciation = 0.9

[frequency-counter]
`)
		sim, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 24*time.Hour, sim.WarmupPeriod)
		require.Len(t, sim.Modules, 2)
		require.Equal(t, "preload-predictor", sim.Modules[0].Name)
		require.Equal(t, 6, sim.Modules[0].Settings.GetInt("interval_time"))
		require.Empty(t, sim.Skipped)
	})

	t.Run("empty_modules_and_warmup_are_valid", func(t *testing.T) {
		path := writeConfig(t, `
[Simulator]
modules =
warmup_period =
`)
		sim, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, time.Duration(0), sim.WarmupPeriod)
		require.Empty(t, sim.Modules)
	})

	t.Run("unknown_module_name_is_skipped_not_fatal", func(t *testing.T) {
		path := writeConfig(t, `
[Simulator]
modules = preload-predictor ghost-module
warmup_period =

[preload-predictor]
interval_time = 6
depreciation = 0.9
`)
		sim, err := Load(path)
		require.NoError(t, err)
		require.Len(t, sim.Modules, 1)
		require.Equal(t, []string{"ghost-module"}, sim.Skipped)
	})

	t.Run("missing_simulator_section_is_an_error", func(t *testing.T) {
		path := writeConfig(t, `
[NotSimulator]
foo = bar
`)
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("missing_file_is_an_error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
		require.Error(t, err)
	})

	t.Run("invalid_warmup_format_is_an_error", func(t *testing.T) {
		path := writeConfig(t, `
[Simulator]
modules =
warmup_period = notaduration
`)
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestLoadOverrides(t *testing.T) {
	o, err := LoadOverrides()
	require.NoError(t, err)
	require.Equal(t, "info", o.LogLevel)
	require.Equal(t, 1, o.DebugInterval)
}
