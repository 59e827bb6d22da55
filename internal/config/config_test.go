package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinyseq/sequencer/internal/hardware"
)

// TestValidate checks defaults and format validations for settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Empty settings are filled with defaults.
	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DriverBench, settings.Driver)
	require.Equal(t, DefaultEEPROMFilename, settings.EEPROMFile)
	require.Equal(t, DefaultTickInterval, settings.TickInterval)
	require.Equal(t, DefaultStatusAddress, settings.StatusAddress)
	require.Equal(t, DefaultPins(), settings.Pins)
	require.Equal(t, DefaultLogLevel, settings.LogLevel)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Driver = "arduino" }},
		{"bad status address", func(c *Config) { c.StatusAddress = "bad:address" }},
		{"negative address", func(c *Config) { c.ConfigAddress = -1 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"unknown engine log level", func(c *Config) { c.EngineLogLevel = "chatty" }},
		{"duplicate pins", func(c *Config) {
			c.Pins = DefaultPins()
			c.Pins.Relays[2] = c.Pins.Key
		}},
	}

	for _, tc := range cases {
		cfg := new(Config)
		tc.mutate(cfg)
		require.Error(t, Validate(cfg), tc.name)
	}
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		Driver:        DriverRaspi,
		EEPROMFile:    filepath.Join(dir, "eeprom.bin"),
		ConfigAddress: 32,
		TickInterval:  5 * time.Millisecond,
		StatusAddress: "127.0.0.1:50071",
		Pins: hardware.Pins{
			Key:    2,
			RTS:    3,
			CTS:    4,
			Relays: [hardware.RelayCount]hardware.Pin{10, 11, 12, 13},
		},
		LogLevel:       "info",
		EngineLogLevel: "debug",
		Console:        true,
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)

	require.Error(t, Save(path, nil))
}

// TestLoad_Missing reports a missing settings file.
func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// TestLoad_EnvOverrides verifies SEQUENCER_* variables win over the file.
func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, Save(path, Default()))

	t.Setenv(envDriver, DriverRaspi)
	t.Setenv(envTickInterval, "20ms")
	t.Setenv(envConfigAddress, "64")
	t.Setenv(envConsole, "false")
	t.Setenv(envLogLevel, "warn")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DriverRaspi, loaded.Driver)
	require.Equal(t, 20*time.Millisecond, loaded.TickInterval)
	require.Equal(t, 64, loaded.ConfigAddress)
	require.False(t, loaded.Console)
	require.Equal(t, "warn", loaded.LogLevel)

	t.Setenv(envTickInterval, "soon")

	_, err = Load(path)
	require.Error(t, err)
}
