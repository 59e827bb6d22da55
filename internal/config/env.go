package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables that override the settings file.
const (
	envDriver        = "SEQUENCER_DRIVER"
	envEEPROMFile    = "SEQUENCER_EEPROM_FILE"
	envConfigAddress = "SEQUENCER_CONFIG_ADDRESS"
	envTickInterval  = "SEQUENCER_TICK_INTERVAL"
	envStatusAddress = "SEQUENCER_STATUS_ADDR"
	envTimeout       = "SEQUENCER_TIMEOUT"
	envLogLevel      = "SEQUENCER_LOG_LEVEL"
	envEngineLevel   = "SEQUENCER_ENGINE_LOG_LEVEL"
	envConsole       = "SEQUENCER_CONSOLE"
)

func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv(envDriver); val != "" {
		cfg.Driver = val
	}

	if val := os.Getenv(envEEPROMFile); val != "" {
		cfg.EEPROMFile = val
	}

	if val := os.Getenv(envConfigAddress); val != "" {
		address, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envConfigAddress, err)
		}

		cfg.ConfigAddress = address
	}

	if val := os.Getenv(envTickInterval); val != "" {
		interval, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envTickInterval, err)
		}

		cfg.TickInterval = interval
	}

	if val := os.Getenv(envStatusAddress); val != "" {
		cfg.StatusAddress = val
	}

	if val := os.Getenv(envTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envTimeout, err)
		}

		cfg.Timeout = timeout
	}

	if val := os.Getenv(envLogLevel); val != "" {
		cfg.LogLevel = val
	}

	if val := os.Getenv(envEngineLevel); val != "" {
		cfg.EngineLogLevel = val
	}

	if val := os.Getenv(envConsole); val != "" {
		console, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envConsole, err)
		}

		cfg.Console = console
	}

	return nil
}
