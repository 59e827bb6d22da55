package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tinyseq/sequencer/internal/hardware"
	"github.com/tinyseq/sequencer/internal/logger"
)

// Config holds the runtime settings of the sequencer binaries.
type Config struct {
	// Driver selects the I/O backend: "bench" or "raspi".
	Driver string `yaml:"driver"`
	// EEPROMFile is the path of the non-volatile memory image.
	EEPROMFile string `yaml:"eeprom_file"`
	// ConfigAddress is the offset of the configuration record in the image.
	ConfigAddress int `yaml:"config_address"`
	// TickInterval is the period of the sequencer loop.
	TickInterval time.Duration `yaml:"tick_interval"`
	// StatusAddress is the gRPC address of the status service.
	StatusAddress string `yaml:"status_addr"`
	// Timeout is the duration for RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// Pins maps the sequencer lines onto GPIO pins.
	Pins hardware.Pins `yaml:"pins"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
	// EngineLogLevel overrides LogLevel for the tick loop; empty inherits it.
	EngineLogLevel string `yaml:"engine_log_level,omitempty"`
	// Console enables the interactive configuration console.
	Console bool `yaml:"console"`
}

const (
	// DefaultConfigFilename is the default filename for runtime settings.
	DefaultConfigFilename = "sequencer-settings.yaml"

	// DefaultEEPROMFilename is the default filename for the memory image.
	DefaultEEPROMFilename = "sequencer-eeprom.bin"

	// DefaultStatusAddress is the default address of the status service.
	DefaultStatusAddress = "127.0.0.1:50061"

	// DefaultTickInterval is the default period of the sequencer loop.
	DefaultTickInterval = 10 * time.Millisecond

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Supported I/O drivers.
const (
	// DriverBench keeps all lines in memory.
	DriverBench = "bench"
	// DriverRaspi drives the Raspberry Pi GPIO header.
	DriverRaspi = "raspi"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownDriver is returned for an unsupported driver name.
	errUnknownDriver = errors.New("unknown driver")
	// errUnknownLogLevel is returned for an unparsable log level.
	errUnknownLogLevel = errors.New("unknown log level")
	// errNegativeAddress is returned for a negative record address.
	errNegativeAddress = errors.New("config address must not be negative")
)

// DefaultPins returns the BCM pin assignment used when none is configured.
func DefaultPins() hardware.Pins {
	return hardware.Pins{
		Key:    17,
		RTS:    27,
		CTS:    22,
		Relays: [hardware.RelayCount]hardware.Pin{5, 6, 13, 19},
	}
}

// Default returns settings with every field at its default.
func Default() *Config {
	cfg := &Config{Driver: DriverBench, Console: true}

	// Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads settings from the provided path, applies SEQUENCER_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the rest.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.Driver == "" {
		settings.Driver = DriverBench
	}

	if settings.Driver != DriverBench && settings.Driver != DriverRaspi {
		return fmt.Errorf("%w: %q", errUnknownDriver, settings.Driver)
	}

	if settings.EEPROMFile == "" {
		settings.EEPROMFile = DefaultEEPROMFilename
	}

	if settings.ConfigAddress < 0 {
		return errNegativeAddress
	}

	if settings.TickInterval <= 0 {
		settings.TickInterval = DefaultTickInterval
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.StatusAddress == "" {
		settings.StatusAddress = DefaultStatusAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.StatusAddress); err != nil {
		return fmt.Errorf("invalid status address: %w", err)
	}

	if settings.Pins == (hardware.Pins{}) {
		settings.Pins = DefaultPins()
	}

	if err := settings.Pins.Validate(); err != nil {
		return fmt.Errorf("invalid pins: %w", err)
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if settings.EngineLogLevel != "" {
		if _, ok := logger.ParseLogLevel(settings.EngineLogLevel); !ok {
			return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.EngineLogLevel)
		}
	}

	return nil
}
