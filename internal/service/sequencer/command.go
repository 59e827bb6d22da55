package sequencer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	api "github.com/tinyseq/sequencer/internal/api/grpc/status"
	"github.com/tinyseq/sequencer/internal/config"
	"github.com/tinyseq/sequencer/internal/console"
	"github.com/tinyseq/sequencer/internal/hardware"
	"github.com/tinyseq/sequencer/internal/hardware/raspi"
	"github.com/tinyseq/sequencer/internal/logger"
	"github.com/tinyseq/sequencer/internal/repository/eeprom"
	core "github.com/tinyseq/sequencer/internal/sequencer"
	"github.com/tinyseq/sequencer/internal/version"
)

// Options controls the sequencer process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// EEPROMFile overrides the memory image path from the settings.
	EEPROMFile string
	// ListenAddress overrides the status service address from the settings.
	ListenAddress string
	// Driver overrides the I/O driver from the settings.
	Driver string
	// NoConsole disables the interactive console.
	NoConsole bool
	// SkipInstanceCheck allows several sequencers on one machine, e.g. in tests.
	SkipInstanceCheck bool
}

// Run starts the sequencer and blocks until ctx is canceled, the console
// quits, or a component fails.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sequencer")

	settings, err := loadSettings(ctx, opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.SkipInstanceCheck {
		if err = ensureSingleInstance(); err != nil {
			return err
		}
	}

	pinIO, lines, closeIO, err := openDriver(settings)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeIO(); closeErr != nil {
			logger.Errorf(ctx, "Failed to release I/O: %v", closeErr)
		}
	}()

	repo := eeprom.NewConfigRepository(eeprom.NewFileStore(settings.EEPROMFile), settings.ConfigAddress)

	cfg, err := loadConfig(ctx, repo)
	if err != nil {
		return err
	}

	engine, err := core.NewEngine(pinIO, hardware.NewSystemClock(), settings.Pins, cfg)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	engine.InitPins()

	svc := newService(engine, repo)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", settings.StatusAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", settings.StatusAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterStatusServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Sequencer starting",
		"version", version.Banner("sequencer"),
		"driver", settings.Driver,
		"eeprom_file", settings.EEPROMFile,
		"status_address", lis.Addr().String(),
		"tick_interval", settings.TickInterval.String())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	engineDone := make(chan error, 1)

	engineCtx := logger.WithName(ctx, "engine")
	if level, ok := logger.ParseLogLevel(settings.EngineLogLevel); ok && settings.EngineLogLevel != "" {
		engineCtx = logger.WithMinLevel(engineCtx, level)
	}

	go func() {
		engineDone <- engine.Run(engineCtx, settings.TickInterval)
	}()

	go func() {
		if serveErr := grpcServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
			errs <- fmt.Errorf("serve gRPC: %w", serveErr)
			return
		}

		errs <- nil
	}()

	if settings.Console && !opts.NoConsole {
		go func() {
			errs <- runConsole(ctx, svc, lines)
		}()
	}

	// The first component to finish stops the others.
	var (
		runErr      error
		engineEnded bool
	)

	select {
	case <-ctx.Done():
	case runErr = <-errs:
	case runErr = <-engineDone:
		engineEnded = true
	}

	cancel()

	logger.Info(ctx, "Shutting down gRPC server")
	grpcServer.GracefulStop()

	// The I/O is released on return; the tick loop must be done with it.
	if !engineEnded {
		if engineErr := <-engineDone; engineErr != nil && runErr == nil {
			runErr = engineErr
		}
	}

	logger.Info(ctx, "Sequencer stopped")

	return runErr
}

// loadSettings reads the settings file, falling back to defaults when it
// does not exist, and applies the command line overrides.
func loadSettings(ctx context.Context, opts *Options) (*config.Config, error) {
	settings, err := config.Load(opts.ConfigPath)

	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		logger.WarnKV(ctx, "Settings file not found, using defaults", "path", opts.ConfigPath)

		settings = config.Default()
	default:
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.EEPROMFile != "" {
		settings.EEPROMFile = opts.EEPROMFile
	}

	if opts.ListenAddress != "" {
		settings.StatusAddress = opts.ListenAddress
	}

	if opts.Driver != "" {
		settings.Driver = opts.Driver
	}

	if err = config.Validate(settings); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return settings, nil
}

// openDriver opens the configured I/O backend. Lines is nil for real hardware.
func openDriver(settings *config.Config) (hardware.IO, console.Lines, func() error, error) {
	switch settings.Driver {
	case config.DriverRaspi:
		gpio, err := raspi.Open()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open %s driver: %w", settings.Driver, err)
		}

		return gpio, nil, gpio.Close, nil
	default:
		bench := hardware.NewBench()

		return bench, &benchLines{bench: bench, pins: settings.Pins}, func() error { return nil }, nil
	}
}

func runConsole(ctx context.Context, editor console.Editor, lines console.Lines) error {
	shell, err := console.NewShell(editor, lines)
	if err != nil {
		return err
	}

	// Keep log lines from tearing the prompt.
	logger.SetOutput(shell.Stdout())
	defer logger.SetOutput(os.Stdout)

	return shell.Run(ctx)
}

// benchLines drives the simulated key and RTS inputs of the bench driver.
type benchLines struct {
	bench *hardware.Bench
	pins  hardware.Pins
}

// SetKey drives the active-low key line.
func (b *benchLines) SetKey(active bool) {
	b.bench.Set(b.pins.Key, activeLow(active))
}

// SetRTS drives the active-low RTS line.
func (b *benchLines) SetRTS(active bool) {
	b.bench.Set(b.pins.RTS, activeLow(active))
}

func activeLow(active bool) hardware.Level {
	if active {
		return hardware.Low
	}

	return hardware.High
}
