package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
	"github.com/tinyseq/sequencer/internal/logger"
	"github.com/tinyseq/sequencer/internal/repository/eeprom"
	core "github.com/tinyseq/sequencer/internal/sequencer"
)

// errMutateRequired is returned when Update is called without a mutation.
var errMutateRequired = errors.New("mutation must be provided")

// Engine is the part of the tick engine the service edits.
type Engine interface {
	Config() *domain.Config
	SetConfig(cfg *domain.Config) error
	Reset()
	Status() core.Status
}

// service owns configuration edits: every change is sealed, written through
// to the repository and then swapped into the engine.
type service struct {
	// engine runs the sequencer.
	engine Engine
	// repo persists the configuration record.
	repo eeprom.Repository
	// mu serializes edits.
	mu sync.Mutex
}

// newService creates a service editing engine's configuration.
func newService(engine Engine, repository eeprom.Repository) *service {
	return &service{
		engine: engine,
		repo:   repository,
	}
}

// Current returns a copy of the running configuration.
func (s *service) Current() *domain.Config {
	return s.engine.Config()
}

// Status returns the engine status after the last tick.
func (s *service) Status() core.Status {
	return s.engine.Status()
}

// Update applies mutate to a copy of the running configuration, seals it,
// persists it and activates it.
func (s *service) Update(ctx context.Context, mutate func(cfg *domain.Config) error) error {
	if mutate == nil {
		return errMutateRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.engine.Config()
	if err := mutate(next); err != nil {
		return err
	}

	next.Seal()

	if err := s.apply(ctx, next); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Configuration updated", "checksum", fmt.Sprintf("0x%04x", next.Checksum))

	return nil
}

// Reset replaces the configuration with the defaults.
func (s *service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := domain.Defaults()

	if err := s.apply(ctx, &defaults); err != nil {
		return err
	}

	logger.Info(ctx, "Configuration reset to defaults")

	return nil
}

// Reboot reloads the stored configuration and restarts the machine from Rx,
// as after a power cycle.
func (s *service) Reboot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := loadConfig(ctx, s.repo)
	if err != nil {
		return err
	}

	if err := s.engine.SetConfig(cfg); err != nil {
		return fmt.Errorf("activate configuration: %w", err)
	}

	s.engine.Reset()

	logger.Info(ctx, "Sequencer rebooted")

	return nil
}

func (s *service) apply(ctx context.Context, cfg *domain.Config) error {
	if err := s.repo.Save(ctx, cfg); err != nil {
		logger.Errorf(ctx, "Failed to persist configuration: %v", err)

		return fmt.Errorf("persist configuration: %w", err)
	}

	if err := s.engine.SetConfig(cfg); err != nil {
		return fmt.Errorf("activate configuration: %w", err)
	}

	return nil
}

// loadConfig reads the stored configuration. A record that fails its
// checksum is replaced by the defaults, which are written back.
func loadConfig(ctx context.Context, repository eeprom.Repository) (*domain.Config, error) {
	cfg, err := repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Valid() {
		logger.DebugKV(ctx, "Stored configuration accepted", "checksum", fmt.Sprintf("0x%04x", cfg.Checksum))

		return cfg, nil
	}

	logger.WarnKV(ctx, "Stored configuration invalid, writing defaults",
		"stored", fmt.Sprintf("0x%04x", cfg.Checksum),
		"computed", fmt.Sprintf("0x%04x", cfg.ComputeChecksum()))

	defaults := domain.Defaults()
	if err := repository.Save(ctx, &defaults); err != nil {
		return nil, fmt.Errorf("persist default configuration: %w", err)
	}

	return &defaults, nil
}
