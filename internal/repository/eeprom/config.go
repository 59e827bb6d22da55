package eeprom

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
)

// Repository defines persistence operations for the sequencer Config.
type Repository interface {
	Load(ctx context.Context) (*domain.Config, error)
	Save(ctx context.Context, cfg *domain.Config) error
}

// DefaultConfigAddress is where the Config record lives.
const DefaultConfigAddress = 0

// errConfigIsNotSet is returned when a nil configuration is saved.
var errConfigIsNotSet = errors.New("configuration is not set")

// ConfigRepository stores the Config record in a Store.
type ConfigRepository struct {
	// store holds the raw memory image.
	store Store
	// address is the offset of the record.
	address int
}

// NewConfigRepository creates a repository for the record at address.
func NewConfigRepository(store Store, address int) *ConfigRepository {
	return &ConfigRepository{
		store:   store,
		address: address,
	}
}

// Load reads and decodes the record. The result may fail Valid, which is
// the normal outcome for erased or stale storage; only I/O failures are
// returned as errors.
func (r *ConfigRepository) Load(_ context.Context) (*domain.Config, error) {
	data, err := r.store.ReadAt(r.address, domain.RecordSize)
	if err != nil {
		return nil, fmt.Errorf("read config record: %w", err)
	}

	cfg := new(domain.Config)
	if err = cfg.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decode config record: %w", err)
	}

	return cfg, nil
}

// Save writes the record. The checksum is written as stored.
func (r *ConfigRepository) Save(_ context.Context, cfg *domain.Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	data, err := cfg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode config record: %w", err)
	}

	if err = r.store.WriteAt(r.address, data); err != nil {
		return fmt.Errorf("write config record: %w", err)
	}

	return nil
}
