package sequencer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinyseq/sequencer/internal/repository/eeprom"
)

// DescribeStored renders the configuration record found in the memory image
// without repairing it.
func DescribeStored(ctx context.Context, configPath, eepromFile string) (string, error) {
	settings, err := loadSettings(ctx, &Options{ConfigPath: configPath, EEPROMFile: eepromFile})
	if err != nil {
		return "", err
	}

	repo := eeprom.NewConfigRepository(eeprom.NewFileStore(settings.EEPROMFile), settings.ConfigAddress)

	cfg, err := repo.Load(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Record at %s offset %d: ", settings.EEPROMFile, settings.ConfigAddress)

	if cfg.Valid() {
		b.WriteString("checksum ok\n")
	} else {
		fmt.Fprintf(&b, "checksum mismatch, computed 0x%04x, defaults are used at startup\n", cfg.ComputeChecksum())
	}

	b.WriteString(cfg.Format())

	return b.String(), nil
}
