package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/tinyseq/sequencer/internal/api/grpc/status"
	"github.com/tinyseq/sequencer/internal/config"
	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
	"github.com/tinyseq/sequencer/internal/repository/eeprom"
	"github.com/tinyseq/sequencer/internal/service/monitor"
	"github.com/tinyseq/sequencer/internal/service/sequencer"
)

// startSequencer runs a bench sequencer with temporary settings and memory image.
// Returns a stop function that waits for Run to return.
func startSequencer(t *testing.T, addr, imagePath string) (stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	settings := config.Default()
	settings.StatusAddress = addr
	settings.EEPROMFile = imagePath
	settings.Console = false
	settings.LogLevel = "warn"
	require.NoError(t, config.Save(cfgPath, settings))

	done := make(chan error, 1)

	go func() {
		done <- sequencer.Run(ctx, &sequencer.Options{
			ConfigPath:        cfgPath,
			SkipInstanceCheck: true,
		})
	}()

	// Wait briefly for the server to start listening.
	time.Sleep(150 * time.Millisecond)

	return func() error {
		cancel()

		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("sequencer did not stop")
			return nil
		}
	}
}

func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// TestSequencer_StatusRoundtrip starts the real process loop on the bench
// driver and reads its status over gRPC.
func TestSequencer_StatusRoundtrip(t *testing.T) {
	t.Parallel()

	addr := freeAddress(t)
	imagePath := filepath.Join(t.TempDir(), "eeprom.bin")

	stop := startSequencer(t, addr, imagePath)

	ctx := context.Background()

	client, err := api.Dial(ctx, addr, api.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = client.Close()
	}()

	require.Eventually(t, func() bool {
		reply, err := client.GetStatus(ctx)
		if err != nil {
			return false
		}

		snapshot := api.ParseSnapshot(reply)

		return snapshot.Ticks > 0 && snapshot.State == "Rx"
	}, 3*time.Second, 20*time.Millisecond)

	reply, err := client.GetStatus(ctx)
	require.NoError(t, err)

	snapshot := api.ParseSnapshot(reply)
	require.Equal(t, []string{"Open", "Open", "Open", "Open"}, snapshot.Relays)
	require.False(t, snapshot.CTS)
	require.NotEmpty(t, snapshot.Host)

	// The monitor prints the same status as JSON.
	var out bytes.Buffer

	err = monitor.Run(ctx, &monitor.Options{
		ConfigPath:    filepath.Join(t.TempDir(), "absent.yaml"),
		ServerAddress: addr,
		PollInterval:  10 * time.Millisecond,
		Count:         2,
		JSON:          true,
		Output:        &out,
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	require.Equal(t, "Rx", decoded["state"])

	require.NoError(t, stop())

	// The erased image was replaced by the defaults at startup.
	repo := eeprom.NewConfigRepository(eeprom.NewFileStore(imagePath), eeprom.DefaultConfigAddress)

	stored, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Defaults(), *stored)
}
