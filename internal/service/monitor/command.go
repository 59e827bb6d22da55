package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/tinyseq/sequencer/internal/api/grpc/status"
	"github.com/tinyseq/sequencer/internal/config"
	"github.com/tinyseq/sequencer/internal/logger"
	"github.com/tinyseq/sequencer/internal/version"
)

// Options controls the monitor polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional status service address override.
	ServerAddress string
	// PollInterval defines the interval between status requests.
	PollInterval time.Duration
	// Timeout specifies the per-RPC timeout duration.
	Timeout time.Duration
	// JSON prints every snapshot as a JSON line instead of logging changes.
	JSON bool
	// Count stops the monitor after that many polls; zero polls forever.
	Count int
	// Output receives JSON lines; stdout if nil.
	Output io.Writer
}

// DefaultPollInterval defines the default interval between status requests.
const DefaultPollInterval = 250 * time.Millisecond

// statusGetter is the client call the monitor depends on.
type statusGetter interface {
	GetStatus(ctx context.Context) (*structpb.Struct, error)
}

// Run polls the status service until ctx is canceled or Count polls are done.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sequencer-monitor")

	settings, err := config.Load(opts.ConfigPath)

	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		settings = config.Default()
	default:
		return fmt.Errorf("load configuration: %w", err)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.Timeout <= 0 {
		opts.Timeout = settings.Timeout
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	serverAddress := settings.StatusAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := api.Dial(ctx, serverAddress, api.WithCallTimeout(opts.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Polling sequencer status",
		"version", version.Banner("sequencer-monitor"),
		"server_address", serverAddress, "interval", opts.PollInterval.String())

	return poll(ctx, client, opts)
}

func poll(ctx context.Context, client statusGetter, opts *Options) error {
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	var (
		w     watcher
		polls int
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			if err := checkStatus(ctx, client, &w, opts); err != nil {
				logger.ErrorKV(ctx, "Check status failed", "error", err)
			}

			polls++
			if opts.Count > 0 && polls >= opts.Count {
				return nil
			}
		}
	}
}

// checkStatus fetches one snapshot and reports it.
func checkStatus(ctx context.Context, client statusGetter, w *watcher, opts *Options) error {
	reply, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	if opts.JSON {
		data, err := protojson.Marshal(reply)
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}

		if _, err = fmt.Fprintln(opts.Output, string(data)); err != nil {
			return fmt.Errorf("write status: %w", err)
		}
	}

	w.observe(ctx, api.ParseSnapshot(reply))

	return nil
}

// watcher remembers the previous snapshot to report changes only.
type watcher struct {
	seen bool
	last api.Snapshot
}

func (w *watcher) observe(ctx context.Context, snapshot api.Snapshot) {
	defer func() {
		w.seen = true
		w.last = snapshot
	}()

	if !w.seen {
		logger.InfoKV(ctx, "Sequencer status",
			"host", snapshot.Host,
			"state", snapshot.State,
			"relays", snapshot.Relays,
			"cts", snapshot.CTS)

		return
	}

	if snapshot.State != w.last.State {
		logger.InfoKV(ctx, "State changed",
			"from", w.last.State,
			"to", snapshot.State,
			"relays", snapshot.Relays,
			"cts", snapshot.CTS)
	}

	switch {
	case snapshot.TimedOut && !w.last.TimedOut:
		logger.WarnKV(ctx, "Transmit timeout tripped", "held", snapshot.Held.String())
	case !snapshot.TimedOut && w.last.TimedOut:
		logger.Info(ctx, "Transmit timeout cleared")
	}
}
