package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinyseq/sequencer/internal/config"
	"github.com/tinyseq/sequencer/internal/service/monitor"
	"github.com/tinyseq/sequencer/internal/version"
)

var (
	// configPath stores the path to the settings YAML file.
	configPath string
	// interval between status requests.
	interval time.Duration
	// count of polls before exiting; zero polls forever.
	count int
	// jsonOutput prints every snapshot as JSON.
	jsonOutput bool

	// rootCmd represents the base command for watching a sequencer.
	rootCmd = &cobra.Command{
		Use:   "sequencer-monitor [status-address]",
		Short: "Watch the state of a running sequencer.",
		Long: `Polls the status service of a running sequencer and logs every state change,
transmit timeout and release.

With --json every snapshot is printed as one JSON line instead.
The status address can be provided as argument or loaded from the settings file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			options := &monitor.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				PollInterval:  interval,
				Count:         count,
				JSON:          jsonOutput,
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the sequencer-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", monitor.DefaultPollInterval, "interval between status requests")
	rootCmd.Flags().IntVarP(&count, "count", "n", 0, "exit after this many requests, 0 for no limit")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print every snapshot as a JSON line")
}
