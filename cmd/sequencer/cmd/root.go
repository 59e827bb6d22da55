package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tinyseq/sequencer/internal/config"
	"github.com/tinyseq/sequencer/internal/service/sequencer"
	"github.com/tinyseq/sequencer/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// eepromFile overrides the memory image path.
	eepromFile string
	// driver overrides the I/O driver.
	driver string
	// noConsole disables the interactive console.
	noConsole bool

	// rootCmd represents the base command for running the sequencer.
	rootCmd = &cobra.Command{
		Use:   "sequencer [status-address]",
		Short: "Run the four-step relay sequencer.",
		Long: `Runs the keyed relay sequencer.

When the key or RTS line is asserted the four relays switch to their transmit
positions one after another, each after its Tx delay, and CTS is asserted once
all are in place. On release they return in reverse order, each after its Rx
delay. A transmit held longer than the configured timeout is forced back to
receive until the key is released.

The sequencer configuration lives in a small memory image and is edited from
the interactive console. A gRPC status service reports the live state.
The status address can be provided as argument to override the settings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &sequencer.Options{
				ConfigPath:    configPath,
				EEPROMFile:    eepromFile,
				ListenAddress: listenAddress,
				Driver:        driver,
				NoConsole:     noConsole,
			}

			return sequencer.Run(ctx, options)
		},
	}
)

// Execute runs the sequencer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(newConfigCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.PersistentFlags().
		StringVarP(&eepromFile, "eeprom", "e", "", "path to the configuration memory image")
	rootCmd.Flags().StringVarP(&driver, "driver", "d", "", "I/O driver: bench or raspi")
	rootCmd.Flags().BoolVar(&noConsole, "no-console", false, "run without the interactive console")
}
