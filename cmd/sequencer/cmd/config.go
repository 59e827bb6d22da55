package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyseq/sequencer/internal/config"
	"github.com/tinyseq/sequencer/internal/service/sequencer"
)

// newConfigCommand creates the `config` subcommand family.
func newConfigCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "config",
		Short: "Inspect the stored sequencer configuration and settings.",
	}

	root.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration record stored in the memory image.",
		Long: `Prints the configuration record stored in the memory image along with
whether its checksum matches. The image is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := sequencer.DescribeStored(cmd.Context(), configPath, eepromFile)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), report)

			return err
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "init-settings",
		Short: "Write a settings file with every field at its default.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("settings file %s already exists", configPath)
			}

			if err := config.Save(configPath, config.Default()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", configPath)

			return err
		},
	})

	return root
}
