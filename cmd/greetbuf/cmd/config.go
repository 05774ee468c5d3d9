package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javi11/greetbuf/internal/config"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect greetbuf configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration a run would use, built-in defaults merged with --config, as YAML.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(appFs, configFile)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("failed to load config: %w", err)}
	}

	data, err := cfg.ToYAML()
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
