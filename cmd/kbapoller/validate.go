package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamzrod/kba-poller/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the daemon config and every device config",
	Long: `Load the daemon configuration and the device file of every line
without contacting any controller.

Exit codes:
  0 - all files are valid
  1 - at least one file is invalid (details on stderr)`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	var errs []error
	for _, l := range cfg.Poller.Lines {
		devPath := cfg.DevicePath(l)
		dev, err := config.LoadDevice(devPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %q: %w", l.ID, err))
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "line %-12s %s -> %s (req_delay %s, timing %t)\n",
			l.ID, devPath, dev.Address(), dev.ReqDelay.Duration(), dev.CheckTimeSession)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "config is valid: %d line(s)\n", len(cfg.Poller.Lines))
	return nil
}

// loadConfig loads, validates and normalizes the daemon configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}
