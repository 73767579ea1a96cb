package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sysmon-tools/sysmonlint/pkg/cli"
	"sysmon-tools/sysmonlint/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sysmonlint",
	Short: "Schema-aware validator for Sysmon configuration files",
	Long: `Sysmonlint validates Sysmon configuration files against a Sysmon schema
manifest before they ever reach an endpoint.

It checks:
  - the declared schemaversion against the schema manifest
  - command-line options and their switch/argument shapes
  - RuleGroup structure and groupRelation values
  - event filter names and onmatch values
  - data field names per event type
  - filter condition operators, with did-you-mean suggestions

Every problem is reported with its file, line, and column.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and maps errors to process exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(os.Stderr, "Error:", exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitFailure)
	}
}

// setup loads configuration and installs the default logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewExitError(cli.ExitFailure, cli.NewConfigError("--config", err.Error()))
	}

	cfg := config.GetConfig()
	setupLogging(&cfg.Logging)
	return nil
}

func setupLogging(cfg *config.LoggingConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
