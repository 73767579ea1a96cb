package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sysmon-tools/sysmonlint/pkg/cli"
	"sysmon-tools/sysmonlint/pkg/config"
	"sysmon-tools/sysmonlint/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query recorded validation runs",
	Long: `Query the validation run history database.

Runs are recorded by watch mode (and by lint with history enabled in the
tool configuration). Each run stores the schema and configuration paths,
the outcome, and the full finding list.`,
}

var historyListFlags struct {
	configPath string
	invalid    bool
	since      string
	limit      int
	format     string
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded validation runs",
	Long: `List recorded validation runs, newest first.

Examples:
  # Last 20 runs
  sysmonlint history list --limit 20

  # Failing runs for one configuration
  sysmonlint history list --config-path sysmon.xml --invalid

  # Runs since a point in time
  sysmonlint history list --since 2026-08-01T00:00:00Z`,
	RunE: listHistory,
}

var historyShowFlags struct {
	format string
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one validation run with its findings",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistoryRun,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyListCmd.Flags().StringVar(&historyListFlags.configPath, "config-path", "", "only runs for this configuration file")
	historyListCmd.Flags().BoolVar(&historyListFlags.invalid, "invalid", false, "only runs that produced findings")
	historyListCmd.Flags().StringVar(&historyListFlags.since, "since", "", "only runs at or after this RFC 3339 time")
	historyListCmd.Flags().IntVar(&historyListFlags.limit, "limit", 50, "maximum number of runs")
	historyListCmd.Flags().StringVar(&historyListFlags.format, "format", "text", "output format: text, json")

	historyShowCmd.Flags().StringVar(&historyShowFlags.format, "format", "text", "output format: text, json")
}

// openHistoryStore opens the configured history database.
func openHistoryStore() (*history.Store, error) {
	cfg := config.GetConfig()
	return history.NewStore(&history.Config{
		Path:         cfg.History.SQLite.Path,
		MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
		MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
		WALMode:      cfg.History.SQLite.WALMode,
		BusyTimeout:  cfg.History.SQLite.BusyTimeout,
	})
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}
	defer store.Close()

	query := history.Query{
		ConfigPath:  historyListFlags.configPath,
		OnlyInvalid: historyListFlags.invalid,
		Limit:       historyListFlags.limit,
	}
	if historyListFlags.since != "" {
		since, err := time.Parse(time.RFC3339, historyListFlags.since)
		if err != nil {
			return cli.NewExitError(cli.ExitFailure, fmt.Errorf("invalid --since value: %w", err))
		}
		query.Since = since
	}

	runs, err := store.List(cmd.Context(), query)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	if historyListFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, runs); err != nil {
			return cli.NewExitError(cli.ExitFailure, err)
		}
		return nil
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, run := range runs {
		status := "valid"
		if !run.Valid {
			status = fmt.Sprintf("%d finding(s)", run.FindingCount)
		}
		fmt.Printf("%s  %s  %s  %s\n",
			run.RecordedAt.Format(time.RFC3339), run.ID, run.ConfigPath, status)
	}
	return nil
}

func showHistoryRun(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	if historyShowFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, run); err != nil {
			return cli.NewExitError(cli.ExitFailure, err)
		}
		return nil
	}

	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("Recorded: %s\n", run.RecordedAt.Format(time.RFC3339))
	fmt.Printf("Schema:   %s (version %s)\n", run.SchemaPath, run.SchemaVersion)
	fmt.Printf("Config:   %s", run.ConfigPath)
	if run.ConfigVersion != "" {
		fmt.Printf(" (schemaversion %s)", run.ConfigVersion)
	}
	fmt.Println()
	if run.Valid {
		fmt.Println("Result:   valid")
		return nil
	}
	fmt.Printf("Result:   %d finding(s)\n", run.FindingCount)
	for _, f := range run.Findings {
		fmt.Printf("  [%s] %s", f.Rule, f.Message)
		if f.Location.Line > 0 {
			fmt.Printf(" (line %d)", f.Location.Line)
		}
		fmt.Println()
	}
	return nil
}
