package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysmon-tools/sysmonlint/pkg/cli"
	"sysmon-tools/sysmonlint/pkg/config"
	"sysmon-tools/sysmonlint/pkg/history"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
	"sysmon-tools/sysmonlint/pkg/watch"
)

var watchFlags struct {
	schema  string
	metrics string
}

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <config.xml>...",
	Short: "Revalidate configurations whenever they change",
	Long: `Watch Sysmon configuration files and revalidate them on every change.

The schema manifest is watched too: editing it revalidates every
configuration. Results are printed as they happen. When a metrics address
is configured, a Prometheus endpoint exposes run counts, finding counts by
rule, and run durations. When history is enabled, every run is recorded.

The command runs until interrupted.

Examples:
  sysmonlint watch --schema sysmonschema.xml sysmon.xml

  # With a metrics endpoint
  sysmonlint watch --schema sysmonschema.xml --metrics :9310 sysmon.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: watchConfigs,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.schema, "schema", "s", "", "schema manifest path")
	watchCmd.Flags().StringVar(&watchFlags.metrics, "metrics", "", "metrics listen address (overrides config)")
}

func watchConfigs(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	schemaPath, err := resolveSchemaPath(watchFlags.schema, cfg)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	metricsAddr := cfg.Watch.MetricsAddress
	if watchFlags.metrics != "" {
		metricsAddr = watchFlags.metrics
	}

	// Each run reloads the schema so manifest edits take effect.
	validate := func(schemaPath, configPath string) (*watch.Outcome, error) {
		s, err := schema.Parse(schemaPath)
		if err != nil {
			return nil, err
		}
		doc, err := newConfigParser(cfg).Parse(configPath)
		if err != nil {
			return nil, err
		}
		findings, err := newValidator(s, cfg).Validate(doc)
		if err != nil {
			return nil, err
		}
		out := &watch.Outcome{Findings: findings, SchemaVersion: s.Version().String()}
		out.ConfigVersion, _ = doc.Root.Attr("schemaversion")
		return out, nil
	}

	session, err := watch.NewSession(&watch.SessionConfig{
		SchemaPath:       schemaPath,
		ConfigPaths:      args,
		DebounceInterval: cfg.Watch.DebounceInterval,
		RescanSchedule:   cfg.Watch.RescanSchedule,
		MetricsAddress:   metricsAddr,
	}, validate)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	if cfg.History.Enabled {
		store, err := history.NewStore(&history.Config{
			Path:         cfg.History.SQLite.Path,
			MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
			WALMode:      cfg.History.SQLite.WALMode,
			BusyTimeout:  cfg.History.SQLite.BusyTimeout,
		})
		if err != nil {
			return cli.NewExitError(cli.ExitFailure, err)
		}
		defer store.Close()
		session.SetHistoryStore(store)
	}

	session.OnResult = printWatchResult

	ctx := cli.SetupSignalHandler()
	if err := session.Run(ctx); err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}
	return nil
}

func printWatchResult(res *watch.Result) {
	switch {
	case res.Err != nil:
		fmt.Printf("✗ %s: %v\n", res.ConfigPath, res.Err)
	case res.Findings.HasFindings():
		fmt.Printf("✗ %s: %d finding(s)\n", res.ConfigPath, res.Findings.Count())
		for _, f := range res.Findings.Findings {
			fmt.Printf("  %s", f.Message)
			if f.Location.Line > 0 {
				fmt.Printf(" (line %d)", f.Location.Line)
			}
			fmt.Println()
		}
	default:
		fmt.Printf("✓ %s: valid\n", res.ConfigPath)
	}
}
