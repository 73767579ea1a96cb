package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysmon-tools/sysmonlint/pkg/cli"
	"sysmon-tools/sysmonlint/pkg/config"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
)

var schemaFlags struct {
	events    bool
	options   bool
	operators bool
	format    string
}

var schemaCmd = &cobra.Command{
	Use:   "schema [flags] [manifest.xml]",
	Short: "Inspect a Sysmon schema manifest",
	Long: `Parse a Sysmon schema manifest and print what it defines.

By default the command prints a summary: the schema version and the counts
of options, events, and filter operators. The list flags print the full
definitions instead.

Examples:
  # Summary
  sysmonlint schema sysmonschema.xml

  # Every event with its data fields
  sysmonlint schema --events sysmonschema.xml

  # Machine-readable dump
  sysmonlint schema --format json sysmonschema.xml`,
	Args: cobra.MaximumNArgs(1),
	RunE: inspectSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&schemaFlags.events, "events", false, "list events and their data fields")
	schemaCmd.Flags().BoolVar(&schemaFlags.options, "options", false, "list configuration options")
	schemaCmd.Flags().BoolVar(&schemaFlags.operators, "operators", false, "list filter operators")
	schemaCmd.Flags().StringVar(&schemaFlags.format, "format", "text", "output format: text, json")
}

// SchemaInfo is the machine-readable schema summary.
type SchemaInfo struct {
	Version       string              `json:"version"`
	BinaryVersion string              `json:"binary_version,omitempty"`
	Options       []OptionInfo        `json:"options"`
	Events        []EventInfo         `json:"events"`
	Operators     []string            `json:"operators"`
	GroupRelation []string            `json:"group_relations"`
	OnMatch       []string            `json:"onmatch_values"`
}

// OptionInfo describes one configuration option.
type OptionInfo struct {
	Name     string `json:"name"`
	Switch   string `json:"switch,omitempty"`
	Argument string `json:"argument"`
	IsRule   bool   `json:"is_rule,omitempty"`
}

// EventInfo describes one event and its data fields.
type EventInfo struct {
	Name   string      `json:"name"`
	Fields []FieldInfo `json:"fields"`
}

// FieldInfo describes one data field.
type FieldInfo struct {
	Name   string `json:"name"`
	InType string `json:"in_type"`
}

func inspectSchema(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	var flagPath string
	if len(args) == 1 {
		flagPath = args[0]
	}
	schemaPath, err := resolveSchemaPath(flagPath, cfg)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	s, err := schema.Parse(schemaPath)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	info := buildSchemaInfo(s)

	if schemaFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, info); err != nil {
			return cli.NewExitError(cli.ExitFailure, err)
		}
		return nil
	}

	printSchemaInfo(info)
	return nil
}

func buildSchemaInfo(s *schema.Schema) *SchemaInfo {
	info := &SchemaInfo{
		Version:       s.Version().String(),
		BinaryVersion: s.BinaryVersion(),
		Operators:     s.FilterOperators(),
		GroupRelation: s.GroupRelations(),
		OnMatch:       s.OnMatchValues(),
	}

	for _, name := range s.OptionNames() {
		opt, _ := s.LookupOption(name)
		info.Options = append(info.Options, OptionInfo{
			Name:     opt.Name,
			Switch:   opt.Switch,
			Argument: string(opt.Argument),
			IsRule:   opt.IsRule,
		})
	}

	for _, name := range s.EventNames() {
		event, _ := s.LookupEvent(name)
		ei := EventInfo{Name: event.Name}
		for _, f := range event.Fields {
			ei.Fields = append(ei.Fields, FieldInfo{Name: f.Name, InType: f.InType})
		}
		info.Events = append(info.Events, ei)
	}

	return info
}

func printSchemaInfo(info *SchemaInfo) {
	fmt.Printf("Schema version: %s\n", info.Version)
	if info.BinaryVersion != "" {
		fmt.Printf("Binary version: %s\n", info.BinaryVersion)
	}
	fmt.Printf("Options: %d, Events: %d, Filter operators: %d\n",
		len(info.Options), len(info.Events), len(info.Operators))

	if schemaFlags.options {
		fmt.Println("\nOptions:")
		for _, opt := range info.Options {
			fmt.Printf("  %s", opt.Name)
			if opt.Switch != "" {
				fmt.Printf(" (switch -%s)", opt.Switch)
			}
			fmt.Printf(" argument=%s", opt.Argument)
			if opt.IsRule {
				fmt.Print(" rule")
			}
			fmt.Println()
		}
	}

	if schemaFlags.events {
		fmt.Println("\nEvents:")
		for _, event := range info.Events {
			fmt.Printf("  %s (%d fields)\n", event.Name, len(event.Fields))
			for _, f := range event.Fields {
				fmt.Printf("    %s %s\n", f.Name, f.InType)
			}
		}
	}

	if schemaFlags.operators {
		fmt.Println("\nFilter operators:")
		for _, op := range info.Operators {
			fmt.Printf("  %s\n", op)
		}
	}
}
