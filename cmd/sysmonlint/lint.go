package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sysmon-tools/sysmonlint/pkg/cli"
	"sysmon-tools/sysmonlint/pkg/config"
	"sysmon-tools/sysmonlint/pkg/history"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/parser"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
	"sysmon-tools/sysmonlint/pkg/sysmon/validator"
)

var lintFlags struct {
	schema string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <config.xml>...",
	Short: "Validate Sysmon configuration files",
	Long: `Validate Sysmon configuration files against a schema manifest.

The lint command parses each configuration and performs comprehensive
validation:
  - XML well-formedness
  - schemaversion against the manifest's version
  - option names, switches, and argument shapes
  - RuleGroup structure and groupRelation values
  - event names, onmatch values, and data fields
  - filter condition operators

An unknown name comes with a did-you-mean suggestion when a close match
exists in the schema.

Exit codes: 0 when every file is valid, 1 when validation produced
findings, 2 when a document could not be parsed at all.

Examples:
  # Lint a single file
  sysmonlint lint --schema sysmonschema.xml sysmon.xml

  # Lint every configuration in a directory
  sysmonlint lint --schema sysmonschema.xml --dir configs/

  # JSON output for CI/CD
  sysmonlint lint --schema sysmonschema.xml --format json sysmon.xml`,
	RunE: lintConfigs,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.schema, "schema", "s", "", "schema manifest path")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of configuration files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintConfigs(cmd *cobra.Command, args []string) error {
	files := append([]string{}, args...)
	if lintFlags.dir != "" {
		matches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.xml"))
		if err != nil {
			return cli.NewExitError(cli.ExitFailure, fmt.Errorf("failed to list configuration files: %w", err))
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return cli.NewExitError(cli.ExitFailure, fmt.Errorf("no configuration files given"))
	}

	cfg := config.GetConfig()
	schemaPath, err := resolveSchemaPath(lintFlags.schema, cfg)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure, err)
	}

	s, err := schema.Parse(schemaPath)
	if err != nil {
		return cli.NewExitError(cli.ExitFailure,
			cli.NewCommandError("lint", fmt.Errorf("failed to load schema %q: %w", schemaPath, err)))
	}

	v := newValidator(s, cfg)
	p := newConfigParser(cfg)

	var store *history.Store
	if cfg != nil && cfg.History.Enabled {
		store, err = openHistoryStore()
		if err != nil {
			return cli.NewExitError(cli.ExitFailure, err)
		}
		defer store.Close()
	}

	parseFailed := false
	anyFindings := false
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		result := validateConfigFile(p, v, file)
		if !result.Valid {
			if result.parseError {
				parseFailed = true
			} else {
				anyFindings = true
			}
		}
		results = append(results, result)

		if store != nil && !result.parseError {
			run := history.NewRun(schemaPath, file)
			run.SchemaVersion = s.Version().String()
			run.ConfigVersion = result.configVersion
			run.Valid = result.Valid
			run.FindingCount = len(result.findings)
			run.Findings = result.findings
			if err := store.Record(cmd.Context(), run); err != nil {
				slog.Default().Error("failed to record run", "error", err)
			}
		}
	}

	if lintFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, results); err != nil {
			return cli.NewExitError(cli.ExitFailure, err)
		}
	} else {
		outputText(results)
	}

	switch {
	case parseFailed:
		return cli.NewExitError(cli.ExitFailure, nil)
	case anyFindings:
		return cli.NewExitError(cli.ExitFindings, nil)
	}
	return nil
}

// resolveSchemaPath picks the schema manifest: the --schema flag wins, then
// the configured default.
func resolveSchemaPath(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg != nil && cfg.Schema.Path != "" {
		return cfg.Schema.Path, nil
	}
	return "", fmt.Errorf("no schema manifest: pass --schema or set schema.path in the config file")
}

// newConfigParser builds a configuration parser with the configured limits.
func newConfigParser(cfg *config.Config) *parser.Parser {
	p := parser.NewParser()
	if cfg == nil {
		return p
	}
	return p.
		WithMaxFileSize(cfg.Lint.MaxFileSize).
		WithMaxDepth(cfg.Lint.MaxDepth).
		WithMaxNodes(cfg.Lint.MaxNodes)
}

// newValidator builds a validator with the configured policy knobs.
func newValidator(s *schema.Schema, cfg *config.Config) *validator.Validator {
	v := validator.New(s)
	if cfg == nil {
		return v
	}
	if len(cfg.Lint.OperatorsByType) > 0 {
		v = v.WithOperatorsByType(cfg.Lint.OperatorsByType)
	}
	return v.WithRequireCondition(cfg.Lint.RequireCondition)
}

// ValidationResult represents the validation result for a single
// configuration file.
type ValidationResult struct {
	File   string            `json:"file"`
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`

	// parseError marks a file that could not be parsed at all, as opposed
	// to one that parsed but produced findings.
	parseError bool

	// configVersion and findings carry the raw validation output for
	// history recording.
	configVersion string
	findings      []*sysmonErrors.Finding
}

// ValidationError represents a single finding or parse failure.
type ValidationError struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func validateConfigFile(p *parser.Parser, v *validator.Validator, path string) ValidationResult {
	result := ValidationResult{
		File:  path,
		Valid: true,
	}

	doc, err := p.Parse(path)
	if err != nil {
		result.Valid = false
		result.parseError = true
		result.Errors = append(result.Errors, toValidationError(err))
		return result
	}

	result.configVersion, _ = doc.Root.Attr("schemaversion")

	findings, err := v.Validate(doc)
	if err != nil {
		result.Valid = false
		result.parseError = true
		result.Errors = append(result.Errors, toValidationError(err))
		return result
	}

	if findings.HasFindings() {
		result.Valid = false
		result.findings = findings.Findings
		for _, f := range findings.Findings {
			result.Errors = append(result.Errors, ValidationError{
				Line:       f.Location.Line,
				Column:     f.Location.Column,
				Rule:       string(f.Rule),
				Message:    f.Message,
				Severity:   string(f.Severity),
				Path:       f.Path,
				Suggestion: f.Suggestion,
			})
		}
	}

	return result
}

// toValidationError converts a parse failure into a reportable error entry.
func toValidationError(err error) ValidationError {
	if parseErr, ok := err.(*sysmonErrors.ParseError); ok {
		return ValidationError{
			Line:     parseErr.Location.Line,
			Column:   parseErr.Location.Column,
			Message:  parseErr.Message,
			Severity: "error",
			Rule:     string(parseErr.Kind),
		}
	}
	return ValidationError{
		Message:  err.Error(),
		Severity: "error",
	}
}

func outputText(results []ValidationResult) {
	totalErrors := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if result.Valid {
			fmt.Println("✓ Valid")
			fmt.Println()
			continue
		}

		for _, err := range result.Errors {
			fmt.Printf("✗ Error: %s", err.Message)
			if err.Line > 0 {
				fmt.Printf(" (line %d", err.Line)
				if err.Column > 0 {
					fmt.Printf(", col %d", err.Column)
				}
				fmt.Print(")")
			}
			if err.Rule != "" {
				fmt.Printf(" [%s]", err.Rule)
			}
			fmt.Println()
			if err.Path != "" {
				fmt.Printf("  at %s\n", err.Path)
			}
			if err.Suggestion != "" {
				fmt.Printf("  suggestion: %s\n", err.Suggestion)
			}
			totalErrors++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s), %d error(s)\n", len(results), totalErrors)
}
