package errors

import (
	"fmt"
	"strings"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
)

// ParseKind categorizes a fatal document-level parse failure.
type ParseKind string

const (
	// KindSyntax means the document is not well-formed XML.
	KindSyntax ParseKind = "syntax"
	// KindStructure means the document is well-formed but not shaped like
	// the expected document (wrong or missing root, missing version).
	KindStructure ParseKind = "structure"
	// KindIO means the document could not be read.
	KindIO ParseKind = "io"
	// KindLimit means the document exceeded a size or depth guard.
	KindLimit ParseKind = "limit"
)

// ParseError is a fatal failure to parse the schema or configuration
// document. It aborts the run before any finding is produced.
type ParseError struct {
	Kind     ParseKind
	Document string // which document failed: "schema" or "config"
	Message  string
	Location ast.Location
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Location.IsValid() {
		return fmt.Sprintf("[%s] %s document: %s (%s)", e.Kind, e.Document, e.Message, e.Location)
	}
	return fmt.Sprintf("[%s] %s document: %s", e.Kind, e.Document, e.Message)
}

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifies which validation check raised a finding.
type Rule string

const (
	RuleSchemaVersion      Rule = "schema-version"
	RuleUnknownOption      Rule = "unknown-option"
	RuleSwitchMismatch     Rule = "switch-mismatch"
	RuleMissingArgument    Rule = "missing-argument"
	RuleUnexpectedArgument Rule = "unexpected-argument"
	RuleGroupRelation      Rule = "group-relation"
	RuleUnknownEvent       Rule = "unknown-event"
	RuleOnMatch            Rule = "onmatch"
	RuleUnknownField       Rule = "unknown-field"
	RuleUnknownCondition   Rule = "unknown-condition"
	RuleMissingCondition   Rule = "missing-condition"
)

// Finding is one reported validation problem. It carries enough location
// information (tree path plus file position) to be traced back to the
// offending line without re-parsing the document.
type Finding struct {
	Severity   Severity
	Rule       Rule
	Message    string
	Path       string // element path within the config tree
	Location   ast.Location
	Suggestion string // suggested fix (optional)
}

// String formats the finding for human-readable output.
func (f *Finding) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", f.Severity, f.Rule, f.Message))
	if f.Path != "" {
		sb.WriteString(fmt.Sprintf("  at %s\n", f.Path))
	}
	if f.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", f.Location))
	}
	if f.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", f.Suggestion))
	}
	return sb.String()
}

// FindingList accumulates findings during a validation walk, in document
// order. It is the validation report: an empty list means the configuration
// is valid.
type FindingList struct {
	Findings []*Finding
}

// NewFindingList creates an empty finding list.
func NewFindingList() *FindingList {
	return &FindingList{Findings: make([]*Finding, 0)}
}

// Add appends a finding to the list.
func (fl *FindingList) Add(f *Finding) {
	fl.Findings = append(fl.Findings, f)
}

// AddError creates and appends an error-severity finding.
func (fl *FindingList) AddError(rule Rule, message, path string, loc ast.Location) {
	fl.Add(&Finding{
		Severity: SeverityError,
		Rule:     rule,
		Message:  message,
		Path:     path,
		Location: loc,
	})
}

// AddErrorWithSuggestion creates and appends an error-severity finding with
// a suggested fix.
func (fl *FindingList) AddErrorWithSuggestion(rule Rule, message, path string, loc ast.Location, suggestion string) {
	fl.Add(&Finding{
		Severity:   SeverityError,
		Rule:       rule,
		Message:    message,
		Path:       path,
		Location:   loc,
		Suggestion: suggestion,
	})
}

// HasFindings reports whether any finding was recorded.
func (fl *FindingList) HasFindings() bool {
	return len(fl.Findings) > 0
}

// Count returns the number of findings.
func (fl *FindingList) Count() int {
	return len(fl.Findings)
}

// ByRule returns the findings raised by the given rule.
func (fl *FindingList) ByRule(rule Rule) []*Finding {
	var result []*Finding
	for _, f := range fl.Findings {
		if f.Rule == rule {
			result = append(result, f)
		}
	}
	return result
}

// HasRule reports whether at least one finding was raised by the given rule.
func (fl *FindingList) HasRule(rule Rule) bool {
	for _, f := range fl.Findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

// Error implements the error interface, formatting every finding.
func (fl *FindingList) Error() string {
	if !fl.HasFindings() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d problem(s):\n\n", fl.Count()))
	for i, f := range fl.Findings {
		sb.WriteString(fmt.Sprintf("Problem %d:\n", i+1))
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToError returns nil when the list is empty, otherwise the list itself.
func (fl *FindingList) ToError() error {
	if !fl.HasFindings() {
		return nil
	}
	return fl
}
