package errors

import (
	"strings"
	"testing"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
)

func TestFindingList_Accumulation(t *testing.T) {
	fl := NewFindingList()

	if fl.HasFindings() {
		t.Error("new list reports findings")
	}
	if fl.ToError() != nil {
		t.Error("empty list ToError() != nil")
	}

	loc := ast.Location{File: "config.xml", Line: 3, Column: 5}
	fl.AddError(RuleUnknownOption, `unknown option "Foo"`, "Sysmon > Foo", loc)
	fl.AddErrorWithSuggestion(RuleUnknownField, `no field "Bar"`, "Sysmon > EventFiltering", loc, `Did you mean "Baz"?`)

	if fl.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", fl.Count())
	}
	if !fl.HasRule(RuleUnknownOption) || fl.HasRule(RuleOnMatch) {
		t.Error("HasRule misreports")
	}
	if got := fl.ByRule(RuleUnknownField); len(got) != 1 || got[0].Suggestion == "" {
		t.Errorf("ByRule(unknown-field) = %v", got)
	}
	if fl.ToError() == nil {
		t.Error("non-empty list ToError() = nil")
	}

	msg := fl.Error()
	for _, want := range []string{"found 2 problem(s)", "unknown-option", "config.xml:3:5", "Did you mean"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q:\n%s", want, msg)
		}
	}
}

func TestParseError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want []string
	}{
		{
			name: "with location",
			err: &ParseError{
				Kind:     KindSyntax,
				Document: "config",
				Message:  "malformed XML",
				Location: ast.Location{File: "config.xml", Line: 7, Column: 2},
			},
			want: []string{"[syntax]", "config document", "config.xml:7:2"},
		},
		{
			name: "without location",
			err: &ParseError{
				Kind:     KindIO,
				Document: "schema",
				Message:  "failed to access file",
			},
			want: []string{"[io]", "schema document", "failed to access file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, missing %q", msg, want)
				}
			}
		})
	}
}

func TestSuggestName(t *testing.T) {
	known := []string{"ProcessCreate", "NetworkConnect", "FileCreate", "ProcessTerminate", "DriverLoad", "ImageLoad"}

	tests := []struct {
		name    string
		unknown string
		want    string
	}{
		{"close match", "ProcessCreat", `Did you mean "ProcessCreate"?`},
		{"transposition", "ProcesCreate", `Did you mean "ProcessCreate"?`},
		{"no close match lists known names", "ZzzzzzzzQqqqqq", "Known names include:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestName(tt.unknown, known)
			if !strings.Contains(got, tt.want) {
				t.Errorf("SuggestName(%q) = %q, want containing %q", tt.unknown, got, tt.want)
			}
		})
	}

	if got := SuggestName("anything", nil); got != "" {
		t.Errorf("SuggestName with no known names = %q, want empty", got)
	}
}

func TestSuggestValues(t *testing.T) {
	got := SuggestValues("groupRelation", []string{"and", "or"})
	if !strings.Contains(got, "groupRelation") || !strings.Contains(got, "and, or") {
		t.Errorf("SuggestValues() = %q", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"same", "same", 0},
		{"kitten", "sitting", 3},
		{"onmatch", "onmatc", 1},
		{"", "abc", 3},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
