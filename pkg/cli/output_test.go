package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "config.xml: valid"

	output, err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "config.xml: valid\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func TestTextFormatterWriter(t *testing.T) {
	formatter := &TextFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.FormatTo(buf, "config.xml: valid"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	expected := "config.xml: valid\n"
	if buf.String() != expected {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), expected)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
	}{
		{
			name:   "simple string",
			data:   "valid",
			indent: false,
		},
		{
			name: "map with indent",
			data: map[string]string{
				"file": "config.xml",
			},
			indent: true,
		},
		{
			name: "struct",
			data: struct {
				Valid bool `json:"valid"`
				Count int  `json:"count"`
			}{Valid: false, Count: 3},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}

			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if !json.Valid(output) {
				t.Errorf("Format() produced invalid JSON: %s", output)
			}

			buf := &bytes.Buffer{}
			if err := formatter.FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if !json.Valid(buf.Bytes()) {
				t.Errorf("FormatTo() produced invalid JSON: %s", buf.String())
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(FormatJSON) should return *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(FormatText) should return *TextFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TextFormatter); !ok {
		t.Error("NewFormatter with unknown format should fall back to text")
	}
}
