package sysmon

import (
	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/parser"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
	"sysmon-tools/sysmonlint/pkg/sysmon/validator"
)

// ValidateFile parses the schema manifest and configuration at the given
// paths and validates the configuration. The returned error is a
// *errors.ParseError when either document could not be parsed; otherwise
// the report holds every finding, and an empty report means the
// configuration is valid.
func ValidateFile(schemaPath, configPath string) (*sysmonErrors.FindingList, error) {
	s, err := schema.Parse(schemaPath)
	if err != nil {
		return nil, err
	}

	doc, err := parser.NewParser().Parse(configPath)
	if err != nil {
		return nil, err
	}

	return validator.New(s).Validate(doc)
}

// ValidateBytes validates an in-memory configuration against an in-memory
// schema manifest. Source paths are used only for locations in findings.
func ValidateBytes(schemaData, configData []byte, schemaPath, configPath string) (*sysmonErrors.FindingList, error) {
	s, err := schema.ParseBytes(schemaData, schemaPath)
	if err != nil {
		return nil, err
	}

	doc, err := parser.NewParser().ParseBytes(configData, configPath)
	if err != nil {
		return nil, err
	}

	return validator.New(s).Validate(doc)
}

// ParseConfig parses a configuration file without validating it.
func ParseConfig(path string) (*ast.Document, error) {
	return parser.NewParser().Parse(path)
}

// LoadSchema parses a schema manifest file.
func LoadSchema(path string) (*schema.Schema, error) {
	return schema.Parse(path)
}
