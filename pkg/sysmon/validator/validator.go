package validator

import (
	"fmt"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/parser"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
)

// ConfigRootTag is the expected root element of a configuration document.
const ConfigRootTag = "Sysmon"

// Validator validates configuration trees against one schema. It is
// stateless across runs and safe for concurrent use.
type Validator struct {
	schema *schema.Schema

	// operatorsByType restricts filter operators per field inType. When an
	// inType has no entry the schema-wide operator set applies.
	operatorsByType map[string]map[string]struct{}

	// requireCondition restores the original strict behavior where every
	// data field must carry a condition attribute.
	requireCondition bool
}

// New creates a validator for the given schema.
func New(s *schema.Schema) *Validator {
	return &Validator{schema: s}
}

// WithOperatorsByType restricts the allowed filter operators for specific
// field inTypes. Fields whose inType is not listed fall back to the
// schema-wide operator set.
func (v *Validator) WithOperatorsByType(m map[string][]string) *Validator {
	if len(m) == 0 {
		return v
	}
	v.operatorsByType = make(map[string]map[string]struct{}, len(m))
	for inType, ops := range m {
		set := make(map[string]struct{}, len(ops))
		for _, op := range ops {
			set[op] = struct{}{}
		}
		v.operatorsByType[inType] = set
	}
	return v
}

// WithRequireCondition makes a data field without a condition attribute a
// finding instead of a plain value match.
func (v *Validator) WithRequireCondition(require bool) *Validator {
	v.requireCondition = require
	return v
}

// Validate walks the configuration tree and returns the accumulated
// findings in document order. An empty report means the configuration is
// valid under the schema. It fails with a ParseError only when the
// document is not a Sysmon configuration at all (wrong root element);
// every in-grammar problem is a finding, never an abort.
func (v *Validator) Validate(doc *ast.Document) (*sysmonErrors.FindingList, error) {
	root := doc.Root
	if root.Tag != ConfigRootTag {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindStructure,
			Document: "config",
			Message:  fmt.Sprintf("expected root element <%s>, found <%s>", ConfigRootTag, root.Tag),
			Location: root.Location,
		}
	}

	findings := sysmonErrors.NewFindingList()

	v.checkVersion(root, findings)

	for _, child := range root.Children {
		if child.Tag == parser.EventFilteringTag {
			v.validateEventFiltering(child, findings)
			continue
		}
		v.validateOption(child, findings)
	}

	return findings, nil
}
