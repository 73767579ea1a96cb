package validator

import (
	"fmt"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
)

// checkVersion compares the configuration's declared schema version against
// the loaded schema. A configuration newer than the schema is an error; an
// older configuration is allowed because schemas stay backward-compatible.
func (v *Validator) checkVersion(root *ast.Node, findings *sysmonErrors.FindingList) {
	path := ast.Path(ConfigRootTag)

	versionStr, ok := root.Attr("schemaversion")
	if !ok {
		findings.AddErrorWithSuggestion(
			sysmonErrors.RuleSchemaVersion,
			"configuration root has no schemaversion attribute",
			path,
			root.Location,
			fmt.Sprintf("Declare the targeted schema version, e.g. <Sysmon schemaversion=%q>", v.schema.Version()),
		)
		return
	}

	configVersion, err := schema.ParseVersion(versionStr)
	if err != nil {
		findings.AddError(
			sysmonErrors.RuleSchemaVersion,
			fmt.Sprintf("unreadable schemaversion %q: %v", versionStr, err),
			path,
			root.Location,
		)
		return
	}

	if configVersion.After(v.schema.Version()) {
		findings.AddErrorWithSuggestion(
			sysmonErrors.RuleSchemaVersion,
			fmt.Sprintf("configuration schema version %s is newer than schema version %s",
				configVersion, v.schema.Version()),
			path,
			root.Location,
			"Validate against a schema dumped from the Sysmon binary the configuration targets",
		)
	}
}
