package validator

import (
	"fmt"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
)

// validateOption checks one top-level option element: its name must be a
// known option, a switch attribute must match the schema's declared switch,
// and the presence of a value must match the option's argument arity.
// The checks past the name lookup are independent, so one broken option
// reports every problem it has, not just the first.
func (v *Validator) validateOption(n *ast.Node, findings *sysmonErrors.FindingList) {
	path := ast.Path(ConfigRootTag, n.Tag)

	opt, ok := v.schema.LookupOption(n.Tag)
	if !ok {
		findings.AddErrorWithSuggestion(
			sysmonErrors.RuleUnknownOption,
			fmt.Sprintf("unknown option %q", n.Tag),
			path,
			n.Location,
			sysmonErrors.SuggestName(n.Tag, v.schema.OptionNames()),
		)
		return
	}

	if sw, present := n.Attr("switch"); present && sw != opt.Switch {
		findings.AddError(
			sysmonErrors.RuleSwitchMismatch,
			fmt.Sprintf("option %q declares switch %q, schema declares %q", n.Tag, sw, opt.Switch),
			path,
			n.Location,
		)
	}

	switch opt.Argument {
	case schema.ArityNone:
		if n.Text != "" {
			findings.AddError(
				sysmonErrors.RuleUnexpectedArgument,
				fmt.Sprintf("option %q takes no value but has %q", n.Tag, n.Text),
				path,
				n.Location,
			)
		}
	case schema.ArityRequired:
		if n.Text == "" {
			findings.AddError(
				sysmonErrors.RuleMissingArgument,
				fmt.Sprintf("option %q requires a value", n.Tag),
				path,
				n.Location,
			)
		}
	case schema.ArityOptional:
		// Zero or one value, both fine.
	}
}
