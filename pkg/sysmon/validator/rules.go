package validator

import (
	"fmt"
	"strings"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/parser"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
)

const ruleGroupTag = "RuleGroup"
const ruleTag = "Rule"

// validateEventFiltering walks the EventFiltering block. Children are
// normally RuleGroup containers, but event filters directly under
// EventFiltering (the pre-RuleGroup configuration shape) are accepted too.
func (v *Validator) validateEventFiltering(n *ast.Node, findings *sysmonErrors.FindingList) {
	basePath := ast.Path(ConfigRootTag, parser.EventFilteringTag)

	for _, child := range n.Children {
		if child.Tag == ruleGroupTag {
			v.validateRuleGroup(child, basePath, findings)
			continue
		}
		v.validateEventFilter(child, basePath, findings)
	}
}

// validateRuleGroup checks the group's groupRelation attribute and then
// each contained event filter. An absent groupRelation is valid; the
// engine's default applies.
func (v *Validator) validateRuleGroup(n *ast.Node, basePath string, findings *sysmonErrors.FindingList) {
	path := ast.Path(basePath, ruleGroupTag)

	v.checkGroupRelation(n, path, findings)

	for _, child := range n.Children {
		v.validateEventFilter(child, path, findings)
	}
}

// validateEventFilter checks one event filter element: its tag must name a
// known event, and its onmatch disposition must be allowed. An unknown
// event short-circuits the field checks, which cannot proceed without an
// event definition.
func (v *Validator) validateEventFilter(n *ast.Node, basePath string, findings *sysmonErrors.FindingList) {
	path := ast.Path(basePath, n.Tag)

	event, ok := v.schema.LookupEvent(n.Tag)
	if !ok {
		findings.AddErrorWithSuggestion(
			sysmonErrors.RuleUnknownEvent,
			fmt.Sprintf("unknown event %q", n.Tag),
			path,
			n.Location,
			sysmonErrors.SuggestName(n.Tag, v.schema.EventNames()),
		)
		return
	}

	if onmatch, present := n.Attr("onmatch"); present && !v.schema.IsOnMatchValue(onmatch) {
		findings.AddErrorWithSuggestion(
			sysmonErrors.RuleOnMatch,
			fmt.Sprintf("event %q has unknown onmatch value %q", n.Tag, onmatch),
			path,
			n.Location,
			sysmonErrors.SuggestValues("onmatch", v.schema.OnMatchValues()),
		)
	}

	for _, child := range n.Children {
		if child.Tag == ruleTag {
			rulePath := ast.Path(path, ruleTag)
			v.checkGroupRelation(child, rulePath, findings)
			for _, field := range child.Children {
				v.validateDataField(field, event, rulePath, findings)
			}
			continue
		}
		v.validateDataField(child, event, path, findings)
	}
}

// checkGroupRelation validates a groupRelation attribute when present.
func (v *Validator) checkGroupRelation(n *ast.Node, path string, findings *sysmonErrors.FindingList) {
	relation, present := n.Attr("groupRelation")
	if !present {
		return
	}
	if v.schema.IsGroupRelation(relation) {
		return
	}
	findings.AddErrorWithSuggestion(
		sysmonErrors.RuleGroupRelation,
		fmt.Sprintf("unknown groupRelation value %q", relation),
		path,
		n.Location,
		sysmonErrors.SuggestValues("groupRelation", v.schema.GroupRelations()),
	)
}

// validateDataField checks one data field element against its event's
// definition, then its condition attribute against the allowed filter
// operators. The two checks are independent: an unknown field still gets
// its condition checked against the schema-wide operator set.
func (v *Validator) validateDataField(n *ast.Node, event *schema.Event, basePath string, findings *sysmonErrors.FindingList) {
	path := ast.Path(basePath, n.Tag)

	field, known := event.LookupField(n.Tag)
	if !known {
		findings.AddErrorWithSuggestion(
			sysmonErrors.RuleUnknownField,
			fmt.Sprintf("event %q has no field %q", event.Name, n.Tag),
			path,
			n.Location,
			sysmonErrors.SuggestName(n.Tag, event.FieldNames()),
		)
	}

	condition, present := n.Attr("condition")
	if !present {
		// A data field without a condition is a plain value match.
		if v.requireCondition {
			findings.AddError(
				sysmonErrors.RuleMissingCondition,
				fmt.Sprintf("field %q has no condition attribute", n.Tag),
				path,
				n.Location,
			)
		}
		return
	}

	if v.conditionAllowed(condition, field, known) {
		return
	}

	findings.AddErrorWithSuggestion(
		sysmonErrors.RuleUnknownCondition,
		fmt.Sprintf("field %q uses unknown condition %q", n.Tag, condition),
		path,
		n.Location,
		fmt.Sprintf("Allowed conditions: %s", strings.Join(v.allowedConditions(field, known), ", ")),
	)
}

// conditionAllowed checks the operator against the field's inType override
// set when one is configured, falling back to the schema-wide set.
func (v *Validator) conditionAllowed(condition string, field schema.Field, known bool) bool {
	if known && v.operatorsByType != nil {
		if set, ok := v.operatorsByType[field.InType]; ok {
			_, allowed := set[condition]
			return allowed
		}
	}
	return v.schema.IsFilterOperator(condition)
}

func (v *Validator) allowedConditions(field schema.Field, known bool) []string {
	if known && v.operatorsByType != nil {
		if set, ok := v.operatorsByType[field.InType]; ok {
			ops := make([]string, 0, len(set))
			for _, op := range v.schema.FilterOperators() {
				if _, allowed := set[op]; allowed {
					ops = append(ops, op)
				}
			}
			return ops
		}
	}
	return v.schema.FilterOperators()
}
