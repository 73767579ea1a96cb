package schema

import (
	"fmt"
	"strings"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/parser"
)

const manifestRootTag = "manifest"

// Parse reads and parses a schema manifest file into a Schema.
func Parse(path string) (*Schema, error) {
	doc, err := newManifestParser().Parse(path)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// ParseBytes parses a schema manifest from a byte slice.
func ParseBytes(data []byte, sourcePath string) (*Schema, error) {
	doc, err := newManifestParser().ParseBytes(data, sourcePath)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

func newManifestParser() *parser.Parser {
	return parser.NewParser().WithDocumentName("schema")
}

// Build constructs a Schema from an already-parsed manifest document.
// It fails with a structure-kind ParseError when the manifest lacks the
// expected root element or version attribute, or declares an ambiguous
// grammar (duplicate option or event names).
func Build(doc *ast.Document) (*Schema, error) {
	root := doc.Root
	if root.Tag != manifestRootTag {
		return nil, structureError(root.Location,
			fmt.Sprintf("expected root element <%s>, found <%s>", manifestRootTag, root.Tag))
	}

	versionStr, ok := root.Attr("schemaversion")
	if !ok {
		return nil, structureError(root.Location, "manifest root has no schemaversion attribute")
	}
	version, err := ParseVersion(versionStr)
	if err != nil {
		return nil, structureError(root.Location, fmt.Sprintf("bad schemaversion: %v", err))
	}

	s := &Schema{
		version:       version,
		binaryVersion: root.Attrs["binaryversion"],
		options:       make(map[string]Option),
		events:        make(map[string]*Event),
		filterOps:     make(map[string]struct{}),
	}

	if err := collect(root, s); err != nil {
		return nil, err
	}

	return s, nil
}

// collect walks the manifest tree gathering option, event, and filter
// definitions wherever they appear, the way the manifest is actually laid
// out rather than assuming a fixed nesting.
func collect(n *ast.Node, s *Schema) error {
	switch n.Tag {
	case "option":
		return addOption(n, s)
	case "event":
		return addEvent(n, s)
	case "filters":
		addFilters(n, s)
		return nil
	}

	for _, child := range n.Children {
		if err := collect(child, s); err != nil {
			return err
		}
	}
	return nil
}

func addOption(n *ast.Node, s *Schema) error {
	// noconfig options are command-line only and not part of the
	// configuration grammar.
	if v, ok := n.Attr("noconfig"); ok && v != "false" {
		return nil
	}

	name, ok := n.Attr("name")
	if !ok || name == "" {
		return structureError(n.Location, "option definition has no name attribute")
	}
	if _, exists := s.options[name]; exists {
		return structureError(n.Location, fmt.Sprintf("duplicate option definition %q", name))
	}

	arity := ArityNone
	if v, ok := n.Attr("argument"); ok && v != "" {
		switch Arity(v) {
		case ArityNone, ArityOptional, ArityRequired:
			arity = Arity(v)
		default:
			return structureError(n.Location,
				fmt.Sprintf("option %q has unknown argument arity %q", name, v))
		}
	}

	s.options[name] = Option{
		Name:        name,
		Switch:      n.Attrs["switch"],
		Argument:    arity,
		IsRule:      n.Attrs["rule"] == "true",
		ForceConfig: n.Attrs["forceconfig"] == "true",
	}
	s.optionNames = append(s.optionNames, name)
	return nil
}

func addEvent(n *ast.Node, s *Schema) error {
	// Events without a rulename (e.g. the error report event) cannot be
	// referenced from a configuration and are skipped.
	ruleName, ok := n.Attr("rulename")
	if !ok || ruleName == "" {
		return nil
	}
	if _, exists := s.events[ruleName]; exists {
		return structureError(n.Location, fmt.Sprintf("duplicate event definition %q", ruleName))
	}

	event := &Event{
		Name:       ruleName,
		fieldIndex: make(map[string]int),
	}

	var walk func(*ast.Node) error
	walk = func(node *ast.Node) error {
		for _, child := range node.Children {
			if child.Tag != "data" {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}

			fieldName, ok := child.Attr("name")
			if !ok || fieldName == "" {
				return structureError(child.Location,
					fmt.Sprintf("event %q has a data field with no name attribute", ruleName))
			}
			inType, ok := child.Attr("inType")
			if !ok || inType == "" {
				return structureError(child.Location,
					fmt.Sprintf("event %q field %q has no inType attribute", ruleName, fieldName))
			}

			field := Field{
				Name:    fieldName,
				InType:  inType,
				OutType: child.Attrs["outType"],
			}

			// A repeated field name redefines the earlier entry.
			if i, exists := event.fieldIndex[fieldName]; exists {
				event.Fields[i] = field
			} else {
				event.fieldIndex[fieldName] = len(event.Fields)
				event.Fields = append(event.Fields, field)
			}
		}
		return nil
	}
	if err := walk(n); err != nil {
		return err
	}

	s.events[ruleName] = event
	s.eventNames = append(s.eventNames, ruleName)
	return nil
}

func addFilters(n *ast.Node, s *Schema) {
	for _, token := range strings.Split(n.Text, ",") {
		op := strings.TrimSpace(token)
		if op == "" {
			continue
		}
		if _, exists := s.filterOps[op]; exists {
			continue
		}
		s.filterOps[op] = struct{}{}
		s.filterNames = append(s.filterNames, op)
	}
}

func structureError(loc ast.Location, message string) *sysmonErrors.ParseError {
	return &sysmonErrors.ParseError{
		Kind:     sysmonErrors.KindStructure,
		Document: "schema",
		Message:  message,
		Location: loc,
	}
}
