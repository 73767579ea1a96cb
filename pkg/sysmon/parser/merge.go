package parser

import (
	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
)

// EventFilteringTag is the configuration element holding rule groups.
// Everything else at the top level is an option.
const EventFilteringTag = "EventFiltering"

// ParseMulti parses several configuration files and merges them into a
// single document with MergeConfigs.
func (p *Parser) ParseMulti(paths []string) (*ast.Document, error) {
	if len(paths) == 0 {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindIO,
			Document: p.document,
			Message:  "no configuration files provided",
		}
	}

	docs := make([]*ast.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := p.Parse(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return MergeConfigs(docs)
}

// MergeConfigs combines configuration fragments into one document. The
// first document supplies the root attributes and the top-level options;
// the EventFiltering rule groups of every document are concatenated in
// order. Fragments after the first may consist of nothing but an
// EventFiltering block.
//
// This backs rule sets maintained as one module file per concern and
// assembled into a deployable configuration.
func MergeConfigs(docs []*ast.Document) (*ast.Document, error) {
	if len(docs) == 0 {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindIO,
			Document: "config",
			Message:  "no documents to merge",
		}
	}
	if len(docs) == 1 {
		return docs[0], nil
	}

	base := docs[0]
	merged := &ast.Node{
		Tag:      base.Root.Tag,
		Attrs:    make(map[string]string, len(base.Root.Attrs)),
		Text:     base.Root.Text,
		Location: base.Root.Location,
	}
	for k, v := range base.Root.Attrs {
		merged.Attrs[k] = v
	}

	filtering := &ast.Node{
		Tag:      EventFilteringTag,
		Attrs:    map[string]string{},
		Location: base.Root.Location,
	}

	for _, child := range base.Root.Children {
		if child.Tag == EventFilteringTag {
			filtering.Location = child.Location
			filtering.Children = append(filtering.Children, child.Children...)
			continue
		}
		merged.Children = append(merged.Children, child)
	}

	for _, doc := range docs[1:] {
		for _, child := range doc.Root.Children {
			if child.Tag == EventFilteringTag {
				filtering.Children = append(filtering.Children, child.Children...)
			}
			// Top-level options of later fragments are ignored: the base
			// document owns the option set.
		}
	}

	merged.Children = append(merged.Children, filtering)

	return &ast.Document{Root: merged, Path: base.Path}, nil
}
