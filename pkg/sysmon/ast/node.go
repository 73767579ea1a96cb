package ast

import "strings"

// Node is a single element of a parsed document. The tree mirrors the
// literal document: children appear in the order they were written, and
// attributes are kept as plain strings. Nodes are treated as read-only
// after parsing.
type Node struct {
	// Tag is the element name (e.g. "RuleGroup", "ProcessCreate").
	Tag string

	// Attrs holds the element's attributes by name.
	Attrs map[string]string

	// Text is the element's trimmed character data.
	Text string

	// Children are the sub-elements in document order.
	Children []*Node

	// Location is where the element's start tag appeared.
	Location Location
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// HasAttr reports whether the named attribute was present on the element.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[name]
	return ok
}

// Child returns the first child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Document is a parsed configuration or schema document.
type Document struct {
	// Root is the document's root element.
	Root *Node

	// Path is the file the document was parsed from ("<memory>" for
	// in-memory parses).
	Path string
}

// Path renders an element path such as "Sysmon > EventFiltering > RuleGroup"
// for use in finding locations. Segments are joined in document-tree order.
func Path(segments ...string) string {
	return strings.Join(segments, " > ")
}
