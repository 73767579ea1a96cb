package parser

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
)

// WriteDocument serializes a document tree back to indented XML. Attribute
// order is not preserved by the tree, so attributes are written sorted by
// name for deterministic output.
func WriteDocument(w io.Writer, doc *ast.Document) error {
	return writeNode(w, doc.Root, 0)
}

func writeNode(w io.Writer, n *ast.Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("<")
	sb.WriteString(n.Tag)

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		// escapeXML already quotes the double quote, so the raw value goes
		// between plain quotes; %q would double every backslash.
		sb.WriteString(fmt.Sprintf(" %s=\"%s\"", name, escapeXML(n.Attrs[name])))
	}

	if len(n.Children) == 0 && n.Text == "" {
		sb.WriteString("/>\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString(">")

	if len(n.Children) == 0 {
		sb.WriteString(escapeXML(n.Text))
		sb.WriteString(fmt.Sprintf("</%s>\n", n.Tag))
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	for _, child := range n.Children {
		if err := writeNode(w, child, depth+1); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s</%s>\n", indent, n.Tag)
	return err
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
