package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
)

// decodeTree runs the XML token stream and builds the generic node tree.
// Locations are taken from the decoder position at the start of each
// element, which points at the '<' of the start tag because surrounding
// whitespace is consumed as its own character-data token.
func (p *Parser) decodeTree(data []byte, path string) (*ast.Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root *ast.Node
	var stack []*ast.Node
	nodeCount := 0

	for {
		line, column := decoder.InputPos()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			loc := ast.Location{File: path, Line: line, Column: column}
			if syntaxErr, ok := err.(*xml.SyntaxError); ok {
				loc.Line = syntaxErr.Line
				loc.Column = 1
			}
			return nil, &sysmonErrors.ParseError{
				Kind:     sysmonErrors.KindSyntax,
				Document: p.document,
				Message:  fmt.Sprintf("malformed XML: %v", err),
				Location: loc,
			}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= p.maxDepth {
				return nil, &sysmonErrors.ParseError{
					Kind:     sysmonErrors.KindLimit,
					Document: p.document,
					Message:  fmt.Sprintf("element nesting exceeds maximum depth %d", p.maxDepth),
					Location: ast.Location{File: path, Line: line, Column: column},
				}
			}

			nodeCount++
			if nodeCount > p.maxNodes {
				return nil, &sysmonErrors.ParseError{
					Kind:     sysmonErrors.KindLimit,
					Document: p.document,
					Message:  fmt.Sprintf("document exceeds maximum element count %d", p.maxNodes),
					Location: ast.Location{File: path, Line: line, Column: column},
				}
			}

			node := &ast.Node{
				Tag:      t.Name.Local,
				Attrs:    make(map[string]string, len(t.Attr)),
				Location: ast.Location{File: path, Line: line, Column: column},
			}
			for _, attr := range t.Attr {
				node.Attrs[attr.Name.Local] = attr.Value
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, &sysmonErrors.ParseError{
						Kind:     sysmonErrors.KindStructure,
						Document: p.document,
						Message:  fmt.Sprintf("unexpected second root element <%s>", t.Name.Local),
						Location: node.Location,
					}
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			// The decoder guarantees balanced elements; an unbalanced end
			// tag surfaces as a syntax error from Token above.
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			current := stack[len(stack)-1]
			if current.Text == "" {
				current.Text = text
			} else {
				current.Text += text
			}
		}
	}

	if root == nil {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindStructure,
			Document: p.document,
			Message:  "document has no root element",
			Location: ast.Location{File: path, Line: 1, Column: 1},
		}
	}

	return root, nil
}
