package ast

import "fmt"

// Location is the source position of a node in the original XML document.
// Line and column come straight from the decoder, so findings can be traced
// back to the exact place in the file.
type Location struct {
	File   string // Path to the document
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns the location as "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location carries usable file and line
// information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}
