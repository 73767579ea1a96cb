package parser

import (
	"fmt"
	"os"

	"sysmon-tools/sysmonlint/pkg/sysmon/ast"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
)

// Parser parses Sysmon XML documents into generic trees.
type Parser struct {
	maxFileSize int64  // maximum file size in bytes (default: 10MB)
	maxDepth    int    // maximum element nesting depth (default: 32)
	maxNodes    int    // maximum element count (default: 200000)
	document    string // which document this parser reads: "config" or "schema"
}

// NewParser creates a parser for configuration documents with default
// limits.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024, // 10MB
		maxDepth:    32,
		maxNodes:    200000,
		document:    "config",
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum element nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// WithMaxNodes sets the maximum element count.
func (p *Parser) WithMaxNodes(n int) *Parser {
	p.maxNodes = n
	return p
}

// WithDocumentName sets which document kind parse errors are attributed to.
// The schema package uses this to label its failures "schema".
func (p *Parser) WithDocumentName(name string) *Parser {
	p.document = name
	return p
}

// Parse parses the document at the given path. It fails with a ParseError
// when the file cannot be read, exceeds the size limit, or is not
// well-formed XML.
func (p *Parser) Parse(path string) (*ast.Document, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindIO,
			Document: p.document,
			Message:  fmt.Sprintf("failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindLimit,
			Document: p.document,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindIO,
			Document: p.document,
			Message:  fmt.Sprintf("failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses a document from a byte slice. sourcePath is used only
// for locations in errors and findings.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Document, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &sysmonErrors.ParseError{
			Kind:     sysmonErrors.KindLimit,
			Document: p.document,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	root, err := p.decodeTree(data, sourcePath)
	if err != nil {
		return nil, err
	}

	return &ast.Document{Root: root, Path: sourcePath}, nil
}
