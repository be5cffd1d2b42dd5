// Package parser extracts fenced code blocks from structured tutorial
// documents. It supports AsciiDoc listing blocks and Markdown fenced code
// blocks, and reports each block with its language tag, optional title, and
// exact source line range.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/snippetcheck/internal/models"
)

// Format represents the format of a source document.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported file format.
	FormatUnknown Format = iota
	// FormatAsciiDoc represents an AsciiDoc (.adoc, .asciidoc) document.
	FormatAsciiDoc
	// FormatMarkdown represents a Markdown (.md, .markdown) document.
	FormatMarkdown
)

// String returns the string representation of the Format.
func (f Format) String() string {
	switch f {
	case FormatAsciiDoc:
		return "asciidoc"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// DetectFormat automatically detects the document format based on file
// extension. Supported extensions:
//   - .adoc, .asciidoc -> FormatAsciiDoc
//   - .md, .markdown -> FormatMarkdown
//   - all others -> FormatUnknown
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".adoc", ".asciidoc":
		return FormatAsciiDoc
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

// Scanner is a lazy iterator over the code blocks of a single document.
// It follows the bufio.Scanner idiom:
//
//	s, err := parser.NewScanner(source, parser.FormatAsciiDoc)
//	for s.Scan() {
//	    block := s.Block()
//	    ...
//	}
//	if err := s.Err(); err != nil { ... }
//
// A Scanner is restartable only by constructing a new one from the same
// source; Scan never revisits a block.
type Scanner struct {
	blocks []models.Block
	pos    int
	err    error
}

// NewScanner creates a Scanner for the given source and format.
// Structural errors (an unterminated block) surface on the first Scan,
// not here, so callers uniformly check Err after the loop.
func NewScanner(source []byte, format Format) (*Scanner, error) {
	switch format {
	case FormatAsciiDoc, FormatMarkdown:
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}

	s := &Scanner{}
	switch format {
	case FormatAsciiDoc:
		s.blocks, s.err = scanAsciiDoc(source)
	case FormatMarkdown:
		s.blocks, s.err = scanMarkdown(source)
	}
	return s, nil
}

// Scan advances to the next block. It returns false when the document is
// exhausted or a structural error occurred; distinguish via Err.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.blocks) {
		return false
	}
	s.pos++
	return true
}

// Block returns the block reached by the last successful Scan.
func (s *Scanner) Block() *models.Block {
	if s.pos == 0 || s.pos > len(s.blocks) {
		return nil
	}
	return &s.blocks[s.pos-1]
}

// Err returns the structural error that stopped scanning, if any.
func (s *Scanner) Err() error {
	return s.err
}

// ParseAll extracts every block from the source in document order.
func ParseAll(source []byte, format Format) ([]models.Block, error) {
	s, err := NewScanner(source, format)
	if err != nil {
		return nil, err
	}
	var blocks []models.Block
	for s.Scan() {
		blocks = append(blocks, *s.Block())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ParseFile is a convenience function that:
//  1. Auto-detects the document format from the file extension
//  2. Reads and parses the file
//  3. Stamps each block with the source file path
//
// This is the recommended way to extract blocks from disk.
func ParseFile(path string) ([]models.Block, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown file format: %s (supported: .adoc, .asciidoc, .md, .markdown)", path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	blocks, err := ParseAll(source, format)
	if err != nil {
		// Attach the path to structural errors for the final report.
		var mbe *MalformedBlockError
		if asMalformed(err, &mbe) && mbe.Path == "" {
			mbe.Path = path
		}
		return nil, err
	}

	absPath, aerr := filepath.Abs(path)
	if aerr != nil {
		absPath = path
	}
	for i := range blocks {
		blocks[i].SourceFile = absPath
	}
	return blocks, nil
}

// splitLines splits source into lines without dropping a trailing empty
// line the way strings.Split does; the final newline, if present, simply
// terminates the last line.
func splitLines(source []byte) []string {
	text := string(source)
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
