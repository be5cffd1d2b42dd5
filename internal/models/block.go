package models

import (
	"errors"
	"fmt"
	"strings"
)

// Block represents one fenced code region extracted from a source document.
// Blocks are immutable after parsing: the verifier and report only read them.
type Block struct {
	// ID is the 1-based position of the block in document order.
	ID int `json:"id" yaml:"id"`

	// LanguageTag is the declared language of the block (e.g. "clojure",
	// "go", "js"). Empty when the block carries no language attribute.
	LanguageTag string `json:"language_tag" yaml:"language_tag"`

	// Title is the optional block title (AsciiDoc ".Title" line).
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Body holds the block content as ordered lines, without the
	// delimiter lines themselves.
	Body []string `json:"body" yaml:"body"`

	// StartLine and EndLine are the 1-based line numbers of the opening
	// and closing delimiter lines in the source document.
	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`

	// SourceFile is the path of the document this block came from.
	// Set by ParseFile; empty when parsing from a reader.
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// Validate checks structural invariants established by the parser.
func (b *Block) Validate() error {
	if b.ID <= 0 {
		return fmt.Errorf("block id must be positive, got %d", b.ID)
	}
	if b.StartLine <= 0 || b.EndLine < b.StartLine {
		return fmt.Errorf("block %d: invalid line range %d-%d", b.ID, b.StartLine, b.EndLine)
	}
	return nil
}

// Label returns the human-facing name for the block: its title when
// present, otherwise "block N".
func (b *Block) Label() string {
	if b.Title != "" {
		return b.Title
	}
	return fmt.Sprintf("block %d", b.ID)
}

// BodyText returns the body joined with newlines. For a well-formed parse
// this reproduces the source region between the delimiters byte for byte.
func (b *Block) BodyText() string {
	return strings.Join(b.Body, "\n")
}

// Expectation is the expected-output portion associated with a block.
// It is derived from the trailing comment annotation convention; a block
// with no annotation is illustrative-only and never executed.
type Expectation struct {
	BlockID int `json:"block_id" yaml:"block_id"`

	// Code is the executable prefix of the block body, with the
	// annotation lines removed. Empty when IsRunnable is false.
	Code []string `json:"code,omitempty" yaml:"code,omitempty"`

	// ExpectedOutput holds the annotated output lines, one per comment
	// line, with comment prefixes and arrow markers stripped.
	ExpectedOutput []string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`

	// IsRunnable reports whether the block declared an expectation.
	IsRunnable bool `json:"is_runnable" yaml:"is_runnable"`
}

// Validate checks that a runnable expectation carries output lines.
func (e *Expectation) Validate() error {
	if e.BlockID <= 0 {
		return fmt.Errorf("expectation must reference a block, got id %d", e.BlockID)
	}
	if e.IsRunnable && len(e.ExpectedOutput) == 0 {
		return errors.New("runnable expectation has no expected output")
	}
	return nil
}

// CodeText returns the executable prefix joined with newlines.
func (e *Expectation) CodeText() string {
	return strings.Join(e.Code, "\n")
}
