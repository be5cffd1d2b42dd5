// Package expect derives expected-output annotations from code blocks.
//
// The convention is strict so documents can rely on it: the trailing
// contiguous run of comment-prefixed lines in a block body is the block's
// expected output. Each line is stripped of its comment prefix, then of one
// optional "=>" arrow marker, then trimmed. Both styles therefore work:
//
//	(+ 1 1)
//	;; => 2
//
//	print(1+1)
//	// 2
//
// Comment lines interleaved with code are never treated as expectations;
// only the trailing run counts. A block with no trailing run is
// illustrative-only, which is the normal case in tutorial prose.
package expect

import (
	"strings"

	"github.com/harrison/snippetcheck/internal/models"
)

// defaultPrefixes maps language tags to their line-comment prefix.
// Tags not listed here fall back to "//".
var defaultPrefixes = map[string]string{
	"clojure":       ";;",
	"clojurescript": ";;",
	"cljs":          ";;",
	"edn":           ";;",
	"scheme":        ";;",
	"lisp":          ";;",
	"racket":        ";;",
	"python":        "#",
	"py":            "#",
	"ruby":          "#",
	"sh":            "#",
	"bash":          "#",
	"shell":         "#",
	"yaml":          "#",
	"lua":           "--",
	"sql":           "--",
	"haskell":       "--",
}

const arrowMarker = "=>"

// Extractor splits blocks into executable code and expected output.
// The zero value uses the built-in comment-prefix table; Overrides lets
// configuration add or replace prefixes per language tag.
type Extractor struct {
	// Overrides maps a language tag to its comment prefix, taking
	// precedence over the built-in table.
	Overrides map[string]string
}

// New creates an Extractor with optional per-tag prefix overrides.
func New(overrides map[string]string) *Extractor {
	return &Extractor{Overrides: overrides}
}

// Prefix returns the comment prefix used for the given language tag.
func (x *Extractor) Prefix(languageTag string) string {
	tag := strings.ToLower(languageTag)
	if x != nil && x.Overrides != nil {
		if p, ok := x.Overrides[tag]; ok {
			return p
		}
	}
	if p, ok := defaultPrefixes[tag]; ok {
		return p
	}
	return "//"
}

// Extract inspects the trailing lines of the block body for the
// expected-output convention. Detection is heuristic by design and never
// fails: a block without the convention yields IsRunnable=false with an
// empty expectation.
func (x *Extractor) Extract(block *models.Block) models.Expectation {
	exp := models.Expectation{BlockID: block.ID}

	prefix := x.Prefix(block.LanguageTag)

	// Walk backwards over trailing blank lines, then the comment run.
	end := len(block.Body)
	for end > 0 && strings.TrimSpace(block.Body[end-1]) == "" {
		end--
	}

	start := end
	for start > 0 && isCommentLine(block.Body[start-1], prefix) {
		start--
	}

	// No trailing comment run, or the whole block is comments: nothing
	// to execute against, so the block stays illustrative.
	if start == end || start == 0 {
		return exp
	}

	// The run must immediately follow executable statements; a blank
	// line in between means the comments are commentary, not output.
	if strings.TrimSpace(block.Body[start-1]) == "" {
		return exp
	}

	expected := make([]string, 0, end-start)
	for _, line := range block.Body[start:end] {
		expected = append(expected, stripAnnotation(line, prefix))
	}

	exp.Code = append([]string{}, block.Body[:start]...)
	exp.ExpectedOutput = expected
	exp.IsRunnable = true
	return exp
}

// isCommentLine reports whether the line begins with the comment prefix,
// ignoring leading whitespace.
func isCommentLine(line, prefix string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), prefix)
}

// stripAnnotation removes the comment prefix and one optional arrow marker
// from an expectation line, trimming surrounding whitespace.
func stripAnnotation(line, prefix string) string {
	s := strings.TrimLeft(line, " \t")
	s = strings.TrimPrefix(s, prefix)
	s = strings.TrimLeft(s, " \t")
	if strings.HasPrefix(s, arrowMarker) {
		s = strings.TrimLeft(s[len(arrowMarker):], " \t")
	}
	return strings.TrimRight(s, " \t")
}
