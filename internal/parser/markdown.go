package parser

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/snippetcheck/internal/models"
)

// scanMarkdown extracts fenced code blocks from Markdown source.
//
// The line-by-line pass is the single source of truth for which fences
// exist, their bodies, and their delimiter line numbers; it recognizes
// backtick and tilde fences per CommonMark (at most 3 spaces of indent,
// closing run at least as long as the opening run, same fence character).
// It is also what detects an unterminated fence: CommonMark silently
// extends an open fence to end of input, which for a verified tutorial is
// a structural error, not content.
//
// Goldmark's AST supplies the per-fence info strings, keyed by the line
// number of the opening fence so the two passes can never misalign: a
// fence only one pass recognizes simply has no entry for the other to
// consume.
func scanMarkdown(source []byte) ([]models.Block, error) {
	langs := fenceLanguages(source)

	lines := splitLines(source)
	var blocks []models.Block

	for i := 0; i < len(lines); i++ {
		marker, info, ok := openingFence(lines[i])
		if !ok {
			continue
		}

		close := findClosingFence(lines, i+1, marker)
		if close < 0 {
			return nil, &MalformedBlockError{StartLine: i + 1}
		}

		block := models.Block{
			ID:        len(blocks) + 1,
			Body:      append([]string{}, lines[i+1:close]...),
			StartLine: i + 1,
			EndLine:   close + 1,
		}

		// Prefer goldmark's reading of the info string on this fence
		// line; fall back to the first word of the raw info when the
		// AST pass has no entry for it.
		if lang, ok := langs[i+1]; ok {
			block.LanguageTag = lang
		} else if fields := strings.Fields(info); len(fields) > 0 {
			block.LanguageTag = fields[0]
		}

		blocks = append(blocks, block)
		i = close
	}

	return blocks, nil
}

// fenceLanguages walks the goldmark AST and returns the language of each
// fenced code block, keyed by the 1-based line number of its opening fence.
// Fences without an info string have no entry.
func fenceLanguages(source []byte) map[int]string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	starts := lineStarts(source)
	langs := make(map[int]string)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fence, ok := n.(*ast.FencedCodeBlock); ok {
			if fence.Info != nil {
				if l := fence.Language(source); l != nil {
					// The info segment sits on the opening fence line.
					langs[lineOf(starts, fence.Info.Segment.Start)] = string(l)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return langs
}

// lineStarts returns the byte offset of the start of each line.
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}

// openingFence reports whether line opens a backtick or tilde fence,
// returning the fence marker run and the trailing info string.
func openingFence(line string) (marker, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return "", "", false
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return "", "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < 3 {
		return "", "", false
	}
	info = strings.TrimSpace(trimmed[n:])
	// A backtick fence's info string containing a backtick is not a fence
	// opener (it is inline code per CommonMark); tilde fences have no such
	// restriction.
	if ch == '`' && strings.Contains(info, "`") {
		return "", "", false
	}
	return trimmed[:n], info, true
}

// findClosingFence returns the index of the first line at or after start
// that closes a fence opened with marker, or -1 if none exists. A closing
// fence is a run of the same character at least as long as the opening
// run, indented at most 3 spaces, with nothing else on the line.
func findClosingFence(lines []string, start int, marker string) int {
	ch := marker[0]
	for j := start; j < len(lines); j++ {
		trimmed := strings.TrimLeft(lines[j], " ")
		if len(lines[j])-len(trimmed) > 3 {
			continue
		}
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= len(marker) && strings.TrimSpace(trimmed[n:]) == "" {
			return j
		}
	}
	return -1
}
