package parser

import (
	"regexp"
	"strings"

	"github.com/harrison/snippetcheck/internal/models"
)

// AsciiDoc listing blocks look like:
//
//	.Optional title
//	[source,clojure]
//	----
//	(println "hello")
//	----
//
// The attribute line and title are optional; a bare ---- fence yields a
// block with an empty language tag. The closing delimiter must repeat the
// opening delimiter exactly.
var (
	listingDelimRegex = regexp.MustCompile(`^-{4,}$`)
	sourceAttrRegex   = regexp.MustCompile(`^\[\s*source\s*(?:,\s*([^,\]\s]+)\s*)?(?:,[^\]]*)?\]$`)
)

// scanAsciiDoc extracts listing blocks by scanning line by line. AsciiDoc
// has no AST library in use here; the delimiter grammar is regular enough
// that a line scan is the reliable approach.
func scanAsciiDoc(source []byte) ([]models.Block, error) {
	lines := splitLines(source)

	var blocks []models.Block
	var pendingTitle string
	var pendingLang string
	var havePendingLang bool

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")

		// Title line: ".Title" with no space after the dot.
		if strings.HasPrefix(line, ".") && len(line) > 1 && line[1] != '.' && line[1] != ' ' {
			pendingTitle = strings.TrimSpace(line[1:])
			continue
		}

		// Source attribute line: "[source,tag]".
		if m := sourceAttrRegex.FindStringSubmatch(line); m != nil {
			pendingLang = m[1]
			havePendingLang = true
			continue
		}

		if listingDelimRegex.MatchString(line) {
			block, next, ok := captureListing(lines, i, line)
			if !ok {
				return nil, &MalformedBlockError{StartLine: i + 1}
			}
			block.ID = len(blocks) + 1
			block.Title = pendingTitle
			if havePendingLang {
				block.LanguageTag = pendingLang
			}
			blocks = append(blocks, block)

			pendingTitle = ""
			pendingLang = ""
			havePendingLang = false
			i = next
			continue
		}

		// Any other non-blank line breaks the adjacency of a pending
		// title or attribute; they only apply to the block that
		// immediately follows.
		if strings.TrimSpace(line) != "" {
			pendingTitle = ""
			pendingLang = ""
			havePendingLang = false
		}
	}

	return blocks, nil
}

// captureListing collects the body of a listing block opened at lines[open]
// with the given delimiter. Returns the block, the index of the closing
// delimiter line, and whether a close was found before end of input.
func captureListing(lines []string, open int, delim string) (models.Block, int, bool) {
	body := []string{}
	for j := open + 1; j < len(lines); j++ {
		if strings.TrimRight(lines[j], " \t") == delim {
			return models.Block{
				Body:      body,
				StartLine: open + 1,
				EndLine:   j + 1,
			}, j, true
		}
		body = append(body, lines[j])
	}
	return models.Block{}, 0, false
}
