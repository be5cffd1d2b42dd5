package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDetectFormat tests format detection based on file extensions
func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Format
	}{
		{
			name:     "asciidoc .adoc extension",
			filename: "tutorial.adoc",
			want:     FormatAsciiDoc,
		},
		{
			name:     "asciidoc .asciidoc extension",
			filename: "modern-cljs.asciidoc",
			want:     FormatAsciiDoc,
		},
		{
			name:     "markdown .md extension",
			filename: "README.md",
			want:     FormatMarkdown,
		},
		{
			name:     "markdown .markdown extension",
			filename: "guide.markdown",
			want:     FormatMarkdown,
		},
		{
			name:     "unknown .txt extension",
			filename: "notes.txt",
			want:     FormatUnknown,
		},
		{
			name:     "no extension",
			filename: "tutorial",
			want:     FormatUnknown,
		},
		{
			name:     "uppercase .ADOC extension",
			filename: "TUTORIAL.ADOC",
			want:     FormatAsciiDoc,
		},
		{
			name:     "path with directories",
			filename: "/docs/tutorials/intro.md",
			want:     FormatMarkdown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFormat(tt.filename)
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestScanAsciiDocBasic(t *testing.T) {
	source := `= Tutorial

Some prose explaining things.

.Hello world
[source,clojure]
----
(println "hello")
;; => hello
----

More prose.

[source, js]
----
console.log(1 + 1);
----

----
plain listing, no language
----
`

	blocks, err := ParseAll([]byte(source), FormatAsciiDoc)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}

	first := blocks[0]
	if first.ID != 1 {
		t.Errorf("first block ID = %d, want 1", first.ID)
	}
	if first.LanguageTag != "clojure" {
		t.Errorf("first block language = %q, want clojure", first.LanguageTag)
	}
	if first.Title != "Hello world" {
		t.Errorf("first block title = %q, want %q", first.Title, "Hello world")
	}
	if first.StartLine != 7 || first.EndLine != 10 {
		t.Errorf("first block range = %d-%d, want 7-10", first.StartLine, first.EndLine)
	}
	if got := first.BodyText(); got != "(println \"hello\")\n;; => hello" {
		t.Errorf("first block body = %q", got)
	}

	if blocks[1].LanguageTag != "js" {
		t.Errorf("second block language = %q, want js", blocks[1].LanguageTag)
	}
	if blocks[1].Title != "" {
		t.Errorf("second block title = %q, want empty", blocks[1].Title)
	}

	if blocks[2].LanguageTag != "" {
		t.Errorf("third block language = %q, want empty", blocks[2].LanguageTag)
	}
}

func TestScanAsciiDocTitleAdjacency(t *testing.T) {
	// A title separated from the block by other prose must not attach.
	source := `.Orphan title
Some prose in between.

[source,go]
----
fmt.Println("hi")
----
`
	blocks, err := ParseAll([]byte(source), FormatAsciiDoc)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Title != "" {
		t.Errorf("title = %q, want empty (adjacency broken by prose)", blocks[0].Title)
	}
}

func TestScanAsciiDocUnterminated(t *testing.T) {
	source := `prose

[source,clojure]
----
(def x 1)
`
	_, err := ParseAll([]byte(source), FormatAsciiDoc)
	if err == nil {
		t.Fatal("expected MalformedBlockError, got nil")
	}
	if !IsMalformed(err) {
		t.Fatalf("expected MalformedBlockError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error should name the offending start line, got %q", err.Error())
	}
}

func TestScanMarkdownBasic(t *testing.T) {
	source := "# Guide\n\nprose\n\n```demo\nprint(1+1)\n// 2\n```\n\n```\nno language here\n```\n"

	blocks, err := ParseAll([]byte(source), FormatMarkdown)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	if blocks[0].LanguageTag != "demo" {
		t.Errorf("first block language = %q, want demo", blocks[0].LanguageTag)
	}
	if blocks[0].StartLine != 5 || blocks[0].EndLine != 8 {
		t.Errorf("first block range = %d-%d, want 5-8", blocks[0].StartLine, blocks[0].EndLine)
	}
	if got := blocks[0].BodyText(); got != "print(1+1)\n// 2" {
		t.Errorf("first block body = %q", got)
	}
	if blocks[1].LanguageTag != "" {
		t.Errorf("second block language = %q, want empty", blocks[1].LanguageTag)
	}
}

func TestScanMarkdownInfoStringExtras(t *testing.T) {
	// Only the first word of the info string is the language tag.
	source := "```go linenums\nfmt.Println(\"x\")\n```\n"
	blocks, err := ParseAll([]byte(source), FormatMarkdown)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].LanguageTag != "go" {
		t.Errorf("language = %q, want go", blocks[0].LanguageTag)
	}
}

func TestScanMarkdownTildeFences(t *testing.T) {
	// Tilde and backtick fences in the same document must each keep their
	// own language tag and line range.
	source := "~~~python\nprint(1)\n~~~\n\n```go\nfmt.Println(2)\n```\n"

	blocks, err := ParseAll([]byte(source), FormatMarkdown)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	if blocks[0].LanguageTag != "python" {
		t.Errorf("first block language = %q, want python", blocks[0].LanguageTag)
	}
	if blocks[0].StartLine != 1 || blocks[0].EndLine != 3 {
		t.Errorf("first block range = %d-%d, want 1-3", blocks[0].StartLine, blocks[0].EndLine)
	}
	if blocks[1].LanguageTag != "go" {
		t.Errorf("second block language = %q, want go", blocks[1].LanguageTag)
	}
	if blocks[1].StartLine != 5 || blocks[1].EndLine != 7 {
		t.Errorf("second block range = %d-%d, want 5-7", blocks[1].StartLine, blocks[1].EndLine)
	}
}

func TestScanMarkdownFenceCharsDoNotMix(t *testing.T) {
	// A tilde line inside a backtick fence is body, not a closer, and a
	// closing run must be at least as long as the opening run.
	source := "````md\n~~~\n```\n````\n"

	blocks, err := ParseAll([]byte(source), FormatMarkdown)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if got := blocks[0].BodyText(); got != "~~~\n```" {
		t.Errorf("body = %q, want the inner fence lines verbatim", got)
	}
	if blocks[0].LanguageTag != "md" {
		t.Errorf("language = %q, want md", blocks[0].LanguageTag)
	}
}

func TestScanMarkdownTildeUnterminated(t *testing.T) {
	source := "prose\n\n~~~python\nprint(1)\n"
	_, err := ParseAll([]byte(source), FormatMarkdown)
	if err == nil {
		t.Fatal("expected MalformedBlockError, got nil")
	}
	if !IsMalformed(err) {
		t.Fatalf("expected MalformedBlockError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name the offending start line, got %q", err.Error())
	}
}

func TestScanMarkdownUnterminated(t *testing.T) {
	source := "prose\n\n```clojure\n(def x 1)\n"
	_, err := ParseAll([]byte(source), FormatMarkdown)
	if err == nil {
		t.Fatal("expected MalformedBlockError, got nil")
	}
	if !IsMalformed(err) {
		t.Fatalf("expected MalformedBlockError, got %T: %v", err, err)
	}
}

func TestParseAllZeroBlocks(t *testing.T) {
	sources := map[Format]string{
		FormatAsciiDoc: "= Doc\n\nOnly prose, no listings.\n",
		FormatMarkdown: "# Doc\n\nOnly prose, no fences.\n",
	}
	for format, source := range sources {
		blocks, err := ParseAll([]byte(source), format)
		if err != nil {
			t.Fatalf("%v: ParseAll failed: %v", format, err)
		}
		if len(blocks) != 0 {
			t.Errorf("%v: expected 0 blocks, got %d", format, len(blocks))
		}
	}
}

// TestBodyRoundTrip verifies that a captured body, re-inserted between the
// same markers, reproduces the original source region byte for byte.
func TestBodyRoundTrip(t *testing.T) {
	source := "intro\n\n```edn\n{:a 1\n :b \"two\"}\n\n;; trailing comment  \n```\noutro\n"
	blocks, err := ParseAll([]byte(source), FormatMarkdown)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	lines := strings.Split(source, "\n")
	b := blocks[0]
	original := strings.Join(lines[b.StartLine:b.EndLine-1], "\n")
	if got := b.BodyText(); got != original {
		t.Errorf("round-trip mismatch:\n got: %q\nwant: %q", got, original)
	}
}

func TestScannerLazyIteration(t *testing.T) {
	source := "```a\n1\n```\n\n```b\n2\n```\n"
	s, err := NewScanner([]byte(source), FormatMarkdown)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	if s.Block() != nil {
		t.Error("Block before first Scan should be nil")
	}

	var tags []string
	for s.Scan() {
		tags = append(tags, s.Block().LanguageTag)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if strings.Join(tags, ",") != "a,b" {
		t.Errorf("tags = %v, want [a b]", tags)
	}

	// Restartable means a fresh scanner, not a rewind.
	if s.Scan() {
		t.Error("exhausted scanner should not Scan again")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tutorial.adoc")
	content := "[source,clojure]\n----\n(+ 1 2)\n;; => 3\n----\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	blocks, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].SourceFile == "" {
		t.Error("SourceFile should be stamped on parsed blocks")
	}
	if !filepath.IsAbs(blocks[0].SourceFile) {
		t.Errorf("SourceFile should be absolute, got %q", blocks[0].SourceFile)
	}
}

func TestParseFileUnknownFormat(t *testing.T) {
	_, err := ParseFile("notes.txt")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}
