// Package report renders verification reports as human-readable text.
//
// Rendering is a read-only projection of the Report: entries appear in
// block-ID order, failures carry an expected/actual diff, and the emitter
// has no side effects beyond writing to the destination writer.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/harrison/snippetcheck/internal/models"
)

// Emitter writes the final report to a destination writer.
type Emitter struct {
	writer   io.Writer
	useColor bool
}

// NewEmitter creates an Emitter. When useColor is true, verdicts are
// colorized with ANSI codes; callers normally pass DetectColor(w).
func NewEmitter(w io.Writer, useColor bool) *Emitter {
	return &Emitter{writer: w, useColor: useColor}
}

// DetectColor reports whether the writer is a terminal that supports
// colors. NO_COLOR is honored through the color library's global flag.
func DetectColor(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Emit renders the report. Output is deterministic for a given report:
// ordered by block ID, with stable formatting.
func (e *Emitter) Emit(r *models.Report) error {
	for _, entry := range r.Entries {
		if err := e.emitEntry(&entry); err != nil {
			return err
		}
	}
	return e.emitSummary(r)
}

func (e *Emitter) emitEntry(entry *models.ReportEntry) error {
	verdict := entryVerdict(entry)

	label := entry.Block.Label()
	if entry.Block.Title != "" {
		label = fmt.Sprintf("%s (block %d)", entry.Block.Title, entry.Block.ID)
	}
	location := formatLocation(&entry.Block)

	if _, err := fmt.Fprintf(e.writer, "%s  %s  %s\n", e.colorVerdict(verdict), label, location); err != nil {
		return err
	}

	if verdict != models.VerdictFail {
		if verdict == models.VerdictSkip && entry.Result != nil && entry.Result.Err != "" {
			if _, err := fmt.Fprintf(e.writer, "      %s\n", entry.Result.Err); err != nil {
				return err
			}
		}
		return nil
	}

	if entry.Result.Err != "" {
		if _, err := fmt.Fprintf(e.writer, "      error: %s\n", entry.Result.Err); err != nil {
			return err
		}
	}

	diff, err := unifiedDiff(entry.Expectation.ExpectedOutput, entry.Result.ActualOutput)
	if err != nil {
		return err
	}
	if diff != "" {
		if _, err := fmt.Fprint(e.writer, indent(diff, "      ")); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitSummary(r *models.Report) error {
	partial := ""
	if r.Partial {
		partial = " (partial: run was cancelled)"
	}

	summary := fmt.Sprintf("%d blocks, %d runnable, %d passed, %d failed, %d skipped%s in %s",
		r.TotalBlocks, r.RunnableBlocks, r.Passed, r.Failed, r.Skipped,
		partial, r.Duration.Round(time.Millisecond))

	if e.useColor {
		if r.AllGreen() {
			summary = color.New(color.FgGreen).Sprint(summary)
		} else {
			summary = color.New(color.FgRed).Sprint(summary)
		}
	}

	_, err := fmt.Fprintf(e.writer, "\n%s\n", summary)
	return err
}

// entryVerdict derives the displayed verdict: blocks without a result are
// illustrative-only and show as skip.
func entryVerdict(entry *models.ReportEntry) models.Verdict {
	if entry.Result == nil {
		return models.VerdictSkip
	}
	return entry.Result.Verdict
}

func (e *Emitter) colorVerdict(v models.Verdict) string {
	text := fmt.Sprintf("%-4s", string(v))
	if !e.useColor {
		return text
	}
	switch v {
	case models.VerdictPass:
		return color.New(color.FgGreen).Sprint(text)
	case models.VerdictFail:
		return color.New(color.FgRed).Sprint(text)
	case models.VerdictSkip:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return text
	}
}

func formatLocation(b *models.Block) string {
	file := "<input>"
	if b.SourceFile != "" {
		file = filepath.Base(b.SourceFile)
	}
	return fmt.Sprintf("%s:%d", file, b.StartLine)
}

// unifiedDiff renders expected vs actual as a unified diff.
func unifiedDiff(expected, actual []string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        asDiffLines(expected),
		B:        asDiffLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
}

func asDiffLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

func indent(text, prefix string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
