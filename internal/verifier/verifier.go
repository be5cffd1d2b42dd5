// Package verifier orchestrates block extraction, expectation matching, and
// runner execution into a verification run, aggregating per-block verdicts
// into a report.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/snippetcheck/internal/expect"
	"github.com/harrison/snippetcheck/internal/models"
	"github.com/harrison/snippetcheck/internal/runner"
)

// Logger receives progress events during a verification run.
// Implementations must be safe for concurrent use; blocks may execute in
// parallel.
type Logger interface {
	// LogRunStart is called once before the first block is processed.
	LogRunStart(source string, totalBlocks int)
	// LogBlockResult is called once per executed or skipped block.
	LogBlockResult(entry models.ReportEntry) error
	// LogSummary is called once with the final report.
	LogSummary(report *models.Report)
}

// Options control a verification run.
type Options struct {
	// Timeout bounds each block's execution. Zero means no limit.
	Timeout time.Duration

	// MaxConcurrency caps how many blocks execute in parallel.
	// Values below 1 mean sequential execution, the correctness
	// baseline; parallelism is safe because every block gets a fresh
	// evaluation context and the report is re-sorted by block ID.
	MaxConcurrency int

	// Only restricts execution to blocks with these language tags.
	// Empty means all tags. Blocks excluded by the filter are skipped.
	Only []string
}

// Engine pairs blocks with expectations and drives registered runners.
type Engine struct {
	registry  *runner.Registry
	extractor *expect.Extractor
	logger    Logger
	opts      Options
}

// New creates an Engine. A nil logger disables progress logging.
func New(registry *runner.Registry, extractor *expect.Extractor, logger Logger, opts Options) *Engine {
	if extractor == nil {
		extractor = expect.New(nil)
	}
	if logger == nil {
		logger = noOpLogger{}
	}
	return &Engine{
		registry:  registry,
		extractor: extractor,
		logger:    logger,
		opts:      opts,
	}
}

// Verify processes every block exactly once and returns the aggregated
// report. Individual block failures never abort the run; only context
// cancellation cuts it short, and even then the partial report covers all
// blocks processed up to that point.
func (e *Engine) Verify(ctx context.Context, source string, blocks []models.Block) *models.Report {
	start := time.Now()
	report := &models.Report{TotalBlocks: len(blocks)}

	e.logger.LogRunStart(source, len(blocks))

	only := makeTagSet(e.opts.Only)

	var mu sync.Mutex
	var g errgroup.Group
	limit := e.opts.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	record := func(entry models.ReportEntry) {
		mu.Lock()
		report.Entries = append(report.Entries, entry)
		if entry.Result != nil {
			switch entry.Result.Verdict {
			case models.VerdictPass:
				report.Passed++
			case models.VerdictFail:
				report.Failed++
			case models.VerdictSkip:
				report.Skipped++
			}
		}
		mu.Unlock()
		_ = e.logger.LogBlockResult(entry)
	}

	for i := range blocks {
		// Cancellation stops launching new executions; in-flight
		// blocks are interrupted through their derived contexts and
		// still recorded below.
		if ctx.Err() != nil {
			report.Partial = true
			break
		}

		block := blocks[i]
		exp := e.extractor.Extract(&block)

		if !exp.IsRunnable {
			// Illustrative-only: no runner invoked, counts toward
			// neither passed nor failed.
			record(models.ReportEntry{Block: block, Expectation: exp})
			continue
		}
		report.RunnableBlocks++

		if only != nil && !only[strings.ToLower(block.LanguageTag)] {
			record(skipEntry(block, exp, fmt.Sprintf("language tag %q excluded by filter", block.LanguageTag)))
			continue
		}

		run, err := e.registry.Lookup(block.LanguageTag)
		if err != nil {
			// An unregistered tag is a normal condition, not a
			// failure: the document may reference languages this
			// harness cannot execute.
			if errors.Is(err, runner.ErrUnregistered) {
				record(skipEntry(block, exp, fmt.Sprintf("no runner registered for language tag %q", block.LanguageTag)))
				continue
			}
			record(skipEntry(block, exp, err.Error()))
			continue
		}

		g.Go(func() error {
			result := e.runBlock(ctx, &block, &exp, run)
			record(models.ReportEntry{Block: block, Expectation: exp, Result: &result})
			return nil
		})
	}

	_ = g.Wait()

	report.Sort()
	report.Duration = time.Since(start)
	e.logger.LogSummary(report)
	return report
}

// runBlock executes one runnable block in a fresh context with the
// configured timeout and compares actual against expected output.
func (e *Engine) runBlock(ctx context.Context, block *models.Block, exp *models.Expectation, run runner.Runner) models.ExecutionResult {
	bctx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		bctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	stdout, err := safeExecute(bctx, run, exp.CodeText())
	result := models.ExecutionResult{
		BlockID:      block.ID,
		ActualOutput: splitOutput(stdout),
		Duration:     time.Since(started),
	}

	if err != nil {
		result.Verdict = models.VerdictFail
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			result.Err = "timeout"
		case errors.Is(err, context.Canceled):
			result.Err = "canceled"
		default:
			result.Err = err.Error()
		}
		return result
	}

	if outputMatches(result.ActualOutput, exp.ExpectedOutput) {
		result.Verdict = models.VerdictPass
	} else {
		result.Verdict = models.VerdictFail
	}
	return result
}

// safeExecute invokes the runner, converting a panicking executor into an
// error so one crashing block cannot take down the run.
func safeExecute(ctx context.Context, run runner.Runner, code string) (stdout string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()
	return run.Execute(ctx, code)
}

// outputMatches compares output line for line, trimming trailing
// whitespace per line. Trailing blank lines are ignored on both sides:
// splitOutput already drops them from actual, so a trailing bare comment
// line in an annotation must not demand one.
func outputMatches(actual, expected []string) bool {
	actual = trimTrailingBlank(actual)
	expected = trimTrailingBlank(expected)
	if len(actual) != len(expected) {
		return false
	}
	for i := range actual {
		if strings.TrimRight(actual[i], " \t") != strings.TrimRight(expected[i], " \t") {
			return false
		}
	}
	return true
}

// trimTrailingBlank drops trailing empty or whitespace-only lines.
func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitOutput converts stdout text into lines, dropping the final newline
// and any trailing blank lines so "2\n" compares equal to the single
// expected line "2".
func splitOutput(stdout string) []string {
	if stdout == "" {
		return nil
	}
	lines := strings.Split(stdout, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func skipEntry(block models.Block, exp models.Expectation, reason string) models.ReportEntry {
	return models.ReportEntry{
		Block:       block,
		Expectation: exp,
		Result: &models.ExecutionResult{
			BlockID: block.ID,
			Verdict: models.VerdictSkip,
			Err:     reason,
		},
	}
}

func makeTagSet(tags []string) map[string]bool {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		set[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	return set
}

// noOpLogger discards all progress events.
type noOpLogger struct{}

func (noOpLogger) LogRunStart(string, int)                 {}
func (noOpLogger) LogBlockResult(models.ReportEntry) error { return nil }
func (noOpLogger) LogSummary(*models.Report)               {}
