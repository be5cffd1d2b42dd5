package models

import (
	"sort"
	"time"
)

// Verdict is the outcome assigned to a block after verification.
type Verdict string

const (
	// VerdictPass indicates actual output matched the expectation.
	VerdictPass Verdict = "pass"
	// VerdictFail indicates an output mismatch, executor error, or timeout.
	VerdictFail Verdict = "fail"
	// VerdictSkip indicates the block was not executed: either it is
	// illustrative-only or no runner is registered for its language tag.
	VerdictSkip Verdict = "skip"
)

// ExecutionResult records one execution attempt for a runnable block.
// Results are not persisted beyond a single verification run.
type ExecutionResult struct {
	BlockID      int           `json:"block_id" yaml:"block_id"`
	ActualOutput []string      `json:"actual_output,omitempty" yaml:"actual_output,omitempty"`
	Verdict      Verdict       `json:"verdict" yaml:"verdict"`
	Err          string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the block passed verification.
func (r *ExecutionResult) Succeeded() bool {
	return r.Verdict == VerdictPass
}

// ReportEntry groups a block with its expectation and execution result.
// Result is nil for blocks that were never launched (cancelled run).
type ReportEntry struct {
	Block       Block            `json:"block" yaml:"block"`
	Expectation Expectation      `json:"expectation" yaml:"expectation"`
	Result      *ExecutionResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// Report aggregates the outcome of one verification run. Entries follow
// document order (ascending block ID), never execution order, so diffs stay
// navigable even when blocks ran concurrently.
type Report struct {
	TotalBlocks    int           `json:"total_blocks" yaml:"total_blocks"`
	RunnableBlocks int           `json:"runnable_blocks" yaml:"runnable_blocks"`
	Passed         int           `json:"passed" yaml:"passed"`
	Failed         int           `json:"failed" yaml:"failed"`
	Skipped        int           `json:"skipped" yaml:"skipped"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	Entries        []ReportEntry `json:"entries" yaml:"entries"`

	// Partial is set when the run was cancelled before every block was
	// processed; Entries then covers only the processed prefix.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`
}

// Sort orders entries by block ID ascending. The verifier calls this after
// collecting results so concurrent completion order never leaks into the
// report.
func (r *Report) Sort() {
	sort.Slice(r.Entries, func(i, j int) bool {
		return r.Entries[i].Block.ID < r.Entries[j].Block.ID
	})
}

// AllGreen reports whether the run should gate CI as success: every
// runnable block passed and nothing failed. Skips do not count against it.
func (r *Report) AllGreen() bool {
	return r.Failed == 0 && !r.Partial
}
