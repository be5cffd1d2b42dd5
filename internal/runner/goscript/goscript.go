// Package goscript provides a built-in runner for Go snippets, interpreted
// with yaegi instead of the go toolchain. Interpreting avoids compile
// round-trips and gives each block a throwaway evaluation context.
package goscript

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Runner executes Go snippets with a fresh yaegi interpreter per call.
// Snippets may be bare statements (fmt is pre-imported), statement
// sequences with their own imports, or full programs with a main function.
type Runner struct{}

// New creates a Go snippet runner.
func New() *Runner {
	return &Runner{}
}

// Execute implements runner.Runner. Output written through fmt and
// os.Stdout inside the snippet is captured and returned as stdout text.
func (r *Runner) Execute(ctx context.Context, code string) (string, error) {
	var stdout, stderr bytes.Buffer

	// A fresh interpreter per block: definitions never leak between
	// snippets.
	i := interp.New(interp.Options{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", fmt.Errorf("failed to load stdlib symbols: %w", err)
	}

	program, entry := normalize(code)

	if _, err := i.EvalWithContext(ctx, program); err != nil {
		if ctx.Err() != nil {
			return stdout.String(), ctx.Err()
		}
		return stdout.String(), fmt.Errorf("eval: %w", err)
	}

	if entry != "" {
		if _, err := i.EvalWithContext(ctx, entry); err != nil {
			if ctx.Err() != nil {
				return stdout.String(), ctx.Err()
			}
			return stdout.String(), fmt.Errorf("eval: %w", err)
		}
	}

	return stdout.String(), nil
}

// normalize prepares a snippet for evaluation. Full programs keep their
// package clause and get their main invoked explicitly; bare statement
// snippets get fmt pre-imported so the common tutorial one-liner works
// without ceremony.
func normalize(code string) (program, entry string) {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, "package ") {
		if strings.Contains(trimmed, "func main(") {
			return code, "main.main()"
		}
		return code, ""
	}
	if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import(") {
		return code, ""
	}
	return "import \"fmt\"\n_ = fmt.Sprint\n" + code, ""
}
