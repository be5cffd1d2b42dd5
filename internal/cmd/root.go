package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Exit codes returned by the snippetcheck binary.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// NewRootCommand creates and returns the root cobra command for snippetcheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippetcheck",
		Short: "Verify code blocks embedded in tutorial documents",
		Long: `Snippetcheck extracts fenced and delimited code blocks from AsciiDoc
and Markdown documents, pairs each block with the expected output written
in its trailing comments, executes the runnable blocks, and reports which
examples still produce what the prose promises.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewVerifyCommand())
	cmd.AddCommand(NewListCommand())

	return cmd
}

// verificationError is returned by the verify command when blocks failed
// or the run was cut short. It maps to ExitFailed rather than ExitUsage.
type verificationError struct {
	failed  int
	partial bool
}

func (e *verificationError) Error() string {
	if e.failed > 0 {
		return pluralize(e.failed, "block") + " failed verification"
	}
	return "verification was interrupted before completion"
}

// ExitCode maps a command error to the process exit code: 0 when nil,
// 1 for verification failures, 2 for malformed documents and usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var verr *verificationError
	if errors.As(err, &verr) {
		return ExitFailed
	}
	return ExitUsage
}
