package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CodePlaceholder is substituted with the block's code text in an exec
// runner's argv template.
const CodePlaceholder = "{code}"

// ExecRunner evaluates blocks by spawning an external interpreter process.
// The argv template names the command and its arguments; every occurrence
// of {code} is replaced with the code text. When the template contains no
// placeholder, the code is written to the process's stdin instead.
//
// Example config:
//
//	runners:
//	  python: ["python3", "-c", "{code}"]
//	  node: ["node", "-e", "{code}"]
//	  bb: ["bb", "-"]          # code on stdin
type ExecRunner struct {
	Argv []string
}

// NewExecRunner creates an ExecRunner from an argv template.
// The template must name at least the command itself.
func NewExecRunner(argv []string) (*ExecRunner, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("exec runner requires a non-empty argv template")
	}
	return &ExecRunner{Argv: append([]string{}, argv...)}, nil
}

// Execute implements Runner. Each call spawns a fresh process, so no state
// survives between blocks. The process is killed when ctx is done.
func (e *ExecRunner) Execute(ctx context.Context, code string) (string, error) {
	argv := make([]string, len(e.Argv))
	substituted := false
	for i, arg := range e.Argv {
		if strings.Contains(arg, CodePlaceholder) {
			substituted = true
			argv[i] = strings.ReplaceAll(arg, CodePlaceholder, code)
		} else {
			argv[i] = arg
		}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if !substituted {
		cmd.Stdin = strings.NewReader(code)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.String(), ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.String(), fmt.Errorf("%s: %s", argv[0], msg)
		}
		return stdout.String(), fmt.Errorf("%s: %w", argv[0], err)
	}

	return stdout.String(), nil
}
