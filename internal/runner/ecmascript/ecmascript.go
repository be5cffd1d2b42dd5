// Package ecmascript provides a built-in runner for JavaScript snippets
// using Goja, a Go implementation of ECMAScript 5.1+.
//
// See https://github.com/dop251/goja.
package ecmascript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// InterruptedMessage is the value passed to the VM interrupt when the
// block's context expires.
const InterruptedMessage = "execution interrupted"

// Runner executes JavaScript snippets with a fresh Goja VM per call.
// console.log and print are wired to an output buffer; everything else is
// the bare ECMAScript environment, which is what tutorial snippets expect.
type Runner struct{}

// New creates a JavaScript snippet runner.
func New() *Runner {
	return &Runner{}
}

// Execute implements runner.Runner.
func (r *Runner) Execute(ctx context.Context, code string) (string, error) {
	vm := goja.New()

	var out bytes.Buffer
	if err := bindConsole(vm, &out); err != nil {
		return "", err
	}

	program, err := goja.Compile("", code, true)
	if err != nil {
		return "", fmt.Errorf("compile: %w", err)
	}

	// Interrupt the VM when the context is done. The watcher goroutine
	// is released via done once RunProgram returns.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(InterruptedMessage)
		case <-done:
		}
	}()

	if _, err := vm.RunProgram(program); err != nil {
		if ctx.Err() != nil {
			return out.String(), ctx.Err()
		}
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return out.String(), errors.New(InterruptedMessage)
		}
		return out.String(), fmt.Errorf("run: %w", err)
	}

	return out.String(), nil
}

// bindConsole installs console.log and print, both writing one line per
// call with space-separated arguments, matching what tutorial output
// annotations show.
func bindConsole(vm *goja.Runtime, out *bytes.Buffer) error {
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		out.WriteString(strings.Join(parts, " "))
		out.WriteByte('\n')
		return goja.Undefined()
	}

	console := vm.NewObject()
	if err := console.Set("log", logFn); err != nil {
		return err
	}
	if err := console.Set("error", logFn); err != nil {
		return err
	}
	if err := vm.Set("console", console); err != nil {
		return err
	}
	return vm.Set("print", logFn)
}
