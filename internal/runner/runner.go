// Package runner defines the executor capability for runnable blocks and
// the registry mapping language tags to executors.
//
// The registry has no built-in knowledge of any toolchain: executors are
// registered explicitly by the caller. A lookup miss is a skip verdict for
// the block, never an error, because tutorial documents routinely contain
// snippets in languages the harness cannot execute.
package runner

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrUnregistered is returned by Registry.Lookup when no executor is
// registered for a language tag. Callers treat it as a skip, not a failure.
var ErrUnregistered = errors.New("no runner registered for language tag")

// Runner evaluates the code of one block and returns its stdout text.
//
// Implementations must give every Execute call a fresh evaluation context:
// blocks are independent pedagogical fragments, and state visibly carried
// from one call into the next is a correctness bug in the runner. Blocking
// work must honor ctx cancellation; the verifier supplies a per-block
// timeout through it.
type Runner interface {
	Execute(ctx context.Context, code string) (stdout string, err error)
}

// Func adapts a plain function to the Runner interface.
type Func func(ctx context.Context, code string) (string, error)

// Execute implements Runner.
func (f Func) Execute(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

// Registry maps language tags to executors. Registration is explicit;
// lookups are case-insensitive on the tag. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register binds a runner to a language tag, replacing any previous
// binding for the same tag.
func (r *Registry) Register(languageTag string, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[normalizeTag(languageTag)] = runner
}

// Lookup returns the runner for a language tag, or ErrUnregistered.
func (r *Registry) Lookup(languageTag string) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runner, ok := r.runners[normalizeTag(languageTag)]
	if !ok {
		return nil, ErrUnregistered
	}
	return runner, nil
}

// Tags returns the registered language tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.runners))
	for tag := range r.runners {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
