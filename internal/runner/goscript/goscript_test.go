package goscript

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExecuteBareStatement(t *testing.T) {
	r := New()
	out, err := r.Execute(context.Background(), `fmt.Println(1 + 1)`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "2\n" {
		t.Errorf("stdout = %q, want %q", out, "2\n")
	}
}

func TestExecuteWithOwnImports(t *testing.T) {
	r := New()
	code := `import (
	"fmt"
	"strings"
)

fmt.Println(strings.ToUpper("hello"))`
	out, err := r.Execute(context.Background(), code)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "HELLO\n" {
		t.Errorf("stdout = %q, want %q", out, "HELLO\n")
	}
}

func TestExecuteFullProgram(t *testing.T) {
	r := New()
	code := `package main

import "fmt"

func main() {
	fmt.Println("from main")
}`
	out, err := r.Execute(context.Background(), code)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "from main\n" {
		t.Errorf("stdout = %q, want %q", out, "from main\n")
	}
}

func TestExecuteSyntaxError(t *testing.T) {
	r := New()
	_, err := r.Execute(context.Background(), `fmt.Println(`)
	if err == nil {
		t.Fatal("expected eval error for broken snippet")
	}
	if !strings.Contains(err.Error(), "eval") {
		t.Errorf("error = %q, want eval context", err.Error())
	}
}

func TestExecuteIsolationBetweenCalls(t *testing.T) {
	r := New()

	if _, err := r.Execute(context.Background(), `x := 41`); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}

	// x must not survive into the next block's context.
	_, err := r.Execute(context.Background(), `fmt.Println(x)`)
	if err == nil {
		t.Fatal("expected undefined identifier: state leaked between executions")
	}
}

func TestExecuteTimeout(t *testing.T) {
	r := New()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Execute(ctx, `for {}`)
	if err == nil {
		t.Fatal("expected timeout error for infinite loop")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}
