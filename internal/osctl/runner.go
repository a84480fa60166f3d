// Package osctl implements the OS action boundary (pointer and audio) on top
// of platform command line tools, with an in-memory fallback.
package osctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrUnsupported is returned by a backend for operations its tools cannot perform.
var ErrUnsupported = errors.New("operation not supported by backend")

// DefaultTimeout bounds each external command.
const DefaultTimeout = 2 * time.Second

// Runner executes external commands.
type Runner interface {
	// Run executes name with args and returns its trimmed stdout.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// Available reports whether name can be found on PATH.
	Available(name string) bool
}

// ExecRunner runs commands with os/exec under a per-command timeout.
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates an ExecRunner. A non-positive timeout selects DefaultTimeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{timeout: timeout}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s timed out after %s", name, r.timeout)
	}

	if err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return "", fmt.Errorf("%s failed: %w, stderr: %s", name, err, s)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Available implements Runner.
func (r *ExecRunner) Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FakeRunner is a test Runner. It records every command line and answers
// from Outputs keyed by the command name.
type FakeRunner struct {
	mu sync.Mutex

	Tools   map[string]bool
	Outputs map[string]string
	Err     error
	Calls   []string
}

// NewFakeRunner creates a FakeRunner reporting the given tools as installed.
func NewFakeRunner(tools ...string) *FakeRunner {
	f := &FakeRunner{
		Tools:   make(map[string]bool),
		Outputs: make(map[string]string),
	}
	for _, t := range tools {
		f.Tools[t] = true
	}
	return f
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, strings.Join(append([]string{name}, args...), " "))
	if f.Err != nil {
		return "", f.Err
	}
	return f.Outputs[name], nil
}

// Available implements Runner.
func (f *FakeRunner) Available(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Tools[name]
}

// Last returns the most recent command line, or "".
func (f *FakeRunner) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return ""
	}
	return f.Calls[len(f.Calls)-1]
}
