// Package testutil provides shared helpers for deployment tests: temp-dir
// toolchain trees and a scriptable tool runner.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateFile writes content to dir/name, creating parent directories
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// CreateSymlink creates a symlink at dir/name pointing to target
func CreateSymlink(t *testing.T, dir, name, target string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.Symlink(target, path))
	return path
}

// ReadFile reads a file, failing the test on error
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Call records one tool invocation seen by a FakeRunner
type Call struct {
	Name string
	Args []string
}

// String renders the call the way scripts are keyed
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner implements types.Runner from a canned script. Outputs are keyed
// by tool name; a key of "name arg0 arg1 ..." takes precedence when present.
type FakeRunner struct {
	mu      sync.Mutex
	Outputs map[string]string
	Errors  map[string]error
	Calls   []Call
}

// NewFakeRunner creates an empty scriptable runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// Run implements types.Runner
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: args}
	f.Calls = append(f.Calls, call)

	for _, key := range []string{call.String(), name} {
		if err, ok := f.Errors[key]; ok {
			return "", err
		}
		if out, ok := f.Outputs[key]; ok {
			return out, nil
		}
	}
	return "", nil
}

// CalledWith reports whether any recorded call starts with the given tokens
func (f *FakeRunner) CalledWith(tokens ...string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := strings.Join(tokens, " ")
	for _, call := range f.Calls {
		if strings.HasPrefix(call.String(), prefix) {
			return true
		}
	}
	return false
}
