// Package testutil provides shared fixtures for toolkit tests: temporary
// Bazel workspaces and a scriptable Executor that stands in for the bazel
// and buildifier binaries.
package testutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// InitBazelWorkspace creates a temporary directory that looks like a Bazel
// workspace (MODULE.bazel plus a root BUILD.bazel) and returns its path.
func InitBazelWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MODULE.bazel"), []byte("module(name = \"demo\")\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BUILD.bazel"), []byte("# root package\n"), 0600))
	return dir
}

// WriteFile writes content below a workspace root, creating parent
// directories as needed.
func WriteFile(t *testing.T, root, relPath, content string) string {
	t.Helper()

	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// ScriptExecutor fakes a command.Executor by routing every invocation to a
// shell script chosen by the Route function. Route receives the original
// binary name and arguments and returns the script body to run instead.
type ScriptExecutor struct {
	Route func(name string, args []string) string
}

// Command creates a shell command running the routed script.
func (e *ScriptExecutor) Command(name string, args ...string) *exec.Cmd {
	return exec.Command("sh", "-c", e.Route(name, args))
}

// CommandContext creates a context-aware shell command running the routed
// script.
func (e *ScriptExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", e.Route(name, args))
}

// ArgsContain reports whether the joined argument list contains substr.
// Convenient for routing on query expressions.
func ArgsContain(args []string, substr string) bool {
	return strings.Contains(strings.Join(args, " "), substr)
}
