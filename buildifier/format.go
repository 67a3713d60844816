// Package buildifier formats Starlark files by piping their contents
// through the buildifier binary. Formatting is best-effort: a missing or
// failing buildifier is a no-op, never an error shown to the user.
package buildifier

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/logging"
)

// Formatter pipes source through buildifier's stdin/stdout mode.
type Formatter struct {
	runner *command.Runner
	path   string
	logger *logrus.Entry
}

// NewFormatter creates a Formatter using the given buildifier binary
// (empty means "buildifier" on PATH).
func NewFormatter(runner *command.Runner, path string) *Formatter {
	if path == "" {
		path = "buildifier"
	}
	return &Formatter{
		runner: runner,
		path:   path,
		logger: logging.NewLogger("buildifier"),
	}
}

// Format runs buildifier over source. The filename hint lets buildifier
// pick the right dialect (BUILD vs .bzl). Returns the formatted text and
// whether it differs from the input. Tool failure or absence returns the
// input unchanged with changed=false.
func (f *Formatter) Format(ctx context.Context, filename string, source string) (formatted string, changed bool) {
	args := []string{"-mode=fix"}
	if filename != "" {
		args = append(args, "-path", filename)
	}

	outcome := f.runner.RunWithInput(ctx, filepath.Dir(filename), source, f.path, args...)
	if !outcome.Success() {
		// Best-effort: swallow tool failures quietly.
		f.logger.Debugf("buildifier exit %d: %s", outcome.ExitCode, outcome.Stderr)
		return source, false
	}

	if outcome.Stdout == source {
		return source, false
	}
	return outcome.Stdout, true
}

// FormatFile formats a file in place. Returns whether the file content was
// rewritten.
func (f *Formatter) FormatFile(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	formatted, changed := f.Format(ctx, path, string(data))
	if !changed {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// Check reports whether a file is already formatted. Tool failure counts
// as formatted, matching the best-effort policy.
func (f *Formatter) Check(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	_, changed := f.Format(ctx, path, string(data))
	return !changed, nil
}
