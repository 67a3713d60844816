package errors

import (
	"fmt"
	"os/exec"
)

// WorkspaceNotFound creates an error for a directory with no Bazel workspace marker
func WorkspaceNotFound(dir string) *ToolkitError {
	return New(ErrCodeWorkspaceNotFound,
		fmt.Sprintf("not inside a Bazel workspace (searched upward from %s)", dir)).
		WithDetail("startDir", dir)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *ToolkitError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *ToolkitError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// NoGeneratorFound creates the error for when neither compile_commands
// extractor target answers a query probe.
func NoGeneratorFound(probed ...string) *ToolkitError {
	return New(ErrCodeNoGenerator,
		"no compile_commands generator found; add hedron_compile_commands to your MODULE.bazel").
		WithDetail("probedTargets", probed)
}

// RefreshInProgress creates the informational rejection for a refresh
// requested while another one is running.
func RefreshInProgress() *ToolkitError {
	return New(ErrCodeRefreshInProgress, "a refresh is already in progress")
}

// ActionInProgress creates the rejection for a build/test/run action
// requested while another action is running.
func ActionInProgress(action string) *ToolkitError {
	return New(ErrCodeActionInProgress,
		fmt.Sprintf("a bazel %s is already in progress", action)).
		WithDetail("action", action)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *ToolkitError {
	toolkitErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		toolkitErr = toolkitErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return toolkitErr
}

// QueryFailed creates a bazel query failure error carrying the query text
func QueryFailed(query string, stderr string) *ToolkitError {
	return New(ErrCodeQueryFailed, fmt.Sprintf("bazel query failed: %s", query)).
		WithDetail("query", query).
		WithDetail("stderr", stderr)
}
