package cli

import (
	"fmt"
	"os"

	"github.com/srikantharun/bazel-ide-toolkit/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeWorkspaceNotFound:
		fmt.Fprintf(os.Stderr, "Error: not in a Bazel workspace\n")
		fmt.Fprintf(os.Stderr, "Run this command from a directory containing WORKSPACE or MODULE.bazel.\n")
		return err

	case errors.ErrCodeNoGenerator:
		fmt.Fprintf(os.Stderr, "Error: no compile_commands generator found\n")
		fmt.Fprintf(os.Stderr, "Add hedron_compile_commands to your MODULE.bazel, or define //:refresh_compile_commands.\n")
		return err

	case errors.ErrCodeRefreshInProgress, errors.ErrCodeActionInProgress:
		// Concurrent-access rejection is informational, not a failure.
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Check your .bazel-ide.yml syntax.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if toolkitErr, ok := err.(*errors.ToolkitError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", toolkitErr.ToJSON())
			}
		}
		return err
	}
}
