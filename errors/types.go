package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Workspace errors
	ErrCodeWorkspaceNotFound ErrorCode = "WORKSPACE_NOT_FOUND"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Refresh errors
	ErrCodeNoGenerator       ErrorCode = "NO_GENERATOR_FOUND"
	ErrCodeRefreshInProgress ErrorCode = "REFRESH_IN_PROGRESS"
	ErrCodeActionInProgress  ErrorCode = "ACTION_IN_PROGRESS"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// Query errors
	ErrCodeQueryFailed ErrorCode = "QUERY_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// ToolkitError represents a structured error with context
type ToolkitError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ToolkitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ToolkitError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ToolkitError) WithDetail(key string, value interface{}) *ToolkitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *ToolkitError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new ToolkitError
func New(code ErrorCode, message string) *ToolkitError {
	return &ToolkitError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a ToolkitError
func Wrap(err error, code ErrorCode, message string) *ToolkitError {
	return &ToolkitError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific ToolkitError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	toolkitErr, ok := err.(*ToolkitError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return toolkitErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	toolkitErr, ok := err.(*ToolkitError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return toolkitErr.Code
}
