// Package errors provides structured error types for benchviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the render and stats commands
//   - Machine-readable error codes mapped to process exit codes
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MISSING_*, *_NOT_FOUND: Required input absent
//   - BACKEND_*: Plotting or statistics engine failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedChart, "unsupported plot type: %s", t)
//	if errors.Is(err, errors.ErrCodeUnsupportedChart) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "render %s", path)
//
// # Exit Codes
//
// [ExitCode] maps an error chain to the process exit code class the
// orchestrator expects (configuration, missing file, backend, generic).
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidSpec      Code = "INVALID_SPEC"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidTable     Code = "INVALID_TABLE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeUnsupportedChart Code = "UNSUPPORTED_CHART"

	// Missing input errors
	ErrCodeMissingConfig Code = "MISSING_CONFIG"
	ErrCodeMissingColumn Code = "MISSING_COLUMN"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	ErrCodeRender             Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Process exit codes. The stats command contract fixes 2 and 3; the rest
// follow the same one-class-per-code scheme.
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitMissingConfig      = 2
	ExitMissingFile        = 3
	ExitBackendUnavailable = 4
	ExitInterrupted        = 130
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ExitCode returns the process exit code for err.
// The outermost coded error decides; uncoded errors map to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeMissingConfig:
		return ExitMissingConfig
	case ErrCodeFileNotFound:
		return ExitMissingFile
	case ErrCodeBackendUnavailable:
		return ExitBackendUnavailable
	default:
		return ExitFailure
	}
}
