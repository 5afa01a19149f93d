// Package errors provides structured error types for wsgraph.
//
// Every failure surfaced by the pipeline carries a [Code] so the command layer
// can tell operators which class of problem occurred:
//   - CONFIGURATION_ERROR: missing examples root, unresolvable tool, bad config
//   - BUILD_ERROR: the extractor or renderer failed or produced nothing
//   - PUBLISH_ERROR: the graph was computed but could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "examples root %s does not exist", dir)
//	if errors.Is(err, errors.ErrCodeBuild) {
//	    // extractor or renderer failure
//	}
//
//	err := errors.Wrap(errors.ErrCodePublish, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline errors
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"
	ErrCodeBuild         Code = "BUILD_ERROR"
	ErrCodePublish       Code = "PUBLISH_ERROR"
	ErrCodeCanceled      Code = "CANCELED"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeInvalidName  Code = "INVALID_NAME"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	// Output holds diagnostic text from a failed subprocess, such as its
	// stderr or the graph description it was fed.
	Output string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithOutput attaches subprocess diagnostics and returns e.
func (e *Error) WithOutput(output string) *Error {
	e.Output = output
	return e
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
