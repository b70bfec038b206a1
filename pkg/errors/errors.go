// Package errors provides structured error types for graphpack.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the codec packages and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - MALFORMED_*: Input that cannot be parsed or decoded
//   - COUNT_MISMATCH: Declared and actual edge counts disagree
//   - INVALID_*: Input validation failures (flags, config files, paths)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedRow, "line %d: %q is not a node id", n, tok)
//	if errors.Is(err, errors.ErrCodeMalformedRow) {
//	    // abort the conversion
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedHeader, origErr, "read header frame")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Decoding errors
	ErrCodeMalformedHeader Code = "MALFORMED_HEADER"
	ErrCodeMalformedRow    Code = "MALFORMED_ROW"
	ErrCodeMalformedRecord Code = "MALFORMED_RECORD"
	ErrCodeCountMismatch   Code = "COUNT_MISMATCH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code,
// and also recognizes typed errors that expose a Code method.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// coder is implemented by typed errors that carry a fixed code.
type coder interface {
	Code() Code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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

// CountMismatchError reports a disagreement between the edge count declared
// in a header and the number of edges actually produced or consumed.
type CountMismatchError struct {
	Declared uint64 // Edge count from the header
	Actual   uint64 // Edges actually read or written
}

// Error implements the error interface.
func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d edges, read %d edges", ErrCodeCountMismatch, e.Declared, e.Actual)
}

// Code returns the error code for this error type.
func (e *CountMismatchError) Code() Code {
	return ErrCodeCountMismatch
}

// CheckCount returns a *CountMismatchError when declared and actual differ.
func CheckCount(declared, actual uint64) error {
	if declared != actual {
		return &CountMismatchError{Declared: declared, Actual: actual}
	}
	return nil
}
