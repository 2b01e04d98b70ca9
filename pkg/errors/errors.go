// Package errors provides structured error types for ledwall.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or catalog validation failures
//   - *_NOT_FOUND: Resource not found
//   - CAPACITY_*: Capacity violations promoted to errors in strict mode
//   - INTERNAL_*: Unexpected internal errors
//
// The layout engine itself never returns errors. Codes are used at the
// boundaries: catalog editing, pipeline option validation, project storage
// and the HTTP API.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidModule, "module %q has no pixels", id)
//	if errors.Is(err, errors.ErrCodeInvalidModule) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save project %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidModule    Code = "INVALID_MODULE"
	ErrCodeInvalidProcessor Code = "INVALID_PROCESSOR"
	ErrCodeInvalidPattern   Code = "INVALID_PATTERN"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidProject   Code = "INVALID_PROJECT"

	// Catalog editing errors
	ErrCodeDuplicate Code = "DUPLICATE"
	ErrCodeLastEntry Code = "LAST_ENTRY"

	// Resource not found errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeModuleNotFound    Code = "MODULE_NOT_FOUND"
	ErrCodeProcessorNotFound Code = "PROCESSOR_NOT_FOUND"
	ErrCodeProjectNotFound   Code = "PROJECT_NOT_FOUND"

	// Capacity errors (strict mode only)
	ErrCodeCapacityExceeded Code = "CAPACITY_EXCEEDED"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
// Unknown and empty codes map to 500.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidModule, ErrCodeInvalidProcessor,
		ErrCodeInvalidPattern, ErrCodeInvalidFormat, ErrCodeInvalidConfig,
		ErrCodeInvalidProject:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeModuleNotFound, ErrCodeProcessorNotFound,
		ErrCodeProjectNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicate, ErrCodeLastEntry:
		return http.StatusConflict
	case ErrCodeCapacityExceeded:
		return http.StatusUnprocessableEntity
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
