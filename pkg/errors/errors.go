// Package errors provides structured error types for tatweel.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Layout codes mirror the outcomes of the width-fit search:
//   - TOO_TIGHT: a span cannot be compressed to the goal width
//   - TOO_LOOSE: a span cannot be stretched to the goal width
//   - UNABLE_TO_LAYOUT: no line sequence exists for a paragraph
//
// The remaining codes follow the INVALID_* / NOT_FOUND / INTERNAL_* convention.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnableToLayout, "paragraph %d has no line sequence", i)
//	if errors.Is(err, errors.ErrCodeUnableToLayout) {
//	    // report and stop
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFontLoad, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors
	ErrCodeTooTight       Code = "TOO_TIGHT"
	ErrCodeTooLoose       Code = "TOO_LOOSE"
	ErrCodeUnableToLayout Code = "UNABLE_TO_LAYOUT"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidVariation Code = "INVALID_VARIATION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeFontLoad Code = "FONT_LOAD"

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

// HTTPStatus maps an error code to the status code the HTTP API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidVariation, ErrCodeInvalidFormat:
		return 400
	case ErrCodeNotFound:
		return 404
	case ErrCodeUnableToLayout, ErrCodeTooTight, ErrCodeTooLoose:
		return 422
	default:
		return 500
	}
}
