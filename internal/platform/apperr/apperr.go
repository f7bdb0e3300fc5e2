// Package apperr carries transport-agnostic error codes from the service and
// repository layers up to the HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies what went wrong in business terms.
type Code string

const (
	CodeValidation             Code = "validation_failed"
	CodeUnauthorized           Code = "unauthorized"
	CodeForbidden              Code = "forbidden"
	CodeNotFound               Code = "not_found"
	CodeInvalidTransition      Code = "invalid_transition"
	CodeConcurrentModification Code = "concurrent_modification"
	CodeConflict               Code = "conflict"
	CodeInternal               Code = "internal_error"
)

// Error wraps a failure with a stable code and a human readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so errors.Is(err, apperr.NotFound(""))
// style checks work regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

func Newf(code Code, format string, args ...interface{}) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to err. An existing code on err is preserved.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func Validation(msg string) error        { return New(CodeValidation, msg) }
func Forbidden(msg string) error         { return New(CodeForbidden, msg) }
func Unauthorized(msg string) error      { return New(CodeUnauthorized, msg) }
func NotFound(msg string) error          { return New(CodeNotFound, msg) }
func InvalidTransition(msg string) error { return New(CodeInvalidTransition, msg) }
func Conflict(msg string) error          { return New(CodeConflict, msg) }

func ConcurrentModification(msg string) error {
	return New(CodeConcurrentModification, msg)
}

// CodeOf returns the code of the outermost *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Retryable reports whether the caller may retry after re-reading current state.
func Retryable(err error) bool {
	return HasCode(err, CodeConcurrentModification)
}
