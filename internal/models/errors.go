package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable category of an engine error
type ErrorKind string

const (
	KindInvalidInput     ErrorKind = "invalid_input"
	KindInsufficientData ErrorKind = "insufficient_data"
	KindCalculation      ErrorKind = "calculation_error"
)

// Sentinel errors usable with errors.Is. Matching is by kind, so any
// *Error of the same kind satisfies errors.Is(err, ErrInvalidInput).
var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInsufficientData = &Error{Kind: KindInsufficientData, Message: "insufficient data"}
	ErrCalculation      = &Error{Kind: KindCalculation, Message: "calculation error"}

	// ErrNotFound is returned by repositories when no record matches
	ErrNotFound = errors.New("record not found")
)

// Error is the error type returned by the scoring and simulation core
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewInvalidInputError creates an invalid input error for a field
func NewInvalidInputError(field, message string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: message}
}

// NewInsufficientDataError creates an insufficient data error
func NewInsufficientDataError(message string) *Error {
	return &Error{Kind: KindInsufficientData, Message: message}
}

// NewCalculationError creates a calculation error wrapping an optional cause
func NewCalculationError(message string, cause error) *Error {
	return &Error{Kind: KindCalculation, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or "" when err is not an engine error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
