// Package errors provides the error taxonomy shared by the lgtm CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error by where it originated.
type Kind string

const (
	// KindConfig covers missing config files, unknown instances and missing backend sections.
	KindConfig Kind = "config"
	// KindSecret covers failures of the external secret manager.
	KindSecret Kind = "secret"
	// KindParameter covers invalid user input detected before any network call.
	KindParameter Kind = "parameter"
	// KindBackend covers transport failures, non-2xx responses and unparsable bodies.
	KindBackend Kind = "backend"
)

// Error is a classified error with an optional cause.
// Status and Body are only set for backend HTTP errors.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Status  int
	Body    string
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Config creates a configuration error.
func Config(format string, args ...any) *Error {
	return New(KindConfig, format, args...)
}

// Secret creates a secret-resolution error.
func Secret(format string, args ...any) *Error {
	return New(KindSecret, format, args...)
}

// Parameter creates a parameter-validation error.
func Parameter(format string, args ...any) *Error {
	return New(KindParameter, format, args...)
}

// Backend creates a backend error.
func Backend(format string, args ...any) *Error {
	return New(KindBackend, format, args...)
}

// WithCause attaches the underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithResponse attaches the HTTP status and response body.
func (e *Error) WithResponse(status int, body string) *Error {
	e.Status = status
	e.Body = body
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether any error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	for {
		if e.Kind == kind {
			return true
		}
		if !stderrors.As(e.Cause, &e) {
			return false
		}
	}
}
