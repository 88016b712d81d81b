// Package apperr defines the error kinds shared by the service layers.
//
// Kinds are sentinels matched with errors.Is. Errors created with New carry a
// human-readable message that is safe to return to API callers.
package apperr

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrGone         = errors.New("gone")
	ErrConflict     = errors.New("conflict")
)

// Error is a classified error with a caller-facing message.
type Error struct {
	kind error
	msg  string
}

// New returns an error of the given kind. Error() returns msg.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Kind returns the sentinel the error was classified with.
func (e *Error) Kind() error { return e.kind }

// IsDomain reports whether err carries one of the domain kinds that callers
// are expected to distinguish (everything except internal failures).
func IsDomain(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrGone),
		errors.Is(err, ErrConflict):
		return true
	}
	return false
}
