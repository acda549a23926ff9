// Package apperr defines the domain error taxonomy shared by the core
// services. Every core operation either succeeds or returns exactly one
// of these kinds; storage failures surface as Internal with the cause
// wrapped for diagnostics.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	// Internal is an infrastructure failure (storage, network). Not a
	// domain outcome; the cause is wrapped but not shown to clients.
	Internal Kind = iota
	// NotFound means the entity id did not resolve.
	NotFound
	// Forbidden means the caller is authenticated but not authorized.
	Forbidden
	// InvalidArgument means a required field is missing or malformed.
	InvalidArgument
	// AlreadyExists means a duplicate membership or favorite.
	AlreadyExists
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Forbidden:
		return "forbidden"
	case InvalidArgument:
		return "invalid argument"
	case AlreadyExists:
		return "already exists"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a client-visible message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. The message is client-visible,
// the wrapped cause is not.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors
// report Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-visible message for an error chain.
// Internal and unclassified errors get an opaque message so internals
// don't leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	return "internal server error"
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
