// Package apperr defines the error kinds surfaced by the repository, object store
// and token issuer, and their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error. The zero value is Internal.
type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidInput
	BackendUnavailable
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case BackendUnavailable:
		return "backend_unavailable"
	case Unauthorized:
		return "unauthorized"
	}
	return "internal"
}

// Error carries a Kind together with the operation that failed and an optional cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error without a cause.
func E(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap builds an *Error around err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
// Errors that were never classified are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the message safe to show to a caller. Backend and internal
// failures never leak their cause.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	switch e.Kind {
	case BackendUnavailable:
		return "storage backend unavailable"
	case Internal:
		return "internal server error"
	case Unauthorized:
		if e.Msg == "" {
			return "unauthorized"
		}
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case NotFound:
		return http.StatusNotFound
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
