// Package apperr defines the error taxonomy shared by every handler and
// store: Validation, NotFound, Forbidden, Conflict, and Upstream.
//
// Stores and services return apperr values (or wrap underlying errors in
// them); handlers map them to HTTP statuses with Status. Kinds are matched
// with errors.As via IsKind, so wrapping with fmt.Errorf("%w") is safe.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status mapping and retry policy.
type Kind int

const (
	// KindValidation is malformed or missing input. Never retried.
	KindValidation Kind = iota
	// KindNotFound is a referenced photo/album/comment/tag/reaction that
	// does not exist.
	KindNotFound
	// KindForbidden is an authenticated caller without the right to the
	// operation (not the author, not an admin).
	KindForbidden
	// KindConflict is a business-rule violation: duplicate tag, non-empty
	// album delete, last-admin removal.
	KindConflict
	// KindUpstream wraps a collaborator failure (image pipeline, mail).
	KindUpstream
)

// Error carries a kind, a caller-facing message, and an optional cause.
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

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error with a formatted message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error with a formatted message.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden returns a KindForbidden error with a formatted message.
func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// Conflict returns a KindConflict error with a formatted message.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps a collaborator failure. The cause is kept for logging but
// the caller-facing message stays generic.
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

// IsKind reports whether err (or anything it wraps) is an apperr of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// Status maps an error to an HTTP status code. Unclassified errors map to
// 500.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message for an error. Unclassified
// errors get a generic message so internals never leak to clients.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return "internal error"
}
