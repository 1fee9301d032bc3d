// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Kind classifies a domain failure so that transports can pick a status
// without inspecting individual errors.
type Kind int

const (
	// KindInfrastructure covers every failure that is not a known domain error,
	// e.g. the database being unreachable. Its message is never shown to callers.
	KindInfrastructure Kind = iota
	// KindValidation indicates missing or malformed input.
	KindValidation
	// KindConflict indicates a uniqueness violation (username or email taken).
	KindConflict
	// KindAuth indicates bad credentials, an unverified account or an unusable token.
	KindAuth
	// KindNotFound indicates that the addressed resource does not exist.
	KindNotFound
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "infrastructure"
	}
}

// Error is a domain failure whose message is safe to return to the caller.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New returns a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the kind of err. Errors that do not wrap a *Error are
// classified as KindInfrastructure.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}

// MessageOf returns the caller-safe message of err, or fallback when err is
// not a domain error.
func MessageOf(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInfrastructure {
		return de.Message
	}
	return fallback
}
