// Package apperr defines the error kinds surfaced to API clients and their
// HTTP status mapping.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindInvalidToken
	KindExpiredToken
	KindAccountDeactivated
	KindForbidden
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidToken:
		return "invalid_token"
	case KindExpiredToken:
		return "expired_token"
	case KindAccountDeactivated:
		return "account_deactivated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated, KindInvalidToken, KindExpiredToken, KindAccountDeactivated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an error with a client-facing kind and message. Err holds the
// underlying cause, which is logged but never returned to the caller.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Unauthenticated is returned when no usable identity accompanies a request.
func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

// InvalidToken is returned for tokens with a bad signature or format.
func InvalidToken(err error) *Error {
	return &Error{Kind: KindInvalidToken, Message: "Invalid authentication token", Err: err}
}

// ExpiredToken is returned for tokens past their expiry.
func ExpiredToken(err error) *Error {
	return &Error{Kind: KindExpiredToken, Message: "Authentication token has expired", Err: err}
}

// AccountDeactivated is returned when the resolved account is disabled.
func AccountDeactivated() *Error {
	return New(KindAccountDeactivated, "User account is deactivated")
}

// Forbidden is returned when an identity lacks the required role.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// NotFound is returned for missing resources, including ones the caller
// does not own.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation carries every violated field.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// Internal wraps an unexpected fault. The message stays generic.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}

// KindOf reports the kind of err, defaulting to KindInternal for errors that
// were not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// From returns err as an *Error, wrapping foreign errors as Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
