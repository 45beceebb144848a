package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an authentication failure.
type Kind string

const (
	KindInvalidEmail       Kind = "invalid_email"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindMissingCredentials Kind = "missing_credentials"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindStoreUnavailable   Kind = "store_unavailable"
)

// Sentinel errors, one per kind. Use errors.Is to match any AuthError of that kind.
var (
	ErrInvalidEmail       = &AuthError{Kind: KindInvalidEmail, Message: "Invalid email format"}
	ErrDuplicateEmail     = &AuthError{Kind: KindDuplicateEmail, Message: "Email already exists"}
	ErrMissingCredentials = &AuthError{Kind: KindMissingCredentials, Message: "Email and password are required."}
	ErrInvalidCredentials = &AuthError{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
	ErrStoreUnavailable   = &AuthError{Kind: KindStoreUnavailable, Message: "store unavailable"}
)

// AuthError is the error type returned by the credential gateway.
type AuthError struct {
	Kind    Kind
	Message string
	Err     error
}

// NewStoreUnavailableError wraps an underlying store failure.
func NewStoreUnavailableError(message string, err error) *AuthError {
	return &AuthError{
		Kind:    KindStoreUnavailable,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AuthError of the same kind.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPStatus returns the HTTP status code for this error
func (e *AuthError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidEmail, KindMissingCredentials:
		return http.StatusBadRequest
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind of err, or KindStoreUnavailable if err is not an AuthError.
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStoreUnavailable
}
