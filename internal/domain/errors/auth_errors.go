// Package errors defines the business errors returned by the registry, the theft
// report ledger and the identity resolvers.
package errors

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies identity resolution failures.
type AuthErrorKind string

const (
	AuthMissing     AuthErrorKind = "AUTH_MISSING"
	AuthInvalid     AuthErrorKind = "AUTH_INVALID"
	AuthUnavailable AuthErrorKind = "AUTH_UNAVAILABLE"
)

// AuthError is returned when a credential cannot be resolved to an identity.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s - %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the caller may retry the same credential later.
func (e *AuthError) IsRetryable() bool {
	return e.Kind == AuthUnavailable
}

// NewMissingCredentialError reports a request without any credential.
func NewMissingCredentialError() *AuthError {
	return &AuthError{Kind: AuthMissing, Message: "credential required"}
}

// NewInvalidCredentialError reports a credential the provider rejected.
func NewInvalidCredentialError(cause error) *AuthError {
	return &AuthError{Kind: AuthInvalid, Message: "invalid or expired credential", Cause: cause}
}

// NewIdentityUnavailableError reports that the identity provider could not be reached.
func NewIdentityUnavailableError(cause error) *AuthError {
	return &AuthError{Kind: AuthUnavailable, Message: "identity provider unavailable", Cause: cause}
}

// AuthKindOf returns the kind of the AuthError in err's chain.
func AuthKindOf(err error) (AuthErrorKind, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind, true
	}
	return "", false
}
