package errors

import (
	"errors"
	"fmt"
)

// RegistryErrorKind classifies device registry failures.
type RegistryErrorKind string

const (
	RegistryInvalid       RegistryErrorKind = "REGISTRY_INVALID"
	RegistryDuplicateIMEI RegistryErrorKind = "REGISTRY_DUPLICATE_IMEI"
	RegistryForbidden     RegistryErrorKind = "REGISTRY_FORBIDDEN"
	RegistryNotFound      RegistryErrorKind = "REGISTRY_NOT_FOUND"
)

// RegistryError is a business error of the device registry.
type RegistryError struct {
	Kind    RegistryErrorKind
	Message string
	IMEI    string
	Cause   error
}

func (e *RegistryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (imei: %s) - %v", e.Kind, e.Message, e.IMEI, e.Cause)
	}
	return fmt.Sprintf("%s: %s (imei: %s)", e.Kind, e.Message, e.IMEI)
}

func (e *RegistryError) Unwrap() error {
	return e.Cause
}

// NewRegistryInvalidError reports malformed input.
func NewRegistryInvalidError(imei, message string) *RegistryError {
	return &RegistryError{Kind: RegistryInvalid, Message: message, IMEI: imei}
}

// NewDuplicateIMEIError reports an IMEI that already has a registration.
func NewDuplicateIMEIError(imei string, cause error) *RegistryError {
	return &RegistryError{
		Kind:    RegistryDuplicateIMEI,
		Message: "this IMEI is already registered",
		IMEI:    imei,
		Cause:   cause,
	}
}

// NewRegistryForbiddenError reports a caller that does not own the registration.
func NewRegistryForbiddenError(imei string) *RegistryError {
	return &RegistryError{
		Kind:    RegistryForbidden,
		Message: "only the registered owner can change this device",
		IMEI:    imei,
	}
}

// NewRegistryNotFoundError reports an IMEI without registration.
func NewRegistryNotFoundError(imei string) *RegistryError {
	return &RegistryError{Kind: RegistryNotFound, Message: "device registration not found", IMEI: imei}
}

// IsRegistryError reports whether err is a RegistryError of kind.
func IsRegistryError(err error, kind RegistryErrorKind) bool {
	var regErr *RegistryError
	return errors.As(err, &regErr) && regErr.Kind == kind
}
