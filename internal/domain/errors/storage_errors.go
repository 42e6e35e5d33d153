package errors

import "errors"

var (
	// ErrDuplicateKey is returned by repositories when a unique constraint rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrProfileNotFound indicates that the user has not created a profile yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrAdminRequired is returned when a non-admin calls an admin operation.
	ErrAdminRequired = errors.New("admin role required")
)
