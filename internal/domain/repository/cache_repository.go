package repository

import (
	"context"
	"time"
)

// CacheRepository is a string key/value cache.
type CacheRepository interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	Get(ctx context.Context, key string) (string, error)

	Delete(ctx context.Context, key string) error

	// IsNotFound reports whether err means the key does not exist.
	IsNotFound(err error) bool
}
