package repository

import (
	"context"
	"time"
)

// CacheRepository is a small key-value facade over the cache layer. A miss is
// reported as an empty value, not an error.
type CacheRepository interface {
	// Get returns the cached value for a key, or "" on a miss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores a value only if the key is absent and reports whether
	// the write won.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
