package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards write requests carrying an Idempotency-Key header.
type IdempotencyStore interface {
	// Acquire claims the key for ttl.
	// Returns true if the key was newly claimed, false if it is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
