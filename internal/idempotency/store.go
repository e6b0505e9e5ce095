// Package idempotency remembers the outcome of requests carrying a
// client-supplied Idempotency-Key so that retries replay the first result.
package idempotency

import (
	"context"
	"errors"
	"time"
)

// ErrInProgress is returned by Reserve while another request holds the key.
var ErrInProgress = errors.New("idempotency key is already in progress")

// Store tracks idempotency keys through a pending and a completed state.
type Store interface {
	// Reserve claims key for ttl. It returns (nil, nil) when the caller now owns the key,
	// the stored result when the key already completed, and ErrInProgress when
	// another request holds it.
	Reserve(ctx context.Context, key string, ttl time.Duration) ([]byte, error)

	// Complete stores the result for an owned key.
	Complete(ctx context.Context, key string, result []byte, ttl time.Duration) error

	// Release drops an owned key so the request can be retried.
	Release(ctx context.Context, key string) error

	// Close releases the store's resources.
	Close() error
}
