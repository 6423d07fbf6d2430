package ports

import (
	"context"
	"errors"
	"time"
)

// ErrRequestInFlight is returned by Begin while the first request holding the key is still running.
var ErrRequestInFlight = errors.New("request with this idempotency key is in progress")

// StoredResponse is the replayable part of a completed response.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore - Interface สำหรับเก็บ Idempotency-Key (Redis หรือ memory)
type IdempotencyStore interface {
	// Begin reserves key for ttl. It returns (nil, nil) when the caller owns the key,
	// the stored response when the key already completed, or ErrRequestInFlight.
	// The reservation lapses after ttl if neither Complete nor Release is called.
	Begin(ctx context.Context, key string, ttl time.Duration) (*StoredResponse, error)

	// Complete stores the response for replay.
	Complete(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error

	// Release frees a reserved key so the request can be retried.
	Release(ctx context.Context, key string) error
}
