package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"group-task-organizer/domain/ports"
)

const pendingMarker = "__pending__"

// IdempotencyStore keeps Idempotency-Key state in Redis so every instance
// behind a load balancer sees the same keys.
type IdempotencyStore struct {
	client *Client
	prefix string
}

func NewIdempotencyStore(client *Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, prefix: "idem:"}
}

func (s *IdempotencyStore) key(key string) string {
	return s.prefix + key
}

func (s *IdempotencyStore) Begin(ctx context.Context, key string, ttl time.Duration) (*ports.StoredResponse, error) {
	// two attempts: the stored value may expire between SETNX and GET
	for attempt := 0; attempt < 2; attempt++ {
		reserved, err := s.client.SetNX(ctx, s.key(key), pendingMarker, ttl)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if reserved {
			return nil, nil
		}

		raw, err := s.client.Get(ctx, s.key(key))
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read idempotency key: %w", err)
		}
		if raw == pendingMarker {
			return nil, ports.ErrRequestInFlight
		}

		var stored ports.StoredResponse
		if err := sonic.UnmarshalString(raw, &stored); err != nil {
			return nil, fmt.Errorf("decode stored response: %w", err)
		}
		return &stored, nil
	}
	return nil, ports.ErrRequestInFlight
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp *ports.StoredResponse, ttl time.Duration) error {
	data, err := sonic.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode stored response: %w", err)
	}
	return s.client.Set(ctx, s.key(key), data, ttl)
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key))
}

// Clear drops every stored key and returns how many were removed.
func (s *IdempotencyStore) Clear(ctx context.Context) (int64, error) {
	return s.client.DeleteByPrefix(ctx, s.prefix)
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)
