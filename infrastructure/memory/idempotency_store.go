package memory

import (
	"context"
	"sync"
	"time"

	"group-task-organizer/domain/ports"
)

type idempotencyEntry struct {
	response  *ports.StoredResponse // nil while in flight
	expiresAt time.Time
}

// IdempotencyStore is the single-instance fallback used when Redis is not configured.
// Expired entries are ignored on read and removed by PurgeExpired.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*idempotencyEntry
	now     func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		now:     time.Now,
	}
}

func (s *IdempotencyStore) Begin(ctx context.Context, key string, ttl time.Duration) (*ports.StoredResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		if entry.response == nil {
			return nil, ports.ErrRequestInFlight
		}
		return copyResponse(entry.response), nil
	}

	s.entries[key] = &idempotencyEntry{expiresAt: now.Add(ttl)}
	return nil, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp *ports.StoredResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &idempotencyEntry{
		response:  copyResponse(resp),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// PurgeExpired drops expired keys and returns how many were removed.
func (s *IdempotencyStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func copyResponse(resp *ports.StoredResponse) *ports.StoredResponse {
	if resp == nil {
		return nil
	}
	clone := *resp
	clone.Body = append([]byte(nil), resp.Body...)
	return &clone
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)
