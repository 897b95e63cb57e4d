package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// RedisIdempotencyStore remembers handled event ids with SETNX, shared
// across server instances
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing client
func NewRedisIdempotencyStore(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "sm"
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix + ":handled:"}
}

// MarkProcessed records eventID and reports whether it was new
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+eventID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event %s processed: %w", eventID, err)
	}
	return ok, nil
}

// IsProcessed reports whether eventID was recorded and has not expired
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", eventID, err)
	}
	return n > 0, nil
}

// MemoryIdempotencyStore is a single-process store. Expired ids are
// dropped lazily on write.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryIdempotencyStore creates an empty store
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{expires: make(map[string]time.Time), now: time.Now}
}

// MarkProcessed records eventID and reports whether it was new
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	for id, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, id)
		}
	}
	s.expires[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether eventID was recorded and has not expired
func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[eventID]
	return ok && s.now().Before(exp), nil
}

// NewIdempotencyStore returns a Redis store, or a memory store without a client
func NewIdempotencyStore(client redis.UniversalClient, keyPrefix string) shared.IdempotencyStore {
	if client == nil {
		return NewMemoryIdempotencyStore()
	}
	return NewRedisIdempotencyStore(client, keyPrefix)
}

var (
	_ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ shared.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
)
