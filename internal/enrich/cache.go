package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches successful lookups keyed by the original source URL. A hit
// within the TTL short-circuits the network call. Staleness is acceptable;
// entries are independent and last-writer-wins.
type Store interface {
	Get(ctx context.Context, key string) (RepoMetadata, bool, error)
	Set(ctx context.Context, key string, md RepoMetadata, ttl time.Duration) error
}

type memoryEntry struct {
	md      RepoMetadata
	expires time.Time
}

// MemoryStore is the in-process cache used when no Redis endpoint is
// configured, and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (RepoMetadata, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return RepoMetadata{}, false, nil
	}
	return entry.md, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, md RepoMetadata, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{md: md, expires: time.Now().Add(ttl)}
	return nil
}

const redisKeyPrefix = "catalog:stars:"

// RedisStore persists the cache across pipeline runs.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (RepoMetadata, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return RepoMetadata{}, false, nil
		}
		return RepoMetadata{}, false, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	var md RepoMetadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return RepoMetadata{}, false, fmt.Errorf("failed to decode cached metadata: %w", err)
	}
	return md, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, md RepoMetadata, ttl time.Duration) error {
	raw, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}
