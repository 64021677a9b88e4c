package token

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocations stores revoked tokens as individual Redis keys with
// a TTL, so the set prunes itself once the underlying token would have
// expired anyway. This is the store used in production: it survives
// restarts and is shared by all server instances.
type RedisRevocations struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisRevocations wraps a connected Redis client.
func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb, prefix: "revoked:"}
}

// Add records the token. SET with the same key twice is a no-op apart
// from refreshing the TTL, which keeps Add idempotent.
func (r *RedisRevocations) Add(ctx context.Context, raw string, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.prefix+raw, 1, ttl).Err()
}

// Contains reports whether the token has been revoked.
func (r *RedisRevocations) Contains(ctx context.Context, raw string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.prefix+raw).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocations is the in-process fallback used when Redis is not
// reachable at startup, and by tests. Reads take the shared lock since
// verification runs on every request; writes only happen on logout.
type MemoryRevocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token -> eviction deadline
}

// NewMemoryRevocations returns an empty in-memory store.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{entries: make(map[string]time.Time)}
}

// Add records the token with its eviction deadline and drops any
// entries whose deadline already passed.
func (m *MemoryRevocations) Add(_ context.Context, raw string, ttl time.Duration) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, deadline := range m.entries {
		if now.After(deadline) {
			delete(m.entries, k)
		}
	}
	m.entries[raw] = now.Add(ttl)
	return nil
}

// Contains reports whether the token is present and not yet evictable.
func (m *MemoryRevocations) Contains(_ context.Context, raw string) (bool, error) {
	m.mu.RLock()
	deadline, ok := m.entries[raw]
	m.mu.RUnlock()
	return ok && time.Now().Before(deadline), nil
}
