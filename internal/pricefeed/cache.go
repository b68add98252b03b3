package pricefeed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryCache is the process-local snapshot cache.
type MemoryCache struct {
	mu       sync.RWMutex
	snap     Snapshot
	storedAt time.Time
	ttl      time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) Get(_ context.Context) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.storedAt.IsZero() || time.Since(c.storedAt) > c.ttl {
		return Snapshot{}, false
	}
	return c.snap, true
}

func (c *MemoryCache) Set(_ context.Context, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.storedAt = time.Now()
}

const redisCacheKey = "pricefeed:eth:snapshot"

// RedisCache shares the snapshot across instances. Errors are treated as
// cache misses so a Redis outage degrades to per-instance fetching.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (Snapshot, bool) {
	data, err := c.client.Get(ctx, redisCacheKey).Bytes()
	if err != nil {
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

func (c *RedisCache) Set(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisCacheKey, data, c.ttl)
}
