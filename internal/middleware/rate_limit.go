package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rateLimitWindow = 60 * time.Second

// WindowStore counts requests per client in fixed windows. Implementations
// must be safe for concurrent use. The in-memory store is process-local;
// the Redis store shares the budget across instances.
type WindowStore interface {
	// Incr increments and returns the request count for key within the
	// window identified by windowID.
	Incr(ctx context.Context, key string, windowID int64) (int, error)
}

// MemoryWindowStore keeps per-window counters in a map. Counters from the
// previous window are dropped as clients roll into a new one.
type MemoryWindowStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{counts: make(map[string]int)}
}

func (s *MemoryWindowStore) Incr(_ context.Context, key string, windowID int64) (int, error) {
	bucket := fmt.Sprintf("%s:%d", key, windowID)
	prev := fmt.Sprintf("%s:%d", key, windowID-1)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.counts, prev)
	s.counts[bucket]++
	return s.counts[bucket], nil
}

// RedisWindowStore shares the window counters across instances via
// INCR with a window-length expiry.
type RedisWindowStore struct {
	client *redis.Client
}

func NewRedisWindowStore(client *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{client: client}
}

func (s *RedisWindowStore) Incr(ctx context.Context, key string, windowID int64) (int, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, windowID)

	count, err := s.client.Incr(ctx, bucket).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.client.Expire(ctx, bucket, rateLimitWindow)
	}
	return int(count), nil
}

// RateLimit enforces a per-client fixed 60-second window. Over-limit
// requests get 429 with a Retry-After hint; every response carries the
// limit and remaining-budget headers. A store failure lets the request
// through rather than taking the API down with it.
func RateLimit(store WindowStore, requestsPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		windowID := now.Unix() / int64(rateLimitWindow.Seconds())

		count, err := store.Incr(c.Request.Context(), c.ClientIP(), windowID)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit store unavailable, allowing request")
			c.Next()
			return
		}

		if count > requestsPerMinute {
			retryAfter := int(rateLimitWindow.Seconds()) - int(now.Unix()%int64(rateLimitWindow.Seconds()))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail":      "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerMinute))
		remaining := requestsPerMinute - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Next()
	}
}
