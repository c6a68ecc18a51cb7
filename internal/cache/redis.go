package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshots caches snapshots in Redis with per-entry TTLs.
type RedisSnapshots struct {
	rdb *redis.Client
}

// NewRedisSnapshots wraps an existing Redis client.
func NewRedisSnapshots(rdb *redis.Client) *RedisSnapshots {
	return &RedisSnapshots{rdb: rdb}
}

func (s *RedisSnapshots) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *RedisSnapshots) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	// Best-effort: a failed set only costs a recompute later.
	s.rdb.Set(ctx, key, payload, ttl)
}
