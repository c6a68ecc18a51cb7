// Package cache provides a TTL snapshot cache for computed summaries.
// Redis backs it when configured; an in-memory cache otherwise. This is a
// throwaway cache, not persistence: every summary is recomputed from a
// fresh provider snapshot once its entry expires.
package cache

import (
	"context"
	"time"
)

// Snapshots stores serialized summary payloads under string keys.
// Implementations never surface errors: a failed get is a miss, a failed
// set is dropped, and the caller recomputes.
type Snapshots interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}
