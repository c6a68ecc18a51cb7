package cache

import (
	"context"
	"sync"
	"time"
)

// MemorySnapshots is the in-process fallback when Redis is not configured.
// Expired entries are dropped lazily on read.
type MemorySnapshots struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemorySnapshots creates an empty in-memory snapshot cache.
func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{entries: make(map[string]memoryEntry)}
}

func (s *MemorySnapshots) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry.payload, true
}

func (s *MemorySnapshots) Set(_ context.Context, key string, payload []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
}
