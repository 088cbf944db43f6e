package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultMaxKeys = 10000

// MemoryStore keeps the last admitted attempt per key in process memory.
// Entries expire after the window; when the store is full the expired
// entries are swept and, if still full, the oldest entry is evicted.
type MemoryStore struct {
	mu      sync.Mutex
	window  time.Duration
	maxKeys int
	seen    map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore(window time.Duration, maxKeys int) *MemoryStore {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return &MemoryStore{
		window:  window,
		maxKeys: maxKeys,
		seen:    make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if last, ok := m.seen[key]; ok && now.Sub(last) < m.window {
		return false, nil
	}

	if _, ok := m.seen[key]; !ok && len(m.seen) >= m.maxKeys {
		m.evict(now)
	}
	m.seen[key] = now
	return true, nil
}

// size is the number of tracked keys.
func (m *MemoryStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

func (m *MemoryStore) evict(now time.Time) {
	for k, t := range m.seen {
		if now.Sub(t) >= m.window {
			delete(m.seen, k)
		}
	}
	if len(m.seen) < m.maxKeys {
		return
	}

	var oldestKey string
	var oldest time.Time
	for k, t := range m.seen {
		if oldestKey == "" || t.Before(oldest) {
			oldestKey, oldest = k, t
		}
	}
	delete(m.seen, oldestKey)
}
