package cache

import (
	"context"
	"sync"
	"time"

	"github.com/campusbridge/embed-service/internal/ports"
)

// MemoryStore is the process-local fallback tier. Expired entries are dropped
// lazily on read; a janitor sweep bounds memory while the primary is down for
// long stretches.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]ports.CacheEntry

	nowFn  func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]ports.CacheEntry),
		nowFn:   func() time.Time { return time.Now().UTC() },
		stopCh:  make(chan struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*ports.CacheEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if entry.Expired(s.nowFn()) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if current, stillThere := s.entries[key]; stillThere && current.Expired(s.nowFn()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry ports.CacheEntry, _ time.Duration) error {
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// StartJanitor sweeps expired entries at the given interval until Stop.
func (s *MemoryStore) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

func (s *MemoryStore) sweep() {
	now := s.nowFn()
	s.mu.Lock()
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}
