package cache

import (
	"slices"
	"strings"
	"sync"
	"time"

	"tradedesk/internal/feature/marketdata/domain/entity"
)

// defaultMaxEntries bounds the in-process store; a full store drops expired
// entries first, then the entry closest to expiry.
const defaultMaxEntries = 512

type memoryEntry struct {
	candles []entity.Candle
	expires time.Time
}

// memoryStore is the in-process fallback used when Redis is not configured.
// Expired entries are dropped lazily on read and on insert.
type memoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func newMemoryStore(maxEntries int) *memoryStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &memoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// get returns a copy so callers cannot mutate the cached series.
func (s *memoryStore) get(key string) ([]entity.Candle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return slices.Clone(e.candles), true
}

func (s *memoryStore) set(key string, candles []entity.Candle, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evict(now)
	}
	s.entries[key] = memoryEntry{candles: slices.Clone(candles), expires: now.Add(ttl)}
}

func (s *memoryStore) deletePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// evict must be called with mu held.
func (s *memoryStore) evict(now time.Time) {
	var oldest string
	var oldestAt time.Time
	for key, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, key)
			continue
		}
		if oldest == "" || e.expires.Before(oldestAt) {
			oldest, oldestAt = key, e.expires
		}
	}
	if len(s.entries) >= s.maxEntries && oldest != "" {
		delete(s.entries, oldest)
	}
}
