// Package answercache implements the assistant answer cache and trending
// counters, backed by process memory or Valkey.
package answercache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
)

type cachedAnswer struct {
	payload   assistant.AnswerRecord
	expiresAt time.Time
}

// MemoryStore is an in-memory store for tests and single-node setups.
type MemoryStore struct {
	mu       sync.RWMutex
	answers  map[string]cachedAnswer
	trending map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		answers:  make(map[string]cachedAnswer),
		trending: make(map[string]int64),
		displays: make(map[string]string),
	}
}

// GetAnswer implements assistant.Store.
func (s *MemoryStore) GetAnswer(_ context.Context, cacheKey string) (assistant.AnswerRecord, bool, error) {
	if cacheKey == "" {
		return assistant.AnswerRecord{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.answers[cacheKey]
	s.mu.RUnlock()
	if !ok {
		return assistant.AnswerRecord{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.answers, cacheKey)
		s.mu.Unlock()
		return assistant.AnswerRecord{}, false, nil
	}
	return record.payload, true, nil
}

// SaveAnswer caches the answer with optional TTL.
func (s *MemoryStore) SaveAnswer(_ context.Context, record assistant.AnswerRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.answers[record.CacheKey] = cachedAnswer{
		payload:   record,
		expiresAt: exp,
	}
	return nil
}

// IncrementQuery bumps the counter for a canonical query and records a display string.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trending[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries returns the most frequent canonical questions.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]assistant.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.trending)
	}
	items := make([]assistant.TrendingQuery, 0, len(s.trending))
	for canonical, count := range s.trending {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, assistant.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ assistant.Store = (*MemoryStore)(nil)
