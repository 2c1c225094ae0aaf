package featuregate

import (
	"context"
	"sync"
	"time"

	"github.com/serendibtrip/serendibtrip-api/types"
)

// MemoryCounterStore keeps counters in process memory. Daily counters store
// the UTC date they belong to and reset when the date changes; session
// counters live as long as the process.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*types.UsageCounter
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[string]*types.UsageCounter)}
}

// counter returns the live counter for key, resetting stale daily state.
// Callers hold mu.
func (s *MemoryCounterStore) counter(key CounterKey, now time.Time) *types.UsageCounter {
	id := key.base()
	c, ok := s.counters[id]
	if !ok {
		c = &types.UsageCounter{}
		s.counters[id] = c
	}
	if key.Scope == types.QuotaScopeDaily {
		d := today(now)
		if c.Date != d {
			c.Count = 0
			c.Date = d
		}
	}
	return c
}

func (s *MemoryCounterStore) Get(_ context.Context, key CounterKey, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter(key, now).Count, nil
}

func (s *MemoryCounterStore) Increment(_ context.Context, key CounterKey, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counter(key, now)
	c.Count++
	return c.Count, nil
}

func (s *MemoryCounterStore) Acquire(_ context.Context, key CounterKey, limit int, now time.Time) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counter(key, now)
	if c.Count >= limit {
		return c.Count, false, nil
	}
	c.Count++
	return c.Count, true, nil
}

func (s *MemoryCounterStore) Decrement(_ context.Context, key CounterKey, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counter(key, now)
	if c.Count > 0 {
		c.Count--
	}
	return nil
}
