package state

import (
	"context"
	"marketlens/internal/mock"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps dashboards in process. An entry expires ttl after its
// last write and is released by the cache's own sweep, whether or not the
// session ever comes back. A zero ttl keeps entries until they are evicted.
type MemoryStore struct {
	mu       sync.Mutex
	items    *expirable.LRU[string, *Dashboard]
	defaults mock.Defaults
}

// NewMemoryStore holds at most maxSessions dashboards, evicting the least
// recently written first. Zero means no size bound.
func NewMemoryStore(defaults mock.Defaults, ttl time.Duration, maxSessions int) *MemoryStore {
	return &MemoryStore{
		items:    expirable.NewLRU[string, *Dashboard](maxSessions, nil, ttl),
		defaults: defaults,
	}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(sessionID).clone(), nil
}

// Update holds the store lock across fn so one read-modify-write is never
// interleaved with another.
func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*Dashboard)) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.get(sessionID).clone()
	fn(d)
	d.UpdatedAt = time.Now()
	s.items.Add(sessionID, d)

	return d.clone(), nil
}

func (s *MemoryStore) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items.Remove(sessionID)
	return nil
}

func (s *MemoryStore) size() int {
	return s.items.Len()
}

// get must be called with mu held.
func (s *MemoryStore) get(sessionID string) *Dashboard {
	if d, ok := s.items.Get(sessionID); ok {
		return d
	}
	return NewDashboard(s.defaults)
}
