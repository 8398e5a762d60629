package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process revocation store with TTL expiry, used
// in tests and single-process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store. now overrides the
// clock; pass nil for time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		expires: make(map[string]time.Time),
		now:     now,
	}
}

func (s *MemoryStore) Add(_ context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[tokenHash] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	s.mu.RLock()
	deadline, ok := s.expires[tokenHash]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !s.now().Before(deadline) {
		// The token this record guarded has expired on its own;
		// drop the record lazily.
		s.mu.Lock()
		delete(s.expires, tokenHash)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
