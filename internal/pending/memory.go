package pending

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a single-process Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	req       AnalysisRequest
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, req AnalysisRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[req.ID] = memoryEntry{req: req, expiresAt: s.now().Add(TTL)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, id string, ownerID string) (AnalysisRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return AnalysisRequest{}, ErrExpired
	}
	delete(s.entries, id)
	if s.now().After(entry.expiresAt) {
		return AnalysisRequest{}, ErrExpired
	}
	if entry.req.OwnerID != ownerID {
		return AnalysisRequest{}, ErrOwnerMismatch
	}
	return entry.req, nil
}

var _ Store = (*MemoryStore)(nil)
