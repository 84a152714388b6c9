package analysis

import (
	"context"
	"sort"
	"sync"
)

// MemoryRunsRepo is an in-memory RunsRepo for development and tests.
type MemoryRunsRepo struct {
	mu   sync.Mutex
	runs []Run
}

func NewMemoryRunsRepo() *MemoryRunsRepo {
	return &MemoryRunsRepo{}
}

func (r *MemoryRunsRepo) Insert(_ context.Context, run Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *MemoryRunsRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []Run
	for _, run := range r.runs {
		if run.OwnerID == ownerID {
			owned = append(owned, run)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

var _ RunsRepo = (*MemoryRunsRepo)(nil)
