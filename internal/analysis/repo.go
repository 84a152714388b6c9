package analysis

import "context"

// RunsRepo persists analysis run audit records.
type RunsRepo interface {
	Insert(ctx context.Context, run Run) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Run, error)
}
