package analysis

import (
	"context"
	"database/sql"
)

// PGRunsRepo implements RunsRepo on Postgres.
type PGRunsRepo struct {
	DB *sql.DB
}

func (r *PGRunsRepo) Insert(ctx context.Context, run Run) error {
	const query = `
INSERT INTO analysis_runs (id, owner_id, mode, status, error, duration_ms, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	var errMsg sql.NullString
	if run.Error != "" {
		errMsg = sql.NullString{String: run.Error, Valid: true}
	}
	var completedAt sql.NullTime
	if run.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *run.CompletedAt, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		run.ID,
		run.OwnerID,
		run.Mode,
		run.Status,
		errMsg,
		run.DurationMs,
		run.CreatedAt,
		completedAt,
	)
	return err
}

func (r *PGRunsRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Run, error) {
	const query = `
SELECT id, owner_id, mode, status, error, duration_ms, created_at, completed_at
FROM analysis_runs
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var errMsg sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.OwnerID, &run.Mode, &run.Status, &errMsg, &run.DurationMs, &run.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		if completedAt.Valid {
			t := completedAt.Time
			run.CompletedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

var _ RunsRepo = (*PGRunsRepo)(nil)
