// internal/synclog/repository.go
//
// Append-only audit log access.
//
// Context:
//   - Insert is called exactly once per run by the runner, after the
//     pipeline finished or died.  Nothing in this package decides
//     whether the run counts as a success; it records what it is given.
//   - Recent feeds the operator history listing, newest first.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package synclog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository wraps the `vehicle_sync_log` table.
type Repository struct {
	db *sqlx.DB
}

// NewRepository binds a repository to a database handle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one audit row and backfills e.ID.
func (r *Repository) Insert(ctx context.Context, e *Entry) error {
	const q = `
        INSERT INTO vehicle_sync_log
               (run_id, started_at, finished_at, added, updated, removed,
                success, error_text, duration_seconds)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		e.RunID, e.StartedAt, e.FinishedAt, e.Added, e.Updated, e.Removed,
		e.Success, e.ErrorText, e.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("synclog: insert: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// Recent returns the newest limit entries, most recent first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `
        SELECT id, run_id, started_at, finished_at, added, updated, removed,
               success, error_text, duration_seconds
        FROM   vehicle_sync_log
        ORDER  BY started_at DESC, id DESC
        LIMIT  ?`

	var rows []Entry
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("synclog: recent: %w", err)
	}
	return rows, nil
}
