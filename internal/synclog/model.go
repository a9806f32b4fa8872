// internal/synclog/model.go
//
// Sync run audit row.

package synclog

import (
	"database/sql"
	"time"
)

// Entry mirrors one row of `vehicle_sync_log`.  Exactly one is written
// per run, successful or not.
type Entry struct {
	ID              int64          `db:"id"`
	RunID           string         `db:"run_id"`
	StartedAt       time.Time      `db:"started_at"`
	FinishedAt      time.Time      `db:"finished_at"`
	Added           int            `db:"added"`
	Updated         int            `db:"updated"`
	Removed         int            `db:"removed"`
	Success         bool           `db:"success"`
	ErrorText       sql.NullString `db:"error_text"`
	DurationSeconds int            `db:"duration_seconds"`
}
