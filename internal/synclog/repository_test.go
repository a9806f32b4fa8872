// internal/synclog/repository_test.go
//
// Unit-tests for the audit log repository using sqlmock.
//
// Run: go test ./internal/synclog -v

package synclog

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	started := time.Date(2026, 8, 21, 6, 0, 0, 0, time.UTC)
	finished := started.Add(42 * time.Second)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO vehicle_sync_log (run_id, started_at, finished_at, added, updated, removed, success, error_text, duration_seconds) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)).
		WithArgs("5e0ee37a-0000-0000-0000-000000000001", started, finished,
			2, 0, 1, true, nil, 42).
		WillReturnResult(sqlmock.NewResult(7, 1))

	entry := &Entry{
		RunID:           "5e0ee37a-0000-0000-0000-000000000001",
		StartedAt:       started,
		FinishedAt:      finished,
		Added:           2,
		Removed:         1,
		Success:         true,
		DurationSeconds: 42,
	}
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if entry.ID != 7 {
		t.Errorf("ID = %d, want backfilled 7", entry.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsertCarriesErrorText(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vehicle_sync_log`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			0, 0, 0, false, "feed: download x: unexpected status 500", 3).
		WillReturnResult(sqlmock.NewResult(8, 1))

	entry := &Entry{
		RunID:           "run-2",
		Success:         false,
		ErrorText:       sql.NullString{String: "feed: download x: unexpected status 500", Valid: true},
		DurationSeconds: 3,
	}
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRecent(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "run_id", "started_at", "finished_at", "added",
		"updated", "removed", "success", "error_text", "duration_seconds"}
	now := time.Date(2026, 8, 21, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, run_id, started_at, finished_at, added, updated, removed, success, error_text, duration_seconds FROM vehicle_sync_log ORDER BY started_at DESC, id DESC LIMIT ?`,
	)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(9, "run-9", now, now.Add(30*time.Second), 12, 4080, 3, true, nil, 30).
			AddRow(8, "run-8", now.Add(-6*time.Hour), now.Add(-6*time.Hour+time.Minute), 0, 0, 0, false, "feed: archive broken", 60))

	got, err := repo.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].RunID != "run-9" || got[0].Updated != 4080 || !got[0].Success {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if got[0].ErrorText.Valid {
		t.Errorf("entry 0 error_text = %+v, want NULL", got[0].ErrorText)
	}
	if !got[1].ErrorText.Valid || got[1].ErrorText.String != "feed: archive broken" {
		t.Errorf("entry 1 error_text = %+v", got[1].ErrorText)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
