// internal/pipeline/runner.go
//
// Run orchestration: download, extract, parse, map, sync, log.
//
// Context:
//   - Run owns the whole lifecycle of one sync.  It takes the advisory
//     run lock, walks the stages in order, and no matter which stage
//     died it writes exactly one audit row before returning.  A failed
//     audit write is logged and swallowed so it can never mask the
//     error that actually killed the run.
//   - The one exception is a busy lock: another sync is mid-flight and
//     will write its own audit row, so this invocation records nothing
//     and returns database.ErrLockBusy for the caller to map to its
//     "skipped" handling.
//   - Scratch files are removed as each stage finishes with them,
//     best-effort.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/autolane/autolane/internal/config"
	"github.com/autolane/autolane/internal/database"
	"github.com/autolane/autolane/internal/feed"
	"github.com/autolane/autolane/internal/metrics"
	"github.com/autolane/autolane/internal/synclog"
	"github.com/autolane/autolane/internal/vehicle"
)

// Runner wires the feed client, the sync engine, and the audit log
// into a single Run operation.
type Runner struct {
	publisher string
	db        *sqlx.DB
	client    *feed.Client
	engine    *Engine
	logs      *synclog.Repository
}

// NewRunner builds a runner from configuration and a database handle.
func NewRunner(cfg *config.Config, db *sqlx.DB) *Runner {
	base := cfg.Feed.Host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Runner{
		publisher: cfg.Feed.PublisherID,
		db:        db,
		client: feed.NewClient(feed.ClientOptions{
			BaseURL:     base,
			Username:    cfg.Feed.Username,
			Password:    cfg.Feed.Password,
			PublisherID: cfg.Feed.PublisherID,
			ScratchDir:  cfg.Paths.ScratchDir,
		}),
		engine: NewEngine(vehicle.NewRepository(db)),
		logs:   synclog.NewRepository(db),
	}
}

// Run executes one complete sync run.  Every outcome except a busy
// run lock leaves one row in vehicle_sync_log.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	log := zap.S().With("run_id", res.RunID)
	log.Infow("sync run starting", "publisher", r.publisher)

	lock, err := database.AcquireRunLock(ctx, r.db, database.LockName)
	if err != nil {
		if errors.Is(err, database.ErrLockBusy) {
			log.Warnw("sync already running, skipping")
			return nil, err
		}
		res.FinishedAt = time.Now().UTC()
		res.Errors = append(res.Errors, err.Error())
		r.record(ctx, res, log)
		return res, err
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			log.Warnw("run lock release failed", "err", err)
		}
	}()

	runErr := r.execute(ctx, res, log)
	res.FinishedAt = time.Now().UTC()
	if runErr != nil {
		res.Errors = append(res.Errors, runErr.Error())
	}
	res.Success = runErr == nil

	r.record(ctx, res, log)
	return res, runErr
}

// execute walks the pipeline stages, filling counts as they commit.
func (r *Runner) execute(ctx context.Context, res *Result, log *zap.SugaredLogger) error {
	archive, err := r.client.Download(ctx)
	if err != nil {
		return err
	}
	defer r.cleanup(archive, log)

	data, err := feed.ExtractArchive(archive)
	if err != nil {
		return err
	}
	defer r.cleanup(data, log)

	sc, err := feed.OpenScanner(data)
	if err != nil {
		return err
	}
	defer sc.Close()

	now := time.Now().UTC()
	var records []*vehicle.Record
	dropped := 0
	for sc.Next() {
		if v, ok := feed.MapRecord(sc.Record(), now); ok {
			records = append(records, v)
		} else {
			dropped++
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	log.Infow("feed parsed",
		"records", len(records),
		"dropped", dropped,
		"unreadable", sc.Skipped(),
	)

	added, updated, removed, err := r.engine.Sync(ctx, records)
	res.Added, res.Updated, res.Removed = added, updated, removed
	return err
}

// record writes the audit row, updates the run instruments, and logs
// the summary.  Failures here are logged only.
func (r *Runner) record(ctx context.Context, res *Result, log *zap.SugaredLogger) {
	entry := &synclog.Entry{
		RunID:           res.RunID,
		StartedAt:       res.StartedAt,
		FinishedAt:      res.FinishedAt,
		Added:           res.Added,
		Updated:         res.Updated,
		Removed:         res.Removed,
		Success:         res.Success,
		DurationSeconds: res.DurationSeconds(),
	}
	if text := res.ErrorText(); text != "" {
		entry.ErrorText = sql.NullString{String: text, Valid: true}
	}
	if err := r.logs.Insert(ctx, entry); err != nil {
		log.Errorw("audit row write failed", "err", err)
	}

	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	metrics.RunsTotal.WithLabelValues(outcome).Inc()
	metrics.VehiclesAddedTotal.Add(float64(res.Added))
	metrics.VehiclesUpdatedTotal.Add(float64(res.Updated))
	metrics.VehiclesRemovedTotal.Add(float64(res.Removed))
	metrics.LastRunDurationSeconds.Set(res.Duration().Seconds())
	metrics.LastRunTimestamp.Set(float64(res.FinishedAt.Unix()))

	if res.Success {
		log.Infow("sync run finished",
			"added", res.Added,
			"updated", res.Updated,
			"removed", res.Removed,
			"duration", res.Duration().Round(time.Second).String(),
		)
	} else {
		log.Errorw("sync run failed",
			"added", res.Added,
			"updated", res.Updated,
			"removed", res.Removed,
			"duration", res.Duration().Round(time.Second).String(),
			"err", res.ErrorText(),
		)
	}
}

func (r *Runner) cleanup(path string, log *zap.SugaredLogger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnw("scratch cleanup failed", "file", path, "err", err)
	}
}
