// internal/database/database.go
//
// MySQL connection bootstrap for the feed synchroniser.
//
// Context:
//   - Opens a pooled sqlx handle and verifies it with a ping before
//     the caller sees it.  A database that cannot be reached at boot is
//     a fatal condition, not something to limp past.
//   - Pool sizing defaults are modest.  The pipeline is a single
//     sequential worker, so it needs a handful of connections at most:
//     one for the advisory lock, one for the batch writes, and a spare.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Options tunes the connection pool.  Zero values fall back to the
// package defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// PingRetries is the number of additional ping attempts made when
	// the first one fails, with PingBackoff between attempts.
	PingRetries int
	PingBackoff time.Duration
}

const (
	defaultMaxOpen     = 8
	defaultMaxIdle     = 4
	defaultLifetime    = 30 * time.Minute
	defaultPingBackoff = 2 * time.Second
)

// Open connects with default pool options.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, Options{})
}

// OpenWithOptions connects to MySQL, applies pool settings, and pings
// until the database answers or the retries are exhausted.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultMaxOpen
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultMaxIdle
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaultLifetime
	}
	if opts.PingBackoff <= 0 {
		opts.PingBackoff = defaultPingBackoff
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := pingWithRetry(ctx, db, opts.PingRetries, opts.PingBackoff); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return db, nil
}

func pingWithRetry(ctx context.Context, db *sqlx.DB, retries int, backoff time.Duration) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt >= retries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
