// cmd/feedsync/main.go
//
// Autolane feed synchroniser – CLI entry point.
//
// Run life-cycle
// --------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load config (YAML → env overrides → Vault refs) and fail fast on
//     any missing credential, before any network activity.
//
//  4. Open the vehicle store and bootstrap the schema.
//
//  5. Dispatch on flags:
//
//     • -history N  – print the last N audit rows and exit.
//     • -daemon     – run on sync.interval under errgroup, together
//       with the ops listener; SIGINT/SIGTERM stops between runs.
//     • default     – one sync run; exit 0 on success, 1 on failure,
//       2 when another run already holds the lock.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autolane/autolane/internal/config"
	"github.com/autolane/autolane/internal/database"
	"github.com/autolane/autolane/internal/logger"
	"github.com/autolane/autolane/internal/ops"
	"github.com/autolane/autolane/internal/pipeline"
	"github.com/autolane/autolane/internal/synclog"
)

const serverEnvPath = "/usr/local/etc/autolane/feedsync.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

func init() { loadEnv() }

func main() {
	daemon := flag.Bool("daemon", false, "run continuously on sync.interval")
	history := flag.Int("history", 0, "print the last N sync runs and exit")
	flag.Parse()

	logOut, err := logger.New(config.RootDir(), isatty.IsTerminal(os.Stdout.Fd()))
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalw("configuration invalid", "err", err)
	}

	//
	// ── 1.  Vehicle store connect + schema bootstrap ────────────────────
	//
	db, err := database.OpenWithOptions(ctx, cfg.Store.ResolvedDSN(), database.Options{PingRetries: 2})
	if err != nil {
		logOut.Fatalw("vehicle store unavailable", "err", err)
	}
	defer db.Close()
	logOut.Infow("vehicle store online")

	if err := database.Migrate(ctx, db); err != nil {
		logOut.Fatalw("schema bootstrap failed", "err", err)
	}

	//
	// ── 2.  Mode dispatch ───────────────────────────────────────────────
	//
	switch {
	case *history > 0:
		if err := printHistory(ctx, db, *history); err != nil {
			logOut.Fatalw("history listing failed", "err", err)
		}

	case *daemon:
		if err := runDaemon(cfg, db, logOut); err != nil {
			logOut.Fatalw("daemon exited", "err", err)
		}

	default:
		code := runOnce(cfg, db)
		logOut.Sync()
		db.Close()
		os.Exit(code)
	}
}

// runOnce performs a single sync run and maps its outcome to an exit
// code.  Signals are not observed; a started run always finishes.
func runOnce(cfg *config.Config, db *sqlx.DB) int {
	runner := pipeline.NewRunner(cfg, db)

	_, err := runner.Run(context.Background())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, database.ErrLockBusy):
		return 2
	default:
		return 1
	}
}

// runDaemon runs the pipeline on a fixed interval, first run immediate.
// The ops listener rides in the same errgroup when configured.  A
// termination signal stops the loop between runs; runs in flight are
// never cancelled.
func runDaemon(cfg *config.Config, db *sqlx.DB, logOut *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, db)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Ops.ListenAddr != "" {
		srv := ops.New(cfg.Ops.ListenAddr, db)
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Sync.Interval)
		defer ticker.Stop()

		logOut.Infow("daemon online", "interval", cfg.Sync.Interval.String())
		for {
			// Run gets a fresh background context on purpose: a sync in
			// flight is never cancelled, only the wait between runs is.
			if _, err := runner.Run(context.Background()); err != nil && !errors.Is(err, database.ErrLockBusy) {
				logOut.Errorw("scheduled run failed", "err", err)
			}

			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	err := g.Wait()
	logOut.Infow("daemon stopped")
	return err
}

// printHistory renders the latest audit rows, newest first.
func printHistory(ctx context.Context, db *sqlx.DB, n int) error {
	entries, err := synclog.NewRepository(db).Recent(ctx, n)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Started", "Dur", "Added", "Updated", "Removed", "OK", "Error"})
	for _, e := range entries {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}
		errText := ""
		if e.ErrorText.Valid {
			errText = truncate(e.ErrorText.String, 48)
		}
		t.AppendRow(table.Row{
			shortID(e.RunID),
			e.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%ds", e.DurationSeconds),
			e.Added, e.Updated, e.Removed,
			ok, errText,
		})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate caps s at n runes, never splitting a multibyte character.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
