// internal/pipeline/engine.go
//
// Diff and sync engine.
//
// Context:
//   - One run reconciles the mapped feed against the store in three
//     moves: snapshot the active VIN set, upsert the feed in fixed
//     batches, then soft-delete every snapshot VIN the feed no longer
//     carries.  Added/updated classification always compares against
//     the pre-run snapshot, never against post-write state, so a VIN
//     cannot be counted twice within a run.
//   - Batches run sequentially and fail fast.  A failed batch abandons
//     the rest of the run; batches already committed stay committed,
//     and the partial state heals on the next run because the whole
//     operation is idempotent per VIN.
//   - Duplicate VINs inside one feed collapse to the last occurrence
//     before batching, keeping first-seen order.  Without this the
//     same VIN could land in two batches and skew the counts.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/autolane/autolane/internal/vehicle"
)

// BatchSize is the number of records written per upsert statement.
const BatchSize = 1000

// Store is the slice of the vehicle repository the engine depends on.
type Store interface {
	ActiveVINs(ctx context.Context) (map[string]struct{}, error)
	UpsertBatch(ctx context.Context, batch []*vehicle.Record) error
	DeactivateVINs(ctx context.Context, vins []string) error
}

// DatabaseError marks a store failure during sync.  Counts accumulated
// before the failure remain valid.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("pipeline: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Engine reconciles mapped feed records against the vehicle store.
type Engine struct {
	store Store
}

// NewEngine builds an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Sync writes the feed and soft-deletes the leftovers.  The returned
// counts reflect work actually committed, even when err is non-nil.
func (e *Engine) Sync(ctx context.Context, records []*vehicle.Record) (added, updated, removed int, err error) {
	active, err := e.store.ActiveVINs(ctx)
	if err != nil {
		return 0, 0, 0, &DatabaseError{Op: "active snapshot", Err: err}
	}

	records = dedupeByVIN(records)
	feed := make(map[string]struct{}, len(records))
	for _, v := range records {
		feed[v.VIN] = struct{}{}
	}

	batches := (len(records) + BatchSize - 1) / BatchSize
	for start := 0; start < len(records); start += BatchSize {
		end := min(start+BatchSize, len(records))
		batch := records[start:end]
		n := start/BatchSize + 1

		if err := e.store.UpsertBatch(ctx, batch); err != nil {
			return added, updated, removed,
				&DatabaseError{Op: fmt.Sprintf("upsert batch %d of %d", n, batches), Err: err}
		}
		for _, v := range batch {
			if _, ok := active[v.VIN]; ok {
				updated++
			} else {
				added++
			}
		}
		zap.S().Debugw("batch committed", "batch", n, "of", batches, "rows", len(batch))
	}

	gone := make([]string, 0)
	for vin := range active {
		if _, ok := feed[vin]; !ok {
			gone = append(gone, vin)
		}
	}
	sort.Strings(gone)

	if len(gone) > 0 {
		if err := e.store.DeactivateVINs(ctx, gone); err != nil {
			return added, updated, removed, &DatabaseError{Op: "deactivate removed", Err: err}
		}
		removed = len(gone)
	}

	zap.S().Infow("store reconciled",
		"added", added,
		"updated", updated,
		"removed", removed,
		"batches", batches,
	)
	return added, updated, removed, nil
}

// dedupeByVIN collapses repeated VINs to their last occurrence while
// keeping first-seen order.
func dedupeByVIN(records []*vehicle.Record) []*vehicle.Record {
	index := make(map[string]int, len(records))
	out := make([]*vehicle.Record, 0, len(records))
	for _, v := range records {
		if i, ok := index[v.VIN]; ok {
			out[i] = v
			continue
		}
		index[v.VIN] = len(out)
		out = append(out, v)
	}
	return out
}
