// internal/pipeline/engine_test.go
//
// Unit-tests for the diff and sync engine over an in-memory store.
//
// Run: go test ./internal/pipeline -v

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/autolane/autolane/internal/vehicle"
)

// memStore implements Store in memory and records every call so tests
// can assert batch boundaries and fail-fast behavior.
type memStore struct {
	rows        map[string]*vehicle.Record
	batches     [][]*vehicle.Record
	deactivated [][]string
	failBatch   int // 1-based batch number that returns an error, 0 = never
}

func newMemStore(activeVINs ...string) *memStore {
	s := &memStore{rows: make(map[string]*vehicle.Record)}
	for _, vin := range activeVINs {
		s.rows[vin] = &vehicle.Record{VIN: vin, IsActive: true}
	}
	return s
}

func (s *memStore) ActiveVINs(ctx context.Context) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for vin, r := range s.rows {
		if r.IsActive {
			set[vin] = struct{}{}
		}
	}
	return set, nil
}

func (s *memStore) UpsertBatch(ctx context.Context, batch []*vehicle.Record) error {
	s.batches = append(s.batches, batch)
	if s.failBatch != 0 && len(s.batches) == s.failBatch {
		return errors.New("deadlock found when trying to get lock")
	}
	for _, v := range batch {
		s.rows[v.VIN] = v
	}
	return nil
}

func (s *memStore) DeactivateVINs(ctx context.Context, vins []string) error {
	s.deactivated = append(s.deactivated, vins)
	for _, vin := range vins {
		if r, ok := s.rows[vin]; ok {
			r.IsActive = false
		}
	}
	return nil
}

func feedRecords(vins ...string) []*vehicle.Record {
	now := time.Now().UTC()
	records := make([]*vehicle.Record, len(vins))
	for i, vin := range vins {
		records[i] = &vehicle.Record{VIN: vin, IsActive: true, LastSync: now}
	}
	return records
}

func TestSyncClassifiesAgainstSnapshot(t *testing.T) {
	store := newMemStore("B1")
	engine := NewEngine(store)

	added, updated, removed, err := engine.Sync(context.Background(), feedRecords("A1", "A2"))
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if added != 2 || updated != 0 || removed != 1 {
		t.Fatalf("counts = %d/%d/%d, want added=2 updated=0 removed=1", added, updated, removed)
	}

	if len(store.deactivated) != 1 || len(store.deactivated[0]) != 1 || store.deactivated[0][0] != "B1" {
		t.Errorf("deactivated = %v, want exactly [B1]", store.deactivated)
	}
	if r := store.rows["B1"]; r.IsActive {
		t.Error("B1 still active after sync")
	}
	if r := store.rows["A1"]; r == nil || !r.IsActive {
		t.Error("A1 not active after sync")
	}
}

func TestSyncSecondRunIsIdempotent(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)
	feed := feedRecords("A1", "A2", "A3")

	if _, _, _, err := engine.Sync(context.Background(), feed); err != nil {
		t.Fatalf("first Sync error: %v", err)
	}

	added, updated, removed, err := engine.Sync(context.Background(), feed)
	if err != nil {
		t.Fatalf("second Sync error: %v", err)
	}
	if added != 0 || removed != 0 {
		t.Errorf("second run added=%d removed=%d, want both 0", added, removed)
	}
	if updated != 3 {
		t.Errorf("second run updated=%d, want every distinct VIN (3)", updated)
	}
}

func TestSyncReactivatesReturningVIN(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	// Run 1 sees B1; run 2 does not; run 3 sees it again.
	if _, _, _, err := engine.Sync(context.Background(), feedRecords("A1", "B1")); err != nil {
		t.Fatalf("run 1: %v", err)
	}
	if _, _, removed, err := engine.Sync(context.Background(), feedRecords("A1")); err != nil || removed != 1 {
		t.Fatalf("run 2 removed=%d err=%v, want removed=1", removed, err)
	}
	if store.rows["B1"].IsActive {
		t.Fatal("B1 active after run 2, want soft-deleted")
	}

	added, _, _, err := engine.Sync(context.Background(), feedRecords("A1", "B1"))
	if err != nil {
		t.Fatalf("run 3: %v", err)
	}
	if !store.rows["B1"].IsActive {
		t.Error("B1 not reactivated by run 3")
	}
	// B1 was inactive in the pre-run snapshot, so it counts as added.
	if added != 1 {
		t.Errorf("run 3 added=%d, want 1", added)
	}
}

func TestSyncBatchBoundaries(t *testing.T) {
	vins := make([]string, 2500)
	for i := range vins {
		vins[i] = fmt.Sprintf("VIN%04d", i)
	}
	store := newMemStore()
	engine := NewEngine(store)

	added, updated, removed, err := engine.Sync(context.Background(), feedRecords(vins...))
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if added != 2500 || updated != 0 || removed != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2500/0/0", added, updated, removed)
	}

	if len(store.batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(store.batches))
	}
	for i, want := range []int{1000, 1000, 500} {
		if len(store.batches[i]) != want {
			t.Errorf("batch %d size = %d, want %d", i+1, len(store.batches[i]), want)
		}
	}
}

func TestSyncBatchFailureFailsFast(t *testing.T) {
	vins := make([]string, 2500)
	for i := range vins {
		vins[i] = fmt.Sprintf("VIN%04d", i)
	}
	store := newMemStore()
	store.failBatch = 2
	engine := NewEngine(store)

	added, updated, removed, err := engine.Sync(context.Background(), feedRecords(vins...))

	var derr *DatabaseError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DatabaseError", err)
	}
	if len(store.batches) != 2 {
		t.Fatalf("batches attempted = %d, want 2 (third never tried)", len(store.batches))
	}
	if added != 1000 || updated != 0 {
		t.Errorf("committed counts = %d/%d, want 1000/0 from batch 1 only", added, updated)
	}
	if removed != 0 || len(store.deactivated) != 0 {
		t.Error("deactivation ran after a failed batch")
	}

	// Batch 1 stays committed.
	if r := store.rows["VIN0000"]; r == nil || !r.IsActive {
		t.Error("batch 1 rows lost after batch 2 failure")
	}
	if _, ok := store.rows["VIN2400"]; ok {
		t.Error("batch 3 rows written after batch 2 failure")
	}
}

func TestSyncDeactivationFailureKeepsCounts(t *testing.T) {
	store := newMemStore("B1")
	fail := &deactivateFailStore{memStore: store}
	engine := NewEngine(fail)

	added, _, removed, err := engine.Sync(context.Background(), feedRecords("A1"))
	var derr *DatabaseError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DatabaseError", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want committed upsert counted", added)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 after failed deactivation", removed)
	}
}

type deactivateFailStore struct {
	*memStore
}

func (s *deactivateFailStore) DeactivateVINs(ctx context.Context, vins []string) error {
	return errors.New("lock wait timeout exceeded")
}

func TestSyncCollapsesDuplicateVINs(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	records := feedRecords("A1", "A2", "A1")
	records[2].Price = 19995 // later duplicate wins

	added, updated, removed, err := engine.Sync(context.Background(), records)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if added != 2 || updated != 0 || removed != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/0/0 for distinct VINs", added, updated, removed)
	}
	if len(store.batches[0]) != 2 {
		t.Fatalf("batch size = %d, want duplicates collapsed", len(store.batches[0]))
	}
	if store.batches[0][0].VIN != "A1" || store.batches[0][1].VIN != "A2" {
		t.Errorf("batch order = %s,%s, want first-seen order kept",
			store.batches[0][0].VIN, store.batches[0][1].VIN)
	}
	if store.rows["A1"].Price != 19995 {
		t.Errorf("A1 price = %d, want last occurrence to win", store.rows["A1"].Price)
	}
}

func TestSyncEmptyFeedDeactivatesEverything(t *testing.T) {
	store := newMemStore("A1", "B1")
	engine := NewEngine(store)

	added, updated, removed, err := engine.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if added != 0 || updated != 0 || removed != 2 {
		t.Fatalf("counts = %d/%d/%d, want 0/0/2", added, updated, removed)
	}
	if len(store.batches) != 0 {
		t.Errorf("batches = %d, want none for empty feed", len(store.batches))
	}
}
