// internal/vehicle/repository.go
//
// Vehicle store access for the sync engine.
//
// Context:
//   - Three operations cover the whole write contract: snapshot the
//     active VIN set, upsert a batch keyed on the vin primary key, and
//     bulk soft-delete by VIN list.
//   - UpsertBatch writes one multi-row INSERT … AS new ON DUPLICATE KEY
//     UPDATE statement per batch, inside its own transaction, so a
//     batch lands atomically or not at all.  At the engine's batch size
//     of 1000 rows this stays far under MySQL's placeholder limit.
//   - DeactivateVINs touches is_active and nothing else.  Soft-deleted
//     rows keep every field for history and for reactivation when the
//     VIN returns in a later feed.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package vehicle

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repository wraps the `vehicle` table.
type Repository struct {
	db *sqlx.DB
}

// NewRepository binds a repository to a database handle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// upsertColumns lists every column written by UpsertBatch, in the
// order upsertArgs emits values.  created_at is left to its default.
var upsertColumns = []string{
	"vin", "year", "make", "model", "trim", "price", "miles",
	"vehicle_condition", "body_style", "image_urls", "primary_image_url",
	"total_photos", "transmission", "fuel_type", "drive",
	"exterior_color", "interior_color", "doors", "cylinders",
	"description", "options", "dealer_id", "dealer_name", "address",
	"city", "state", "zip", "url", "certified", "latitude", "longitude",
	"dma", "radius", "payout", "priority", "dol", "is_active", "last_sync",
}

func upsertArgs(v *Record) []any {
	return []any{
		v.VIN, v.Year, v.Make, v.Model, v.Trim, v.Price, v.Miles,
		v.Condition, v.BodyStyle, v.ImageURLs, v.PrimaryImageURL,
		v.TotalPhotos, v.Transmission, v.FuelType, v.Drive,
		v.ExteriorColor, v.InteriorColor, v.Doors, v.Cylinders,
		v.Description, v.Options, v.DealerID, v.DealerName, v.Address,
		v.City, v.State, v.Zip, v.URL, v.Certified, v.Latitude,
		v.Longitude, v.DMA, v.Radius, v.Payout, v.Priority, v.DOL,
		v.IsActive, v.LastSync,
	}
}

// ActiveVINs returns the set of VINs currently marked active.
func (r *Repository) ActiveVINs(ctx context.Context) (map[string]struct{}, error) {
	const q = `SELECT vin FROM vehicle WHERE is_active = 1`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("vehicle: active vins: %w", err)
	}
	defer rows.Close()

	vins := make(map[string]struct{})
	for rows.Next() {
		var vin string
		if err := rows.Scan(&vin); err != nil {
			return nil, fmt.Errorf("vehicle: active vins: %w", err)
		}
		vins[vin] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicle: active vins: %w", err)
	}
	return vins, nil
}

// UpsertBatch inserts or replaces every record in the batch, keyed on
// vin.  Each row written is active with a fresh last_sync.
func (r *Repository) UpsertBatch(ctx context.Context, batch []*Record) error {
	if len(batch) == 0 {
		return nil
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(upsertColumns)), ",") + ")"
	tuples := make([]string, len(batch))
	args := make([]any, 0, len(batch)*len(upsertColumns))
	for i, v := range batch {
		tuples[i] = tuple
		args = append(args, upsertArgs(v)...)
	}

	updates := make([]string, 0, len(upsertColumns)-1)
	for _, col := range upsertColumns {
		if col == "vin" {
			continue
		}
		updates = append(updates, col+" = new."+col)
	}

	q := "INSERT INTO vehicle (" + strings.Join(upsertColumns, ", ") + ") VALUES " +
		strings.Join(tuples, ",") +
		" AS new ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vehicle: upsert batch: begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("vehicle: upsert batch of %d: %w", len(batch), err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vehicle: upsert batch: commit: %w", err)
	}
	return nil
}

// DeactivateVINs soft-deletes the given VINs in one statement.  No
// other column is modified.
func (r *Repository) DeactivateVINs(ctx context.Context, vins []string) error {
	if len(vins) == 0 {
		return nil
	}

	q, args, err := sqlx.In(`UPDATE vehicle SET is_active = 0 WHERE vin IN (?)`, vins)
	if err != nil {
		return fmt.Errorf("vehicle: deactivate: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("vehicle: deactivate %d vins: %w", len(vins), err)
	}
	return nil
}
