// internal/vehicle/model.go
//
// Canonical vehicle listing row.
//
// Context:
//   - VIN is the natural key; the store holds at most one row per VIN
//     across every feed run, alive or soft-deleted.
//   - Nullable columns use database/sql null types rather than empty
//     strings or zero sentinels, because the marketplace tier reading
//     this table treats NULL and "" differently.  `vehicle_condition`
//     is named around the MySQL reserved word.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package vehicle

import (
	"database/sql"
	"time"
)

// Record mirrors one row of the `vehicle` table.
type Record struct {
	VIN             string          `db:"vin"`
	Year            int             `db:"year"`
	Make            sql.NullString  `db:"make"`
	Model           sql.NullString  `db:"model"`
	Trim            sql.NullString  `db:"trim"`
	Price           int             `db:"price"`
	Miles           int             `db:"miles"`
	Condition       sql.NullString  `db:"vehicle_condition"`
	BodyStyle       sql.NullString  `db:"body_style"`
	ImageURLs       sql.NullString  `db:"image_urls"`
	PrimaryImageURL string          `db:"primary_image_url"`
	TotalPhotos     int             `db:"total_photos"`
	Transmission    sql.NullString  `db:"transmission"`
	FuelType        sql.NullString  `db:"fuel_type"`
	Drive           sql.NullString  `db:"drive"`
	ExteriorColor   sql.NullString  `db:"exterior_color"`
	InteriorColor   sql.NullString  `db:"interior_color"`
	Doors           sql.NullString  `db:"doors"`
	Cylinders       sql.NullString  `db:"cylinders"`
	Description     sql.NullString  `db:"description"`
	Options         sql.NullString  `db:"options"`
	DealerID        sql.NullString  `db:"dealer_id"`
	DealerName      sql.NullString  `db:"dealer_name"`
	Address         sql.NullString  `db:"address"`
	City            sql.NullString  `db:"city"`
	State           sql.NullString  `db:"state"`
	Zip             sql.NullString  `db:"zip"`
	URL             sql.NullString  `db:"url"`
	Certified       bool            `db:"certified"`
	Latitude        sql.NullFloat64 `db:"latitude"`
	Longitude       sql.NullFloat64 `db:"longitude"`
	DMA             sql.NullString  `db:"dma"`
	Radius          sql.NullInt64   `db:"radius"`
	Payout          sql.NullInt64   `db:"payout"`
	Priority        sql.NullInt64   `db:"priority"`
	DOL             sql.NullInt64   `db:"dol"`
	IsActive        bool            `db:"is_active"`
	LastSync        time.Time       `db:"last_sync"`
	CreatedAt       time.Time       `db:"created_at"`
}
