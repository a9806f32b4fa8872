// internal/feed/mapper.go
//
// Raw row to vehicle record conversion.
//
// Context:
//   - MapRecord is total over well-formed and malformed rows alike.  A
//     bad cell resolves to the field's documented fallback, never to an
//     error; the only way to lose a row is the drop rule for rows with
//     neither a VIN nor a dealer identity, which covers blank trailing
//     lines in the export.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import (
	"strings"
	"time"

	"github.com/autolane/autolane/internal/vehicle"
)

// MapRecord converts one raw row into a store-ready vehicle record.  It
// returns ok=false when the row carries neither a VIN nor a dealer ID.
// Mapped records are always active with LastSync set to now.
func MapRecord(rec Record, now time.Time) (*vehicle.Record, bool) {
	vin := strings.TrimSpace(rec.VIN)
	dealerID := strings.TrimSpace(rec.DealerID)
	if vin == "" && dealerID == "" {
		return nil, false
	}

	urls := splitImageURLs(rec.ImageURLs)
	primary := ""
	if len(urls) > 0 {
		primary = urls[0]
	}
	var joined string
	if len(urls) > 0 {
		joined = strings.Join(urls, ",")
	}

	v := &vehicle.Record{
		VIN:             vin,
		Year:            parseIntOrZero(rec.Year),
		Make:            optionalText(rec.Make),
		Model:           optionalText(rec.Model),
		Trim:            optionalText(rec.Trim),
		Price:           parseIntOrZero(rec.Price),
		Miles:           parseIntOrZero(rec.Miles),
		Condition:       optionalText(rec.Condition),
		BodyStyle:       optionalText(rec.BodyStyle),
		ImageURLs:       optionalText(joined),
		PrimaryImageURL: primary,
		TotalPhotos:     len(urls),
		Transmission:    optionalText(rec.Transmission),
		FuelType:        optionalText(rec.FuelType),
		Drive:           optionalText(rec.Drive),
		ExteriorColor:   optionalText(rec.ExteriorColor),
		InteriorColor:   optionalText(rec.InteriorColor),
		Doors:           optionalText(rec.Doors),
		Cylinders:       optionalText(rec.Cylinders),
		Description:     optionalText(rec.Description),
		Options:         optionalText(rec.Options),
		DealerID:        optionalText(rec.DealerID),
		DealerName:      optionalText(rec.DealerName),
		Address:         optionalText(rec.Address),
		City:            optionalText(rec.City),
		State:           optionalText(rec.State),
		Zip:             optionalText(rec.Zip),
		URL:             optionalText(rec.URL),
		Certified:       parseBoolFlag(rec.Certified),
		Latitude:        parseOptionalFloat(rec.Latitude),
		Longitude:       parseOptionalFloat(rec.Longitude),
		DMA:             optionalText(rec.DMA),
		Radius:          parseOptionalInt(rec.Radius),
		Payout:          parseOptionalInt(rec.Payout),
		Priority:        parseOptionalInt(rec.Priority),
		DOL:             parseOptionalInt(rec.DOL),
		IsActive:        true,
		LastSync:        now,
	}
	return v, true
}
