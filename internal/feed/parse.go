// internal/feed/parse.go
//
// Cell parsing helpers.
//
// Context:
//   - Absence handling is deliberately asymmetric.  Price, year, and
//     miles fall back to 0 when the cell is junk; days-on-lot, radius,
//     payout, and priority fall back to NULL, because for those fields
//     0 is a real value ("listed today") and must stay distinct from
//     "unknown".  Do not unify these helpers.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import (
	"database/sql"
	"strconv"
	"strings"
)

// parseBoolFlag reads a feed truth flag.  Only "true", "1", and "yes"
// count, case-insensitively; everything else, including empty, is false.
func parseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// parseIntOrZero reads a numeric cell, taking the whole part of decimal
// text, and falls back to 0 when nothing parses.
func parseIntOrZero(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseOptionalInt reads a non-negative integer cell.  "0" is the
// number zero; empty, non-numeric, or negative cells are NULL.
func parseOptionalInt(s string) sql.NullInt64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

// parseOptionalFloat reads a coordinate cell, NULL when empty or junk.
func parseOptionalFloat(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// optionalText trims a cell and maps empty to NULL rather than "".
func optionalText(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// splitImageURLs splits a comma-separated URL list, trimming entries
// and dropping empties.
func splitImageURLs(s string) []string {
	parts := strings.Split(s, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
