package storage

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used across the warehouse tables
// and the API surface.
const DateLayout = "2006-01-02"

// coerceDate best-effort parses a text date cell. Timestamp-shaped values
// are accepted by reading their leading date part; anything else fails the
// coercion and the caller drops the row.
func coerceDate(ns sql.NullString) (time.Time, bool) {
	if !ns.Valid {
		return time.Time{}, false
	}
	s := strings.TrimSpace(ns.String)
	if len(s) < len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// coerceFloat best-effort parses a text numeric cell. NULL, unparseable,
// NaN and infinite values all fail the coercion.
func coerceFloat(ns sql.NullString) (float64, bool) {
	if !ns.Valid {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(ns.String), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// coerceOptFloat is coerceFloat for optional columns: failure yields nil
// rather than dropping the row.
func coerceOptFloat(ns sql.NullString) *float64 {
	v, ok := coerceFloat(ns)
	if !ok {
		return nil
	}
	return &v
}
