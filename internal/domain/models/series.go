package models

import "time"

// ActualPoint is one observed closing price for a symbol.
//
// Invariants (enforced by the storage layer):
//   - Date is a valid calendar date.
//   - Close is a finite number. Rows whose date or close fail coercion are
//     dropped during load, never defaulted.
type ActualPoint struct {
	Date  time.Time
	Close float64
}

// ForecastPoint is one predicted value with optional confidence bounds.
//
// Lower/Upper are nil when the source row carries no bound for that side.
// When present they are passed through verbatim: the ordering
// lower <= estimate <= upper is NOT validated by this system.
type ForecastPoint struct {
	Date     time.Time
	Estimate float64
	Lower    *float64
	Upper    *float64
}

// ActualRecord is a symbol-qualified actuals row, used by the seed loader
// and batch inserts. The API path works with per-symbol ActualPoint slices.
type ActualRecord struct {
	Symbol string
	Date   time.Time
	Close  float64
}

// ForecastRecord is a symbol-qualified forecast row for the seed loader.
type ForecastRecord struct {
	Symbol   string
	Date     time.Time
	Estimate float64
	Lower    *float64
	Upper    *float64
}
