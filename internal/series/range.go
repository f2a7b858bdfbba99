// Package series holds the pure range logic applied to loaded series:
// deriving selectable date bounds and windowing points to a chosen range.
package series

import (
	"errors"
	"time"

	"stocklens/internal/domain/models"
)

// ErrNoData signals that both series are empty for a symbol. The
// presentation layer renders this as "no data for symbol", not as a failure.
var ErrNoData = errors.New("no data for symbol")

// ComputeBounds derives the selectable date range for a symbol: the minimum
// date across both series as Start and the maximum as End. Either series may
// be empty; when both are, ErrNoData is returned.
func ComputeBounds(actuals []models.ActualPoint, forecast []models.ForecastPoint) (models.DateRange, error) {
	if len(actuals) == 0 && len(forecast) == 0 {
		return models.DateRange{}, ErrNoData
	}

	var r models.DateRange
	first := true
	extend := func(d time.Time) {
		if first {
			r.Start, r.End = d, d
			first = false
			return
		}
		if d.Before(r.Start) {
			r.Start = d
		}
		if d.After(r.End) {
			r.End = d
		}
	}

	for _, p := range actuals {
		extend(p.Date)
	}
	for _, p := range forecast {
		extend(p.Date)
	}
	return r, nil
}

// FilterActuals retains the points whose date lies within r (inclusive on
// both ends), preserving order. The source slice is never mutated and
// filtering an already-filtered series to the same range is a no-op.
func FilterActuals(pts []models.ActualPoint, r models.DateRange) []models.ActualPoint {
	out := make([]models.ActualPoint, 0, len(pts))
	for _, p := range pts {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// FilterForecast is FilterActuals for forecast points.
func FilterForecast(pts []models.ForecastPoint, r models.DateRange) []models.ForecastPoint {
	out := make([]models.ForecastPoint, 0, len(pts))
	for _, p := range pts {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}
