package models

import "time"

// DateRange is a closed interval [Start, End] used to window a series.
// A single-date range (Start == End) is valid.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the closed interval.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Intersect narrows other to the overlap with r. When the two ranges do not
// overlap, the result has Start after End and contains no dates; filtering
// with it yields empty series rather than an error.
func (r DateRange) Intersect(other DateRange) DateRange {
	out := other
	if out.Start.Before(r.Start) {
		out.Start = r.Start
	}
	if out.End.After(r.End) {
		out.End = r.End
	}
	return out
}

// IsZero reports whether the range is the zero value.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
