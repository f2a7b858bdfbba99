package series

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"stocklens/internal/domain/models"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func f64(v float64) *float64 { return &v }

func TestComputeBounds_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		actuals  []models.ActualPoint
		forecast []models.ForecastPoint
		want     models.DateRange
		wantErr  bool
	}{
		{
			name: "union across both series",
			actuals: []models.ActualPoint{
				{Date: d(2024, 1, 1), Close: 100},
				{Date: d(2024, 1, 2), Close: 102},
			},
			forecast: []models.ForecastPoint{
				{Date: d(2024, 1, 1), Estimate: 101, Lower: f64(99), Upper: f64(103)},
				{Date: d(2024, 1, 3), Estimate: 105, Lower: f64(100), Upper: f64(110)},
			},
			want: models.DateRange{Start: d(2024, 1, 1), End: d(2024, 1, 3)},
		},
		{
			name:    "actuals only",
			actuals: []models.ActualPoint{{Date: d(2024, 2, 10), Close: 50}},
			want:    models.DateRange{Start: d(2024, 2, 10), End: d(2024, 2, 10)},
		},
		{
			name:     "forecast only",
			forecast: []models.ForecastPoint{{Date: d(2024, 3, 5), Estimate: 7}},
			want:     models.DateRange{Start: d(2024, 3, 5), End: d(2024, 3, 5)},
		},
		{
			name: "forecast extends start before actuals",
			actuals: []models.ActualPoint{
				{Date: d(2024, 6, 1), Close: 10},
			},
			forecast: []models.ForecastPoint{
				{Date: d(2024, 5, 1), Estimate: 9},
			},
			want: models.DateRange{Start: d(2024, 5, 1), End: d(2024, 6, 1)},
		},
		{
			name:    "both empty signals no data",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeBounds(tc.actuals, tc.forecast)
			if tc.wantErr {
				if !errors.Is(err, ErrNoData) {
					t.Fatalf("expected ErrNoData, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %+v err=%v, want %+v", got, err, tc.want)
			}
		})
	}
}

func TestFilter_SpecScenario(t *testing.T) {
	actuals := []models.ActualPoint{
		{Date: d(2024, 1, 1), Close: 100},
		{Date: d(2024, 1, 2), Close: 102},
	}
	forecast := []models.ForecastPoint{
		{Date: d(2024, 1, 1), Estimate: 101, Lower: f64(99), Upper: f64(103)},
		{Date: d(2024, 1, 3), Estimate: 105, Lower: f64(100), Upper: f64(110)},
	}

	bounds, err := ComputeBounds(actuals, forecast)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if bounds.Start != d(2024, 1, 1) || bounds.End != d(2024, 1, 3) {
		t.Fatalf("unexpected bounds %+v", bounds)
	}

	r := models.DateRange{Start: d(2024, 1, 2), End: d(2024, 1, 3)}
	fa := FilterActuals(actuals, r)
	if len(fa) != 1 || fa[0].Date != d(2024, 1, 2) || fa[0].Close != 102 {
		t.Fatalf("unexpected filtered actuals %+v", fa)
	}
	ff := FilterForecast(forecast, r)
	if len(ff) != 1 || ff[0].Date != d(2024, 1, 3) || ff[0].Estimate != 105 {
		t.Fatalf("unexpected filtered forecast %+v", ff)
	}
	if *ff[0].Lower != 100 || *ff[0].Upper != 110 {
		t.Fatalf("bounds not carried through: %+v", ff[0])
	}

	// source slices untouched
	if len(actuals) != 2 || len(forecast) != 2 {
		t.Fatalf("filter mutated its input")
	}
}

func TestFilter_Idempotent(t *testing.T) {
	pts := []models.ActualPoint{
		{Date: d(2024, 1, 1), Close: 1},
		{Date: d(2024, 1, 5), Close: 2},
		{Date: d(2024, 1, 9), Close: 3},
	}
	r := models.DateRange{Start: d(2024, 1, 2), End: d(2024, 1, 9)}

	once := FilterActuals(pts, r)
	twice := FilterActuals(once, r)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %v vs %v", once, twice)
	}
}

func TestFilter_SingleDateRange(t *testing.T) {
	pts := []models.ActualPoint{
		{Date: d(2024, 1, 1), Close: 1},
		{Date: d(2024, 1, 2), Close: 2},
	}
	r := models.DateRange{Start: d(2024, 1, 2), End: d(2024, 1, 2)}
	got := FilterActuals(pts, r)
	if len(got) != 1 || got[0].Close != 2 {
		t.Fatalf("single-date range: got %+v", got)
	}
}

func TestFilter_EmptyIntersection(t *testing.T) {
	bounds := models.DateRange{Start: d(2024, 1, 1), End: d(2024, 1, 31)}
	requested := models.DateRange{Start: d(2025, 1, 1), End: d(2025, 1, 31)}
	applied := bounds.Intersect(requested)

	pts := []models.ActualPoint{{Date: d(2024, 1, 15), Close: 1}}
	if got := FilterActuals(pts, applied); len(got) != 0 {
		t.Fatalf("expected empty result for disjoint range, got %+v", got)
	}
}

func TestIntersect_ClampsToBounds(t *testing.T) {
	bounds := models.DateRange{Start: d(2024, 1, 10), End: d(2024, 1, 20)}
	requested := models.DateRange{Start: d(2024, 1, 1), End: d(2024, 1, 31)}
	got := bounds.Intersect(requested)
	if got != bounds {
		t.Fatalf("expected clamp to bounds, got %+v", got)
	}
}
