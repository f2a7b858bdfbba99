package chart

import (
	"testing"
	"time"

	"stocklens/internal/domain/models"
)

func d(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }

func f64(v float64) *float64 { return &v }

func TestAssembleOverlay(t *testing.T) {
	actuals := []models.ActualPoint{{Date: d(1), Close: 100}, {Date: d(2), Close: 102}}
	forecast := []models.ForecastPoint{{Date: d(3), Estimate: 105}}

	cases := []struct {
		name      string
		actuals   []models.ActualPoint
		forecast  []models.ForecastPoint
		wantLines int
	}{
		{name: "both series", actuals: actuals, forecast: forecast, wantLines: 2},
		{name: "actuals only", actuals: actuals, wantLines: 1},
		{name: "forecast only", forecast: forecast, wantLines: 1},
		{name: "both empty", wantLines: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := AssembleOverlay("AAPL", tc.actuals, tc.forecast)
			if len(o.Lines) != tc.wantLines {
				t.Fatalf("want %d lines, got %d", tc.wantLines, len(o.Lines))
			}
			for _, l := range o.Lines {
				if len(l.Dates) != len(l.Values) {
					t.Fatalf("parallel arrays out of sync: %+v", l)
				}
				// only the forecast line is dashed
				if l.Name == "Forecast" && !l.Dash {
					t.Fatalf("forecast line should be dashed")
				}
				if l.Name == "Actual Close" && l.Dash {
					t.Fatalf("actual line should be solid")
				}
			}
		})
	}
}

func TestAssembleActualsPanel(t *testing.T) {
	p := AssembleActualsPanel("AAPL", nil)
	if !p.Empty || p.Message == "" || p.Line != nil {
		t.Fatalf("expected placeholder state, got %+v", p)
	}

	p = AssembleActualsPanel("AAPL", []models.ActualPoint{{Date: d(1), Close: 100}})
	if p.Empty || p.Line == nil {
		t.Fatalf("expected chart state, got %+v", p)
	}
	if p.Line.Dates[0] != "2024-01-01" || p.Line.Values[0] != 100 {
		t.Fatalf("unexpected line data %+v", p.Line)
	}
}

func TestAssembleForecastPanel_Band(t *testing.T) {
	cases := []struct {
		name     string
		forecast []models.ForecastPoint
		empty    bool
		wantBand bool
		bandLen  int
	}{
		{
			name:  "empty series is placeholder",
			empty: true,
		},
		{
			name:     "all points bounded",
			forecast: []models.ForecastPoint{{Date: d(1), Estimate: 101, Lower: f64(99), Upper: f64(103)}, {Date: d(2), Estimate: 102, Lower: f64(100), Upper: f64(104)}},
			wantBand: true,
			bandLen:  2,
		},
		{
			name:     "band covers only fully bounded points",
			forecast: []models.ForecastPoint{{Date: d(1), Estimate: 101, Lower: f64(99), Upper: f64(103)}, {Date: d(2), Estimate: 102, Lower: f64(100)}},
			wantBand: true,
			bandLen:  1,
		},
		{
			name:     "no bounds no band",
			forecast: []models.ForecastPoint{{Date: d(1), Estimate: 101}},
			wantBand: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := AssembleForecastPanel("AAPL", tc.forecast)
			if tc.empty {
				if !p.Empty || p.Line != nil || p.Band != nil {
					t.Fatalf("expected placeholder, got %+v", p)
				}
				return
			}
			if p.Empty || p.Line == nil {
				t.Fatalf("expected chart state, got %+v", p)
			}
			if p.Line.Dash {
				t.Fatalf("solo forecast line should be solid")
			}
			if (p.Band != nil) != tc.wantBand {
				t.Fatalf("band presence=%v, want %v", p.Band != nil, tc.wantBand)
			}
			if tc.wantBand {
				if len(p.Band.Dates) != tc.bandLen || len(p.Band.Lower) != tc.bandLen || len(p.Band.Upper) != tc.bandLen {
					t.Fatalf("band arrays wrong length: %+v", p.Band)
				}
			}
		})
	}
}

func TestDiagnose(t *testing.T) {
	actuals := []models.ActualPoint{{Date: d(1), Close: 100}}
	forecast := []models.ForecastPoint{
		{Date: d(1), Estimate: 101, Lower: f64(99), Upper: f64(103)},
		{Date: d(2), Estimate: 102, Upper: f64(104)},
		{Date: d(3), Estimate: 103},
	}
	got := Diagnose(actuals, forecast)
	want := Diagnostics{ActualRows: 1, ForecastRows: 3, MissingLower: 2, MissingUpper: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
