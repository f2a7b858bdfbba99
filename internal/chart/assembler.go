// Package chart turns filtered series into declarative view specs. Nothing
// here performs I/O or caching; a rendering layer (web UI, notebook, TUI)
// consumes the structures as-is.
package chart

import (
	"fmt"

	"stocklens/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Line is a single series drawn against a shared time axis, expressed as
// parallel date/value arrays.
type Line struct {
	Name   string    `json:"name"`
	Dash   bool      `json:"dash,omitempty"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// Band is a filled region between lower and upper forecast bounds, drawn
// under the estimate line.
type Band struct {
	Dates []string  `json:"dates"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// Overlay is the combined actuals/forecast view: zero, one or two lines on
// one time axis depending on which series are non-empty.
type Overlay struct {
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

// Panel is a single-series view. When the series is empty the panel is a
// placeholder state carrying a message instead of a chart.
type Panel struct {
	Title   string `json:"title"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
	Line    *Line  `json:"line,omitempty"`
	Band    *Band  `json:"band,omitempty"`
}

// Diagnostics backs the optional debug panel: row counts after filtering
// and how many kept forecast rows are missing each bound.
type Diagnostics struct {
	ActualRows   int `json:"actual_rows"`
	ForecastRows int `json:"forecast_rows"`
	MissingLower int `json:"missing_lower"`
	MissingUpper int `json:"missing_upper"`
}

func actualLine(pts []models.ActualPoint) *Line {
	l := &Line{Name: "Actual Close", Dates: make([]string, 0, len(pts)), Values: make([]float64, 0, len(pts))}
	for _, p := range pts {
		l.Dates = append(l.Dates, p.Date.Format(dateLayout))
		l.Values = append(l.Values, p.Close)
	}
	return l
}

func forecastLine(pts []models.ForecastPoint, dash bool) *Line {
	l := &Line{Name: "Forecast", Dash: dash, Dates: make([]string, 0, len(pts)), Values: make([]float64, 0, len(pts))}
	for _, p := range pts {
		l.Dates = append(l.Dates, p.Date.Format(dateLayout))
		l.Values = append(l.Values, p.Estimate)
	}
	return l
}

// AssembleOverlay builds the combined view: a solid actuals line and a
// dashed forecast line, each included only when its series is non-empty.
func AssembleOverlay(symbol string, actuals []models.ActualPoint, forecast []models.ForecastPoint) Overlay {
	o := Overlay{Title: fmt.Sprintf("Actual vs Forecast — %s", symbol)}
	if len(actuals) > 0 {
		o.Lines = append(o.Lines, *actualLine(actuals))
	}
	if len(forecast) > 0 {
		o.Lines = append(o.Lines, *forecastLine(forecast, true))
	}
	return o
}

// AssembleActualsPanel builds the actuals-only view, or a placeholder state
// when the filtered series is empty.
func AssembleActualsPanel(symbol string, actuals []models.ActualPoint) Panel {
	p := Panel{Title: fmt.Sprintf("Actual Close — %s", symbol)}
	if len(actuals) == 0 {
		p.Empty = true
		p.Message = fmt.Sprintf("No actuals found for %q in selected date range.", symbol)
		return p
	}
	p.Line = actualLine(actuals)
	return p
}

// AssembleForecastPanel builds the forecast view: the estimate line, plus a
// confidence band covering the points that carry both bounds. When no point
// carries both bounds the band is omitted; when the series is empty the
// panel is a placeholder state.
func AssembleForecastPanel(symbol string, forecast []models.ForecastPoint) Panel {
	p := Panel{Title: fmt.Sprintf("Forecast — %s", symbol)}
	if len(forecast) == 0 {
		p.Empty = true
		p.Message = fmt.Sprintf("No forecast data for %q in selected date range.", symbol)
		return p
	}
	p.Line = forecastLine(forecast, false)

	var b Band
	for _, pt := range forecast {
		if pt.Lower == nil || pt.Upper == nil {
			continue
		}
		b.Dates = append(b.Dates, pt.Date.Format(dateLayout))
		b.Lower = append(b.Lower, *pt.Lower)
		b.Upper = append(b.Upper, *pt.Upper)
	}
	if len(b.Dates) > 0 {
		p.Band = &b
	}
	return p
}

// Diagnose summarizes the filtered series for the debug panel.
func Diagnose(actuals []models.ActualPoint, forecast []models.ForecastPoint) Diagnostics {
	d := Diagnostics{ActualRows: len(actuals), ForecastRows: len(forecast)}
	for _, pt := range forecast {
		if pt.Lower == nil {
			d.MissingLower++
		}
		if pt.Upper == nil {
			d.MissingUpper++
		}
	}
	return d
}
