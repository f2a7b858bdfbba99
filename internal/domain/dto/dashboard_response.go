package dto

import "stocklens/internal/chart"

// SymbolsResponse is the JSON structure returned by GET /api/v1/symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols" example:"AAPL,MSFT"`
}

// RangeWindow is a date interval on the API surface, dates as YYYY-MM-DD.
type RangeWindow struct {
	Start string `json:"start" example:"2024-01-01"`
	End   string `json:"end" example:"2024-06-30"`
}

// RangeResponse is returned by GET /api/v1/range. It gives a front end the
// selectable bounds for a symbol before it requests any charts.
type RangeResponse struct {
	Symbol string `json:"symbol" example:"AAPL"`
	RangeWindow
}

// DashboardResponse is the full payload for GET /api/v1/dashboard: derived
// bounds, the range actually applied after clamping, three declarative chart
// specs, and diagnostics for the debug panel.
//
// Fields match the API contract and may differ from internal domain models.
type DashboardResponse struct {
	Symbol   string            `json:"symbol" example:"AAPL"`
	Bounds   RangeWindow       `json:"bounds"`
	Range    RangeWindow       `json:"range"`
	Overlay  chart.Overlay     `json:"overlay"`
	Actuals  chart.Panel       `json:"actuals"`
	Forecast chart.Panel       `json:"forecast"`
	Debug    chart.Diagnostics `json:"debug"`
}
