package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"stocklens/internal/cache"
	"stocklens/internal/catalog"
	"stocklens/internal/chart"
	"stocklens/internal/domain/models"
	"stocklens/internal/series"
	"stocklens/internal/storage"
)

// Dashboard is the assembled result for one (symbol, range) interaction:
// derived bounds, the range actually applied after clamping, three chart
// specs, and diagnostics for the debug panel.
type Dashboard struct {
	Symbol   string
	Bounds   models.DateRange
	Applied  models.DateRange
	Overlay  chart.Overlay
	Actuals  chart.Panel
	Forecast chart.Panel
	Debug    chart.Diagnostics
}

// DashboardService is the business logic behind the API: symbol catalog
// retrieval, cached series snapshots, bounds derivation, range filtering,
// and chart assembly. Every interaction recomputes top to bottom; the only
// state is the TTL cache.
type DashboardService interface {
	Symbols(ctx context.Context) ([]string, error)
	Bounds(ctx context.Context, symbol string) (models.DateRange, error)
	Dashboard(ctx context.Context, symbol string, start, end *time.Time) (*Dashboard, error)
}

type dashboardService struct {
	repo  storage.WarehouseRepository
	store *cache.Store
	mode  catalog.Mode
}

func NewDashboardService(repo storage.WarehouseRepository, store *cache.Store, mode catalog.Mode) DashboardService {
	return &dashboardService{repo: repo, store: store, mode: mode}
}

// Symbols returns the selectable symbol catalog for the configured mode.
// Within the freshness window repeated calls serve the cached catalog.
func (s *dashboardService) Symbols(ctx context.Context) ([]string, error) {
	key := cache.Key("symbols", string(s.mode))
	if v, ok := s.store.Get(key); ok {
		return v.([]string), nil
	}

	var listings [][]string
	switch s.mode {
	case catalog.ModeUnion:
		var actuals, forecast []string
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if actuals, err = s.repo.ListActualSymbols(gctx); err != nil {
				return fmt.Errorf("actual symbols: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if forecast, err = s.repo.ListForecastSymbols(gctx); err != nil {
				return fmt.Errorf("forecast symbols: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		listings = [][]string{actuals, forecast}
	default:
		forecast, err := s.repo.ListForecastSymbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("forecast symbols: %w", err)
		}
		listings = [][]string{forecast}
	}

	symbols := catalog.Build(listings...)
	s.store.Set(key, symbols)
	return symbols, nil
}

// loadActuals serves a per-symbol actuals snapshot, memoized for the TTL.
func (s *dashboardService) loadActuals(ctx context.Context, symbol string) ([]models.ActualPoint, error) {
	key := cache.Key("actuals", symbol)
	if v, ok := s.store.Get(key); ok {
		return v.([]models.ActualPoint), nil
	}
	pts, err := s.repo.LoadActuals(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load actuals: %w", err)
	}
	s.store.Set(key, pts)
	return pts, nil
}

func (s *dashboardService) loadForecast(ctx context.Context, symbol string) ([]models.ForecastPoint, error) {
	key := cache.Key("forecast", symbol)
	if v, ok := s.store.Get(key); ok {
		return v.([]models.ForecastPoint), nil
	}
	pts, err := s.repo.LoadForecast(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load forecast: %w", err)
	}
	s.store.Set(key, pts)
	return pts, nil
}

// loadBoth fetches the two series concurrently; each side hits the cache
// independently so a symbol change only refetches what expired.
func (s *dashboardService) loadBoth(ctx context.Context, symbol string) ([]models.ActualPoint, []models.ForecastPoint, error) {
	var (
		actuals  []models.ActualPoint
		forecast []models.ForecastPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		actuals, err = s.loadActuals(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = s.loadForecast(gctx, symbol)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return actuals, forecast, nil
}

// Bounds derives the selectable date range for a symbol. Returns
// series.ErrNoData when the symbol has neither actuals nor forecast rows.
func (s *dashboardService) Bounds(ctx context.Context, symbol string) (models.DateRange, error) {
	sym := catalog.Normalize(symbol)
	actuals, forecast, err := s.loadBoth(ctx, sym)
	if err != nil {
		return models.DateRange{}, err
	}
	return series.ComputeBounds(actuals, forecast)
}

// Dashboard loads both series for the symbol, derives bounds, clamps the
// requested range into them (nil start/end default to the full bounds), and
// assembles the three chart specs plus diagnostics from the filtered series.
func (s *dashboardService) Dashboard(ctx context.Context, symbol string, start, end *time.Time) (*Dashboard, error) {
	sym := catalog.Normalize(symbol)
	actuals, forecast, err := s.loadBoth(ctx, sym)
	if err != nil {
		return nil, err
	}

	bounds, err := series.ComputeBounds(actuals, forecast)
	if err != nil {
		return nil, err
	}

	requested := bounds
	if start != nil {
		requested.Start = *start
	}
	if end != nil {
		requested.End = *end
	}
	applied := bounds.Intersect(requested)

	fa := series.FilterActuals(actuals, applied)
	ff := series.FilterForecast(forecast, applied)

	return &Dashboard{
		Symbol:   sym,
		Bounds:   bounds,
		Applied:  applied,
		Overlay:  chart.AssembleOverlay(sym, fa, ff),
		Actuals:  chart.AssembleActualsPanel(sym, fa),
		Forecast: chart.AssembleForecastPanel(sym, ff),
		Debug:    chart.Diagnose(fa, ff),
	}, nil
}
