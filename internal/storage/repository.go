package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	pq "github.com/lib/pq"

	"stocklens/internal/domain/models"
)

// WarehouseRepository defines the contract for warehouse access: read-only
// parameterized queries on the API path, plus the batch inserts used by the
// seed loader. Table names are validated identifiers taken from config;
// every value is bound as a query parameter, never interpolated.
type WarehouseRepository interface {
	ListActualSymbols(ctx context.Context) ([]string, error)
	ListForecastSymbols(ctx context.Context) ([]string, error)
	LoadActuals(ctx context.Context, symbol string) ([]models.ActualPoint, error)
	LoadForecast(ctx context.Context, symbol string) ([]models.ForecastPoint, error)
	InsertActualsBatch(records []models.ActualRecord) error
	InsertForecastBatch(records []models.ForecastRecord) error
}

type warehouseRepository struct {
	db            *sql.DB
	actualsTable  string
	forecastTable string
}

func NewWarehouseRepository(db *sql.DB, actualsTable, forecastTable string) WarehouseRepository {
	return &warehouseRepository{db: db, actualsTable: actualsTable, forecastTable: forecastTable}
}

// ListActualSymbols returns the raw symbol listing of the actuals table.
// No normalization happens here; the catalog owns that.
func (r *warehouseRepository) ListActualSymbols(ctx context.Context) ([]string, error) {
	return r.listSymbols(ctx, r.actualsTable)
}

// ListForecastSymbols returns the raw symbol listing of the forecast table.
func (r *warehouseRepository) ListForecastSymbols(ctx context.Context) ([]string, error) {
	return r.listSymbols(ctx, r.forecastTable)
}

func (r *warehouseRepository) listSymbols(ctx context.Context, table string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT symbol FROM %s WHERE symbol IS NOT NULL ORDER BY symbol`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list symbols from %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return out, nil
}

// LoadActuals returns the (date, close) series for one normalized symbol,
// ascending by date. Columns are read as text and coerced best-effort;
// rows whose date or close fail coercion are dropped, never defaulted.
// An empty result is valid (a symbol may have no price history yet).
func (r *warehouseRepository) LoadActuals(ctx context.Context, symbol string) ([]models.ActualPoint, error) {
	query := fmt.Sprintf(`
		SELECT dt::text, close::text
		FROM %s
		WHERE upper(btrim(symbol)) = $1
		ORDER BY dt
	`, r.actualsTable)

	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("load actuals for %s: %w", symbol, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ActualPoint
	for rows.Next() {
		var dt, cl sql.NullString
		if err := rows.Scan(&dt, &cl); err != nil {
			return nil, fmt.Errorf("scan actuals row: %w", err)
		}
		d, ok := coerceDate(dt)
		if !ok {
			continue
		}
		v, ok := coerceFloat(cl)
		if !ok {
			continue
		}
		out = append(out, models.ActualPoint{Date: d, Close: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actuals: %w", err)
	}

	sortActuals(out)
	return out, nil
}

// LoadForecast returns the forecast series for one normalized symbol,
// ascending by date. A row is kept when date and point estimate coerce
// successfully; lower/upper bounds are optional and carried verbatim when
// they coerce, nil otherwise. Bound ordering against the estimate is not
// checked.
func (r *warehouseRepository) LoadForecast(ctx context.Context, symbol string) ([]models.ForecastPoint, error) {
	query := fmt.Sprintf(`
		SELECT ds::text, yhat::text, yhat_lower::text, yhat_upper::text
		FROM %s
		WHERE upper(btrim(symbol)) = $1
		ORDER BY ds
	`, r.forecastTable)

	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("load forecast for %s: %w", symbol, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ForecastPoint
	for rows.Next() {
		var ds, yhat, lo, up sql.NullString
		if err := rows.Scan(&ds, &yhat, &lo, &up); err != nil {
			return nil, fmt.Errorf("scan forecast row: %w", err)
		}
		d, ok := coerceDate(ds)
		if !ok {
			continue
		}
		est, ok := coerceFloat(yhat)
		if !ok {
			continue
		}
		out = append(out, models.ForecastPoint{
			Date:     d,
			Estimate: est,
			Lower:    coerceOptFloat(lo),
			Upper:    coerceOptFloat(up),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forecast: %w", err)
	}

	sortForecast(out)
	return out, nil
}

// sortActuals re-establishes ascending date order after coercion. The query
// orders by the raw column, but a text date column may collate differently
// than the coerced values.
func sortActuals(pts []models.ActualPoint) {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
}

func sortForecast(pts []models.ForecastPoint) {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
}

// InsertActualsBatch inserts actuals rows in a single transaction via COPY.
func (r *warehouseRepository) InsertActualsBatch(records []models.ActualRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(r.actualsTable, "symbol", "dt", "close"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Symbol, rec.Date, rec.Close); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// InsertForecastBatch inserts forecast rows in a single transaction via COPY.
// Nil bounds become SQL NULLs.
func (r *warehouseRepository) InsertForecastBatch(records []models.ForecastRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(r.forecastTable, "symbol", "ds", "yhat", "yhat_lower", "yhat_upper"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	toNull := func(v *float64) interface{} {
		if v == nil {
			return nil
		}
		return *v
	}

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Symbol, rec.Date, rec.Estimate, toNull(rec.Lower), toNull(rec.Upper)); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
