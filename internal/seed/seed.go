package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"stocklens/internal/logger"
	"stocklens/internal/storage"
)

const defaultBatchSize = 5000

// repoCtor is an indirection for creating the repository; tests override it.
var repoCtor = func(db *sql.DB, actualsTable, forecastTable string) storage.WarehouseRepository {
	return storage.NewWarehouseRepository(db, actualsTable, forecastTable)
}

// Run loads the actuals and forecast CSV files into the warehouse tables.
// An empty path skips that side. The two files load concurrently; the first
// error cancels the other side and is returned.
//
// Rows whose required cells fail coercion are skipped and counted, matching
// the read path's drop-don't-default policy.
func Run(ctx context.Context, db *sql.DB, actualsPath, forecastPath, actualsTable, forecastTable string) error {
	repo := repoCtor(db, actualsTable, forecastTable)

	g, gctx := errgroup.WithContext(ctx)

	if actualsPath != "" {
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(actualsPath)
			logger.L().Info().Str("file", base).Msg("actuals seed start")
			inserted, skipped, err := parseActualsFile(gctx, actualsPath, repo, defaultBatchSize)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("actuals seed failed")
				return err
			}
			logger.L().Info().Str("file", base).Int("rows", inserted).Int("skipped", skipped).Dur("elapsed", time.Since(start)).Msg("actuals seed done")
			return nil
		})
	}

	if forecastPath != "" {
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(forecastPath)
			logger.L().Info().Str("file", base).Msg("forecast seed start")
			inserted, skipped, err := parseForecastFile(gctx, forecastPath, repo, defaultBatchSize)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("forecast seed failed")
				return err
			}
			logger.L().Info().Str("file", base).Int("rows", inserted).Int("skipped", skipped).Dur("elapsed", time.Since(start)).Msg("forecast seed done")
			return nil
		})
	}

	return g.Wait()
}
