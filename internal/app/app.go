package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"stocklens/config"
	"stocklens/internal/api"
	"stocklens/internal/cache"
	"stocklens/internal/catalog"
	"stocklens/internal/service"
	"stocklens/internal/storage"
)

// InitializeApp sets up all application dependencies and returns a fully
// configured Gin router, a cleanup function for graceful shutdown, and any
// error encountered during initialization.
//
// Responsibilities:
//   - Connects to the warehouse using InitWarehouse().
//   - Initializes the repository layer over the configured tables.
//   - Creates the TTL query cache and the dashboard service.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	db, err := warehouseOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize warehouse: %w", err)
	}

	mode, err := catalog.ParseMode(cfg.Dashboard.CatalogMode)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to parse catalog mode: %w", err)
	}

	repo := storage.NewWarehouseRepository(db, cfg.Dashboard.ActualsTable, cfg.Dashboard.ForecastTable)
	store := cache.New(cfg.Dashboard.CacheTTL)
	svc := service.NewDashboardService(repo, store, mode)

	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
