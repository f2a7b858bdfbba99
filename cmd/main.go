package main

//
//  @title           stocklens API
//  @version         1.0
//  @description     Stock actuals vs forecast dashboard data service.
//  @termsOfService  https://github.com/stocklens
//  @contact.name    API Support
//  @contact.url     https://github.com/stocklens
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        symbols
//  @tag.description Endpoints for the selectable symbol catalog
//
//  @tag.name        range
//  @tag.description Endpoints for selectable date ranges
//
//  @tag.name        dashboard
//  @tag.description Endpoints for chart assembly
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocklens/config"
	_ "stocklens/docs" // swagger docs
	"stocklens/internal/app"
	"stocklens/internal/logger"
	"stocklens/internal/seed"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and runs the cleanup callback
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the stocklens application.
//
// Modes (selected via --mode flag):
//   - api:  Starts the REST API serving the dashboard endpoints.
//   - seed: Loads actuals/forecast CSV files into the warehouse tables.
//
// Flags:
//   - --mode:     Execution mode ("api" or "seed"). Default: "api".
//   - --actuals:  Path to the actuals CSV for seed mode.
//   - --forecast: Path to the forecast CSV for seed mode.
//   - --port:     Port for the API server. Defaults to config (SERVER_PORT).
func main() {
	ctx := context.Background()

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or seed")
	actuals := flag.String("actuals", "", "Path to actuals CSV (seed mode)")
	forecast := flag.String("forecast", "", "Path to forecast CSV (seed mode)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "seed":
		logger.L().Info().Msg("running seed")
		if *actuals == "" && *forecast == "" {
			logger.L().Fatal().Msg("seed mode needs --actuals and/or --forecast")
		}

		db, err := app.InitWarehouse(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("warehouse connect error")
		}
		defer func() { _ = db.Close() }()

		cfg := config.AppConfig.Dashboard
		if err := seed.Run(ctx, db, *actuals, *forecast, cfg.ActualsTable, cfg.ForecastTable); err != nil {
			logger.L().Fatal().Err(err).Msg("seed failed")
		}
		logger.L().Info().Msg("seed completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
