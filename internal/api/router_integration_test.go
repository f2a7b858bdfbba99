//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"stocklens/config"
	"stocklens/internal/app"
	"stocklens/internal/domain/dto"
)

func startPG(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "stocklens",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stocklens sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "stocklens")
	terminate = func() { _ = c.Terminate(context.Background()) }
	return dsn, terminate
}

func openAndMigrate(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedForE2E(t *testing.T, db *sql.DB) {
	t.Helper()
	exec := func(q string, args ...interface{}) {
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	exec(`INSERT INTO stock_actuals (symbol, dt, close) VALUES ($1,$2,$3)`, "E2E", "2024-01-01", 101.0)
	exec(`INSERT INTO stock_actuals (symbol, dt, close) VALUES ($1,$2,$3)`, "E2E", "2024-01-02", 102.0)
	exec(`INSERT INTO stock_forecast (symbol, ds, yhat, yhat_lower, yhat_upper) VALUES ($1,$2,$3,$4,$5)`,
		"E2E", "2024-01-03", 105.0, 100.0, 110.0)
}

func TestAPI_E2E_Dashboard(t *testing.T) {
	dsn, term := startPG(t)
	defer term()
	db := openAndMigrate(t, dsn)
	defer db.Close()
	seedForE2E(t, db)

	// Point application config to the containerized DB
	config.AppConfig = config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Warehouse: config.WarehouseConfig{
			URL: dsn,
		},
		Dashboard: config.DashboardConfig{
			CatalogMode:   "union",
			ActualsTable:  "stock_actuals",
			ForecastTable: "stock_forecast",
			CacheTTL:      10 * time.Minute,
		},
	}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	t.Run("symbols", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/symbols", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
		}
		var body dto.SymbolsResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if len(body.Symbols) != 1 || body.Symbols[0] != "E2E" {
			t.Fatalf("unexpected symbols: %+v", body)
		}
	})

	t.Run("range", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/range?symbol=e2e", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
		}
		var body dto.RangeResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Symbol != "E2E" || body.Start != "2024-01-01" || body.End != "2024-01-03" {
			t.Fatalf("unexpected range: %+v", body)
		}
	})

	t.Run("dashboard with window", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?symbol=E2E&start=2024-01-02&end=2024-01-03", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
		}
		var body dto.DashboardResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Range.Start != "2024-01-02" || body.Range.End != "2024-01-03" {
			t.Fatalf("unexpected applied range: %+v", body.Range)
		}
		if len(body.Overlay.Lines) != 2 {
			t.Fatalf("expected both overlay lines, got %d", len(body.Overlay.Lines))
		}
		if body.Forecast.Band == nil {
			t.Fatalf("expected confidence band on forecast panel")
		}
	})

	t.Run("unknown symbol is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?symbol=NOPE", nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
		}
	})
}
