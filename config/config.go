package config

import (
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	WAREHOUSE_HOST=localhost
//	WAREHOUSE_PORT=5432
//	WAREHOUSE_USER=analyst
//	WAREHOUSE_PASSWORD=secret
//	WAREHOUSE_DB=marketdata
//	WAREHOUSE_SCHEMA=public
//	WAREHOUSE_ROLE=readonly
//	WAREHOUSE_SSLMODE=disable
//	CATALOG_MODE=union
//	ACTUALS_TABLE=stock_actuals
//	FORECAST_TABLE=stock_forecast
//	CACHE_TTL_SECONDS=600
type Config struct {
	Server    ServerConfig
	Warehouse WarehouseConfig
	Dashboard DashboardConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string // TCP port the HTTP server listens on (e.g., "8080")
}

// WarehouseConfig defines connection details for the data warehouse.
// Credentials come from the environment (or an external secret store that
// populates it); nothing is hard-coded. Schema and Role are optional and
// applied as session settings through the DSN.
type WarehouseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Schema   string
	Role     string
	SSLMode  string
	URL      string // computed DSN used by database/sql
}

// DashboardConfig holds the dashboard's behavior knobs: which tables back
// the two series, how the symbol catalog is derived, and the freshness
// window of the query cache.
type DashboardConfig struct {
	CatalogMode   string // "forecast" or "union"
	ActualsTable  string
	ForecastTable string
	CacheTTL      time.Duration
}

// AppConfig is the globally accessible configuration instance, populated
// once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (lowest to highest): defaults, .env file (if present),
// environment variables. Missing required values terminate the process via
// validateConfig().
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("WAREHOUSE_HOST", "localhost")
	viper.SetDefault("WAREHOUSE_PORT", 5432)
	viper.SetDefault("WAREHOUSE_USER", "postgres")
	viper.SetDefault("WAREHOUSE_PASSWORD", "postgres")
	viper.SetDefault("WAREHOUSE_DB", "marketdata")
	viper.SetDefault("WAREHOUSE_SCHEMA", "")
	viper.SetDefault("WAREHOUSE_ROLE", "")
	viper.SetDefault("WAREHOUSE_SSLMODE", "disable")

	viper.SetDefault("CATALOG_MODE", "union")
	viper.SetDefault("ACTUALS_TABLE", "stock_actuals")
	viper.SetDefault("FORECAST_TABLE", "stock_forecast")
	viper.SetDefault("CACHE_TTL_SECONDS", 600)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Warehouse: WarehouseConfig{
			Host:     viper.GetString("WAREHOUSE_HOST"),
			Port:     viper.GetInt("WAREHOUSE_PORT"),
			User:     viper.GetString("WAREHOUSE_USER"),
			Password: viper.GetString("WAREHOUSE_PASSWORD"),
			DBName:   viper.GetString("WAREHOUSE_DB"),
			Schema:   viper.GetString("WAREHOUSE_SCHEMA"),
			Role:     viper.GetString("WAREHOUSE_ROLE"),
			SSLMode:  viper.GetString("WAREHOUSE_SSLMODE"),
		},
		Dashboard: DashboardConfig{
			CatalogMode:   strings.ToLower(strings.TrimSpace(viper.GetString("CATALOG_MODE"))),
			ActualsTable:  viper.GetString("ACTUALS_TABLE"),
			ForecastTable: viper.GetString("FORECAST_TABLE"),
			CacheTTL:      time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
	}

	AppConfig.Warehouse.URL = buildDSN(AppConfig.Warehouse)

	validateConfig()
}

// buildDSN constructs the warehouse DSN. Schema and role become per-session
// settings via the options parameter so every pooled connection picks them
// up, not just the first one.
func buildDSN(w WarehouseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(w.User, w.Password),
		Host:   w.Host + ":" + strconv.Itoa(w.Port),
		Path:   "/" + w.DBName,
	}

	q := url.Values{}
	q.Set("sslmode", w.SSLMode)
	options := ""
	if w.Schema != "" {
		options = "-csearch_path=" + w.Schema
	}
	if w.Role != "" {
		if options != "" {
			options += " "
		}
		options += "-crole=" + w.Role
	}
	if options != "" {
		q.Set("options", options)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// identPattern restricts configured table names to plain SQL identifiers.
// Table names are the only config values interpolated into query text, so
// they are locked down here once at startup.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateConfig ensures required variables are present and well-formed,
// terminating the application when they are not. This avoids unexpected
// runtime failures due to incomplete configuration.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Warehouse.Host == "" {
		missing = append(missing, "WAREHOUSE_HOST")
	}
	if AppConfig.Warehouse.Port == 0 {
		missing = append(missing, "WAREHOUSE_PORT")
	}
	if AppConfig.Warehouse.User == "" {
		missing = append(missing, "WAREHOUSE_USER")
	}
	if AppConfig.Warehouse.Password == "" {
		missing = append(missing, "WAREHOUSE_PASSWORD")
	}
	if AppConfig.Warehouse.DBName == "" {
		missing = append(missing, "WAREHOUSE_DB")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v", missing)
	}

	mode := AppConfig.Dashboard.CatalogMode
	if mode != "forecast" && mode != "union" {
		log.Fatalf("invalid CATALOG_MODE %q: want \"forecast\" or \"union\"", mode)
	}
	if !identPattern.MatchString(AppConfig.Dashboard.ActualsTable) {
		log.Fatalf("invalid ACTUALS_TABLE %q: must be a plain SQL identifier", AppConfig.Dashboard.ActualsTable)
	}
	if !identPattern.MatchString(AppConfig.Dashboard.ForecastTable) {
		log.Fatalf("invalid FORECAST_TABLE %q: must be a plain SQL identifier", AppConfig.Dashboard.ForecastTable)
	}
}
