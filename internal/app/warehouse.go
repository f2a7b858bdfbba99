package app

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"stocklens/config"
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open.
var sqlOpener = sql.Open

// InitWarehouse opens a connection pool against the warehouse using the DSN
// computed at config load time (schema and role travel as session options in
// the DSN, so every pooled connection picks them up).
//
// Returns the live pool after a successful ping, or an error if opening or
// pinging fails.
func InitWarehouse(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Warehouse.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	return db, nil
}

// warehouseOpener is an indirection used by InitializeApp; overridden in
// tests to avoid real connections.
var warehouseOpener = InitWarehouse
