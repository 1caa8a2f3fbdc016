// Package database opens the bun handle for the configured driver.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPG     = "pg"
	DriverPGX    = "pgx"
	DriverSQLite = "sqlite"
)

// Open connects to dsn with the named driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	var db *bun.DB
	switch driver {
	case "", DriverPG:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverPGX:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pgx dsn: %w", err)
		}
		db = bun.NewDB(stdlib.OpenDB(*cfg), pgdialect.New())
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// A single connection keeps in-memory databases alive and serialises writers.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// SQLiteMemoryDSN returns a DSN for a private in-memory SQLite database with
// foreign keys enforced.
func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}
