// Package databasetest opens throwaway in-memory databases for package tests.
package databasetest

import (
	"context"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/sportsday/app/database"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SchemaFunc creates part of the schema.
type SchemaFunc func(ctx context.Context, db bun.IDB) error

// NewSQLite opens a private in-memory SQLite database, applies schemas in
// order and closes the database when the test ends.
func NewSQLite(t testing.TB, schemas ...SchemaFunc) *bun.DB {
	t.Helper()
	ctx := context.Background()

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.Open(ctx, database.DriverSQLite, database.SQLiteMemoryDSN(name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, create := range schemas {
		if err := create(ctx, db); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
