//go:build integration

package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	auditmigrations "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories/migrations"
	registrymigrations "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// appTables lists every application table, children first.
var appTables = []string{
	"logs", "school_points", "results", "event_participants", "events", "categories",
	"participant_ranks", "ranks", "sports", "participants", "classes", "teachers", "schools",
}

// RunMigrations applies every module's migrations in dependency order.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"registry", registrymigrations.Migrations},
		{"audit", auditmigrations.Migrations},
	}

	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName(mod.name+"_migrations"),
			migrate.WithLocksTableName(mod.name+"_migration_locks"),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migrations: %w", mod.name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		if group.IsZero() {
			log.Printf("No %s migrations to run", mod.name)
		} else {
			log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
		}
	}
	return nil
}

// TruncateTables empties the given tables and resets their identity sequences.
func TruncateTables(ctx context.Context, db bun.IDB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf("%q", table)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanAllTables empties every application table.
func CleanAllTables(ctx context.Context, db bun.IDB) error {
	return TruncateTables(ctx, db, appTables...)
}
