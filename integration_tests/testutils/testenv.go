//go:build integration

package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/sportsday/app"
	"github.com/Black-And-White-Club/sportsday/app/database"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/config"
	"github.com/Black-And-White-Club/sportsday/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds the resources shared by a package's integration tests.
type TestEnvironment struct {
	Ctx         context.Context
	Cancel      context.CancelFunc
	PgContainer *postgres.PostgresContainer
	DB          *bun.DB
	Config      *config.Config
}

// NewTestEnvironment starts Postgres, connects through pgx and migrates the schema.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, connStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	db, err := database.Open(ctx, database.DriverPGX, connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{
		Ctx:         ctx,
		Cancel:      cancel,
		PgContainer: pgContainer,
		DB:          db,
		Config: &config.Config{
			Database: config.DatabaseConfig{Driver: database.DriverPGX, DSN: connStr},
		},
	}, nil
}

// NewApp wires a fresh application over the shared database after emptying
// every table.
func (env *TestEnvironment) NewApp(t *testing.T) *app.App {
	t.Helper()
	if err := CleanAllTables(env.Ctx, env.DB); err != nil {
		t.Fatalf("clean tables: %v", err)
	}
	obs, err := observability.New(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	if err != nil {
		t.Fatalf("observability: %v", err)
	}
	return app.NewAppWithDB(env.Ctx, env.Config, env.DB, obs)
}

// Cleanup closes the database and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(context.Background())
	}
	env.Cancel()
}
