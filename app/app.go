package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/sportsday/app/database"
	"github.com/Black-And-White-Club/sportsday/app/modules/audit"
	"github.com/Black-And-White-Club/sportsday/app/modules/entry"
	"github.com/Black-And-White-Club/sportsday/app/modules/registry"
	"github.com/Black-And-White-Club/sportsday/app/modules/standings"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/config"
	"github.com/uptrace/bun"
)

// App wires the database, observability and every module together.
type App struct {
	Config  *config.Config
	DB      *bun.DB
	Obs     observability.Observability
	Modules Modules
}

// Modules holds the initialized application modules.
type Modules struct {
	Audit     *audit.Module
	Registry  *registry.Module
	Entry     *entry.Module
	Standings *standings.Module
}

// NewApp opens the configured database and initializes the application.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	obs, err := observability.New(logger, cfg.Metrics.Enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return NewAppWithDB(ctx, cfg, db, obs), nil
}

// NewAppWithDB initializes the application over an already open database.
func NewAppWithDB(ctx context.Context, cfg *config.Config, db *bun.DB, obs observability.Observability) *App {
	auditModule := audit.NewAuditModule(ctx, obs, db)
	registryModule := registry.NewRegistryModule(ctx, obs, db, auditModule.Service)
	entryModule := entry.NewEntryModule(ctx, obs, db, registryModule.Repository, auditModule.Service)
	standingsModule := standings.NewStandingsModule(ctx, obs, db)

	return &App{
		Config: cfg,
		DB:     db,
		Obs:    obs,
		Modules: Modules{
			Audit:     auditModule,
			Registry:  registryModule,
			Entry:     entryModule,
			Standings: standingsModule,
		},
	}
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
