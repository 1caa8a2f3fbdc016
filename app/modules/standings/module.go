package standings

import (
	"context"

	standingsservice "github.com/Black-And-White-Club/sportsday/app/modules/standings/application"
	standingshandlers "github.com/Black-And-White-Club/sportsday/app/modules/standings/infrastructure/handlers"
	standingsdb "github.com/Black-And-White-Club/sportsday/app/modules/standings/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the standings module.
type Module struct {
	Service  *standingsservice.StandingsService
	handlers *standingshandlers.StandingsHandlers
}

// NewStandingsModule creates and initializes a new standings module.
func NewStandingsModule(ctx context.Context, obs observability.Observability, db *bun.DB) *Module {
	obs.Logger.InfoContext(ctx, "standings.NewStandingsModule initializing")

	repo := standingsdb.NewRepository(db)
	service := standingsservice.NewStandingsService(repo, obs.Logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		Service:  service,
		handlers: standingshandlers.NewStandingsHandlers(service, obs.Logger),
	}
}

// Mount registers the module's routes on the /api router.
func (m *Module) Mount(r chi.Router) {
	m.handlers.Mount(r)
}
