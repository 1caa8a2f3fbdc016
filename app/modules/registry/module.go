package registry

import (
	"context"

	registryservice "github.com/Black-And-White-Club/sportsday/app/modules/registry/application"
	registryhandlers "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/handlers"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the registry module.
type Module struct {
	Repository *registrydb.Repository
	Service    *registryservice.Service
	handlers   *registryhandlers.RegistryHandlers
}

// NewRegistryModule creates and initializes a new registry module. audit may
// be nil.
func NewRegistryModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	audit registryservice.Auditor,
) *Module {
	obs.Logger.InfoContext(ctx, "registry.NewRegistryModule initializing")

	repo := registrydb.NewRepository(db)
	service := registryservice.NewRegistryService(repo, audit, obs.Logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		Repository: repo,
		Service:    service,
		handlers:   registryhandlers.NewRegistryHandlers(service, obs.Logger),
	}
}

// Mount registers the module's routes on the /api router.
func (m *Module) Mount(r chi.Router) {
	m.handlers.Mount(r)
}
