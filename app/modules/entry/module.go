package entry

import (
	"context"

	entryservice "github.com/Black-And-White-Club/sportsday/app/modules/entry/application"
	entryhandlers "github.com/Black-And-White-Club/sportsday/app/modules/entry/infrastructure/handlers"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the entry module.
type Module struct {
	Service  *entryservice.EntryService
	handlers *entryhandlers.EntryHandlers
}

// NewEntryModule creates and initializes a new entry module over the
// registry store. audit may be nil.
func NewEntryModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	store entryservice.Store,
	audit entryservice.Auditor,
) *Module {
	obs.Logger.InfoContext(ctx, "entry.NewEntryModule initializing")

	service := entryservice.NewEntryService(store, audit, obs.Logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		Service:  service,
		handlers: entryhandlers.NewEntryHandlers(service, obs.Logger),
	}
}

// Mount registers the module's routes on the /api router.
func (m *Module) Mount(r chi.Router) {
	m.handlers.Mount(r)
}
