package audit

import (
	"context"

	auditservice "github.com/Black-And-White-Club/sportsday/app/modules/audit/application"
	audithandlers "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/handlers"
	auditdb "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the audit module.
type Module struct {
	Service  *auditservice.AuditService
	handlers *audithandlers.AuditHandlers
}

// NewAuditModule creates and initializes a new audit module.
func NewAuditModule(ctx context.Context, obs observability.Observability, db *bun.DB) *Module {
	obs.Logger.InfoContext(ctx, "audit.NewAuditModule initializing")

	repo := auditdb.NewRepository(db)
	service := auditservice.NewAuditService(repo, obs.Logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		Service:  service,
		handlers: audithandlers.NewAuditHandlers(service, obs.Logger),
	}
}

// Mount registers the module's routes on the /api router.
func (m *Module) Mount(r chi.Router) {
	m.handlers.Mount(r)
}
