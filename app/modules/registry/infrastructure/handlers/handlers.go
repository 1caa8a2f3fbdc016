package registryhandlers

import (
	"log/slog"
	"net/http"

	registryservice "github.com/Black-And-White-Club/sportsday/app/modules/registry/application"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// RegistryHandlers serves CRUD routes for every registry entity.
type RegistryHandlers struct {
	service *registryservice.Service
	logger  *slog.Logger
}

// NewRegistryHandlers creates a new RegistryHandlers.
func NewRegistryHandlers(service *registryservice.Service, logger *slog.Logger) *RegistryHandlers {
	return &RegistryHandlers{service: service, logger: logger}
}

// Mount registers the registry routes on r, which is expected to be the /api
// router. Event registrations and results are created through the entry
// module. A registration that still has results cannot be removed.
func (h *RegistryHandlers) Mount(r chi.Router) {
	entityRoutes(r, "/schools", h.service.Schools, h.logger)
	entityRoutes(r, "/classes", h.service.Classes, h.logger)
	entityRoutes(r, "/teachers", h.service.Teachers, h.logger)
	entityRoutes(r, "/participants", h.service.Participants, h.logger)
	entityRoutes(r, "/sports", h.service.Sports, h.logger)
	entityRoutes(r, "/ranks", h.service.Ranks, h.logger)
	entityRoutes(r, "/categories", h.service.Categories, h.logger)
	entityRoutes(r, "/events", h.service.Events, h.logger)

	// Results are created through /results/record in the entry module.
	results := entityHandler[registrydb.Result, *registrydb.Result]{svc: h.service.Results, logger: h.logger}
	results.mount(r, "/results")

	linkRoutes(r, "/participant-ranks", h.service.ParticipantRanks, h.logger)
	linkRoutes(r, "/school-points", h.service.SchoolPoints, h.logger)

	registrations := linkHandler[registrydb.EventParticipant, *registrydb.EventParticipant]{
		svc:    h.service.EventParticipants,
		logger: h.logger,
		params: [2]string{"id", "participant_id"},
	}
	r.Get("/events/{id}/registrations", registrations.listForEvent)
	r.Get("/events/{id}/registrations/{participant_id}", registrations.get)
	r.Delete("/events/{id}/registrations/{participant_id}", registrations.delete)
}

// filterFrom reads the foreign key filters and paging parameters shared by
// every list route.
func filterFrom(r *http.Request) (registrydb.Filter, error) {
	var f registrydb.Filter
	var err error
	if f.SchoolID, err = httpx.QueryID(r, "school_id"); err != nil {
		return f, err
	}
	if f.SportID, err = httpx.QueryID(r, "sport_id"); err != nil {
		return f, err
	}
	if f.EventID, err = httpx.QueryID(r, "event_id"); err != nil {
		return f, err
	}
	if f.ParticipantID, err = httpx.QueryID(r, "participant_id"); err != nil {
		return f, err
	}
	if f.Limit, _, err = httpx.QueryInt(r, "limit"); err != nil {
		return f, err
	}
	if f.Offset, _, err = httpx.QueryInt(r, "offset"); err != nil {
		return f, err
	}
	return f, nil
}
