package entryhandlers

import (
	"log/slog"
	"net/http"

	entryservice "github.com/Black-And-White-Club/sportsday/app/modules/entry/application"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// EntryHandlers serves the multi-step entry operations.
type EntryHandlers struct {
	service entryservice.Service
	logger  *slog.Logger
}

// NewEntryHandlers creates a new EntryHandlers.
func NewEntryHandlers(service entryservice.Service, logger *slog.Logger) *EntryHandlers {
	return &EntryHandlers{service: service, logger: logger}
}

// Mount registers the entry routes on the /api router.
func (h *EntryHandlers) Mount(r chi.Router) {
	r.Post("/events/{id}/registrations", h.HandleRegister)
	r.Post("/events/roster", h.HandleCreateRoster)
	r.Post("/results/record", h.HandleRecordResult)
}

// RegisterRequest is the body of a registration. A missing date means today.
type RegisterRequest struct {
	ParticipantID    int64           `json:"participant_id"`
	RegistrationDate registrydb.Date `json:"registration_date"`
}

func (h *EntryHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	eventID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req RegisterRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	ep, err := h.service.RegisterForEvent(r.Context(), eventID, req.ParticipantID, req.RegistrationDate)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ep)
}

func (h *EntryHandlers) HandleRecordResult(w http.ResponseWriter, r *http.Request) {
	var in entryservice.ResultInput
	if err := httpx.Decode(w, r, &in); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	res, err := h.service.RecordResult(r.Context(), in)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

// RosterRequest is the body of an event-with-roster creation.
type RosterRequest struct {
	Event          *registrydb.Event `json:"event"`
	ParticipantIDs []int64           `json:"participant_ids"`
	CategoryIDs    []int64           `json:"category_ids"`
}

func (h *EntryHandlers) HandleCreateRoster(w http.ResponseWriter, r *http.Request) {
	var req RosterRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if req.Event != nil {
		req.Event.ID = 0
	}

	roster, err := h.service.CreateEventWithRoster(r.Context(), req.Event, req.ParticipantIDs, req.CategoryIDs)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, roster)
}
