package audithandlers

import (
	"log/slog"
	"net/http"

	auditservice "github.com/Black-And-White-Club/sportsday/app/modules/audit/application"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/go-chi/chi/v5"
)

// maxLimit caps a single page of log entries.
const maxLimit = 1000

// AuditHandlers serves the audit log.
type AuditHandlers struct {
	service auditservice.Service
	logger  *slog.Logger
}

// NewAuditHandlers creates a new AuditHandlers.
func NewAuditHandlers(service auditservice.Service, logger *slog.Logger) *AuditHandlers {
	return &AuditHandlers{service: service, logger: logger}
}

// Mount registers the audit routes on the /api router.
func (h *AuditHandlers) Mount(r chi.Router) {
	r.Get("/logs", h.HandleList)
	r.Post("/logs", h.HandleAppend)
}

// HandleAppend stores a manually entered log entry.
func (h *AuditHandlers) HandleAppend(w http.ResponseWriter, r *http.Request) {
	var in auditservice.AppendInput
	if err := httpx.Decode(w, r, &in); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	entry, err := h.service.Append(r.Context(), in)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

// HandleList returns the newest entries; ?limit= defaults to the service's
// page size.
func (h *AuditHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, set, err := httpx.QueryInt(r, "limit")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if set && (limit < 1 || limit > maxLimit) {
		httpx.Error(w, r, h.logger, sportserr.Invalid("limit", "must be between 1 and %d", maxLimit))
		return
	}

	entries, err := h.service.List(r.Context(), limit)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}
