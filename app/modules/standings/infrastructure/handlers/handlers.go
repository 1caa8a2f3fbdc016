package standingshandlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	standingsservice "github.com/Black-And-White-Club/sportsday/app/modules/standings/application"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StandingsHandlers serves the read-only reports.
type StandingsHandlers struct {
	service standingsservice.Service
	logger  *slog.Logger
}

// NewStandingsHandlers creates a new StandingsHandlers.
func NewStandingsHandlers(service standingsservice.Service, logger *slog.Logger) *StandingsHandlers {
	return &StandingsHandlers{service: service, logger: logger}
}

// Mount registers the report routes on the /api router.
func (h *StandingsHandlers) Mount(r chi.Router) {
	r.Get("/standings", h.HandleStandings)
	r.Get("/standings.png", h.HandleChart)
	r.Get("/event-results", h.HandleEventResults)
	r.Get("/reports.xlsx", h.HandleExport)
}

func (h *StandingsHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.SchoolStandings(r.Context())
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, standings)
}

func (h *StandingsHandlers) HandleEventResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.EventResults(r.Context())
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results)
}

func (h *StandingsHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	h.writeFile(w, r, "image/png", "standings.png", h.service.StandingsChart)
}

func (h *StandingsHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	h.writeFile(w, r, xlsxContentType, "sportsday.xlsx", h.service.ExportXLSX)
}

// writeFile renders into a buffer first so a failed render still produces a
// JSON error instead of a truncated download.
func (h *StandingsHandlers) writeFile(
	w http.ResponseWriter,
	r *http.Request,
	contentType, filename string,
	render func(ctx context.Context, w io.Writer) error,
) {
	var buf bytes.Buffer
	if err := render(r.Context(), &buf); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.Attachment(w, contentType, filename)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
