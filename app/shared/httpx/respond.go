// Package httpx holds the JSON plumbing and middleware shared by the module
// HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Status maps a domain error to its HTTP status and a short kind label.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, sportserr.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, sportserr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, sportserr.ErrDuplicateRegistration):
		return http.StatusConflict, "duplicate_registration"
	case errors.Is(err, sportserr.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, sportserr.ErrReferentialIntegrity):
		return http.StatusConflict, "referential_integrity"
	case errors.Is(err, sportserr.ErrNotRegistered):
		return http.StatusUnprocessableEntity, "not_registered"
	}
	return http.StatusInternalServerError, "store"
}

// Error writes err as an ErrorBody. Server errors are logged and their detail
// is not echoed to the client.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, kind := Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.ErrorContext(r.Context(), "Request failed",
				observability.CorrelationID(r.Context()),
				observability.String("path", r.URL.Path),
				observability.Error(err),
			)
		}
		msg = http.StatusText(status)
	}
	JSON(w, status, ErrorBody{Error: msg, Kind: kind})
}

// Decode reads a JSON body into v. Malformed input is a ValidationError.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return sportserr.Invalid("body", "%v", err)
	}
	return nil
}

// PathID parses the named chi URL parameter as a positive id.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, sportserr.Invalid(name, "must be a positive integer, got %q", raw)
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, sportserr.Invalid(name, "must be an integer, got %q", raw)
	}
	return v, true, nil
}

// QueryID parses an optional positive id query parameter.
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, sportserr.Invalid(name, "must be a positive integer, got %q", raw)
	}
	return &id, nil
}

// Attachment sets the headers for a downloadable file.
func Attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
