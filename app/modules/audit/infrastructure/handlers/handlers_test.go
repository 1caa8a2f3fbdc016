package audithandlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/sportsday/app/database/databasetest"
	auditservice "github.com/Black-And-White-Club/sportsday/app/modules/audit/application"
	audithandlers "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/handlers"
	auditdb "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleList(t *testing.T) {
	db := databasetest.NewSQLite(t, registrydb.CreateSchema, auditdb.CreateSchema)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := auditservice.NewAuditService(auditdb.NewRepository(db), logger, observability.NewNoop(), nil, db)

	for i := 1; i <= 3; i++ {
		svc.Record(context.Background(), fmt.Sprintf("created school %d", i))
	}

	r := chi.NewRouter()
	r.Route("/api", audithandlers.NewAuditHandlers(svc, logger).Mount)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"default limit", "", http.StatusOK, 3},
		{"explicit limit", "?limit=2", http.StatusOK, 2},
		{"zero limit", "?limit=0", http.StatusBadRequest, 0},
		{"limit too large", "?limit=5000", http.StatusBadRequest, 0},
		{"not a number", "?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/logs"+tt.query, nil))
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var entries []auditdb.Log
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
			assert.Len(t, entries, tt.wantCount)
		})
	}
}

func TestHandleAppend(t *testing.T) {
	db := databasetest.NewSQLite(t, registrydb.CreateSchema, auditdb.CreateSchema)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := auditservice.NewAuditService(auditdb.NewRepository(db), logger, observability.NewNoop(), nil, db)

	ctx := context.Background()
	repo := registrydb.NewRepository(db)
	school := &registrydb.School{Name: "North High"}
	require.NoError(t, repo.Schools.Create(ctx, nil, school))
	require.NoError(t, repo.Teachers.Create(ctx, nil, &registrydb.Teacher{SchoolID: school.ID, FirstName: "Ada", LastName: "Brook"}))

	r := chi.NewRouter()
	r.Route("/api", audithandlers.NewAuditHandlers(svc, logger).Mount)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"with teacher", `{"action":"handed out bibs","user_id":1}`, http.StatusCreated},
		{"without teacher", `{"action":"gates opened"}`, http.StatusCreated},
		{"unknown teacher", `{"action":"x","user_id":9}`, http.StatusNotFound},
		{"missing action", `{"user_id":1}`, http.StatusBadRequest},
		{"unknown field", `{"action":"x","teacher":1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []auditdb.Log
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
	require.Len(t, entries, 2)
	actions := []string{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []string{"handed out bibs", "gates opened"}, actions)
}
