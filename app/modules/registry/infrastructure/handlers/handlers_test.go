package registryhandlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/sportsday/app/database/databasetest"
	registryservice "github.com/Black-And-White-Club/sportsday/app/modules/registry/application"
	registryhandlers "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/handlers"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	h, _ := newRouterWithRepo(t)
	return h
}

func newRouterWithRepo(t *testing.T) (http.Handler, *registrydb.Repository) {
	t.Helper()
	db := databasetest.NewSQLite(t, registrydb.CreateSchema)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := registrydb.NewRepository(db)
	svc := registryservice.NewRegistryService(repo, nil, logger, observability.NewNoop(), nil, db)

	r := chi.NewRouter()
	r.Route("/api", registryhandlers.NewRegistryHandlers(svc, logger).Mount)
	return r, repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, rdr))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}

func TestSchoolRoutes(t *testing.T) {
	h := newRouter(t)

	rr := do(t, h, http.MethodPost, "/api/schools", `{"name":"North High","address":"1 Main St"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[registrydb.School](t, rr)
	require.NotZero(t, created.ID)

	rr = do(t, h, http.MethodPost, "/api/schools", `{"name":"North High"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "duplicate", decode[httpx.ErrorBody](t, rr).Kind)

	rr = do(t, h, http.MethodGet, "/api/schools/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "North High", decode[registrydb.School](t, rr).Name)

	rr = do(t, h, http.MethodPut, "/api/schools/1", `{"name":"North Academy"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, int64(1), decode[registrydb.School](t, rr).ID)

	rr = do(t, h, http.MethodGet, "/api/schools", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]registrydb.School](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, "North Academy", list[0].Name)
	assert.Nil(t, list[0].Address, "update replaces every field")

	rr = do(t, h, http.MethodDelete, "/api/schools/1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/schools/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestErrorStatuses(t *testing.T) {
	h := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/schools", `{"name":"North High"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/classes", `{"school_id":1,"name":"5A"}`).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		kind   string
	}{
		{"blank name", http.MethodPost, "/api/schools", `{"name":""}`, http.StatusBadRequest, "validation"},
		{"unknown field", http.MethodPost, "/api/schools", `{"title":"x"}`, http.StatusBadRequest, "validation"},
		{"bad id", http.MethodGet, "/api/schools/abc", "", http.StatusBadRequest, "validation"},
		{"missing reference", http.MethodPost, "/api/classes", `{"school_id":99,"name":"6B"}`, http.StatusNotFound, "not_found"},
		{"delete referenced school", http.MethodDelete, "/api/schools/1", "", http.StatusConflict, "referential_integrity"},
		{"update missing", http.MethodPut, "/api/sports/5", `{"name":"Running"}`, http.StatusNotFound, "not_found"},
		{"unsupported filter", http.MethodGet, "/api/sports?school_id=1", "", http.StatusBadRequest, "validation"},
		{"bad limit", http.MethodGet, "/api/classes?limit=x", "", http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.kind, decode[httpx.ErrorBody](t, rr).Kind)
		})
	}
}

func TestListFilters(t *testing.T) {
	h := newRouter(t)
	for _, body := range []string{`{"name":"North"}`, `{"name":"South"}`} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/schools", body).Code)
	}
	for _, body := range []string{
		`{"school_id":1,"name":"5A"}`,
		`{"school_id":2,"name":"5A"}`,
		`{"school_id":2,"name":"6B"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/classes", body).Code)
	}

	rr := do(t, h, http.MethodGet, "/api/classes?school_id=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]registrydb.Class](t, rr), 2)

	rr = do(t, h, http.MethodGet, "/api/classes?limit=1&offset=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[[]registrydb.Class](t, rr)
	require.Len(t, page, 1)
	assert.Equal(t, "6B", page[0].Name)
}

func TestLinkRoutes(t *testing.T) {
	h := newRouter(t)
	setup := []struct{ path, body string }{
		{"/api/schools", `{"name":"North"}`},
		{"/api/classes", `{"school_id":1,"name":"5A"}`},
		{"/api/teachers", `{"school_id":1,"first_name":"Ada","last_name":"Lovelace"}`},
		{"/api/participants", `{"school_id":1,"class_id":1,"first_name":"Sam","last_name":"Ito","birth_date":"2012-03-04","gender":"M"}`},
		{"/api/sports", `{"name":"Running"}`},
		{"/api/ranks", `{"sport_id":1,"name":"Gold","min_points":50}`},
		{"/api/events", `{"sport_id":1,"name":"100m","date":"2024-06-01","responsible_id":1,"distance":100}`},
	}
	for _, s := range setup {
		rr := do(t, h, http.MethodPost, s.path, s.body)
		require.Equal(t, http.StatusCreated, rr.Code, "%s: %s", s.path, rr.Body.String())
	}

	rr := do(t, h, http.MethodPost, "/api/participant-ranks", `{"participant_id":1,"rank_id":1,"assigned_date":"2024-06-02"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/participant-ranks/1/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2024-06-02", decode[registrydb.ParticipantRank](t, rr).AssignedDate.String())

	rr = do(t, h, http.MethodPut, "/api/participant-ranks/1/1", `{"assigned_date":"2024-07-01"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, int64(1), decode[registrydb.ParticipantRank](t, rr).ParticipantID)

	rr = do(t, h, http.MethodGet, "/api/participant-ranks?participant_id=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]registrydb.ParticipantRank](t, rr), 1)

	rr = do(t, h, http.MethodDelete, "/api/participant-ranks/1/1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, h, http.MethodGet, "/api/participant-ranks/1/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/school-points", `{"school_id":1,"event_id":1,"total_points":12}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = do(t, h, http.MethodGet, "/api/school-points/1/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 12, decode[registrydb.SchoolPoint](t, rr).TotalPoints)

	rr = do(t, h, http.MethodGet, "/api/events/1/registrations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]registrydb.EventParticipant](t, rr))

	rr = do(t, h, http.MethodDelete, "/api/events/1/registrations/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResultWritesRequireRegistration(t *testing.T) {
	h, repo := newRouterWithRepo(t)
	ctx := context.Background()
	setup := []struct{ path, body string }{
		{"/api/schools", `{"name":"North"}`},
		{"/api/classes", `{"school_id":1,"name":"5A"}`},
		{"/api/teachers", `{"school_id":1,"first_name":"Ada","last_name":"Lovelace"}`},
		{"/api/participants", `{"school_id":1,"class_id":1,"first_name":"Sam","last_name":"Ito","birth_date":"2012-03-04","gender":"M"}`},
		{"/api/participants", `{"school_id":1,"class_id":1,"first_name":"Mia","last_name":"Ito","birth_date":"2012-03-04","gender":"F"}`},
		{"/api/sports", `{"name":"Running"}`},
		{"/api/categories", `{"name":"Open","min_age":10,"max_age":15}`},
		{"/api/events", `{"sport_id":1,"name":"100m","date":"2024-06-01","responsible_id":1,"distance":100}`},
	}
	for _, s := range setup {
		rr := do(t, h, http.MethodPost, s.path, s.body)
		require.Equal(t, http.StatusCreated, rr.Code, "%s: %s", s.path, rr.Body.String())
	}

	body := `{"event_id":1,"participant_id":1,"category_id":1,"time":"0:00:12.5","points":10,"place":1}`
	rr := do(t, h, http.MethodPost, "/api/results", body)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/results", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]registrydb.Result](t, rr))

	require.NoError(t, repo.EventParticipants.Create(ctx, nil, &registrydb.EventParticipant{
		EventID: 1, ParticipantID: 1, RegistrationDate: registrydb.NewDate(2024, 5, 20),
	}))
	require.NoError(t, repo.Results.Create(ctx, nil, &registrydb.Result{
		EventID: 1, ParticipantID: 1, CategoryID: 1, Points: 10, Place: 1,
	}))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		kind   string
	}{
		{
			name:   "move result to unregistered participant",
			method: http.MethodPut,
			path:   "/api/results/1",
			body:   `{"event_id":1,"participant_id":2,"category_id":1,"time":"0:00:12.5","points":10,"place":1}`,
			status: http.StatusUnprocessableEntity,
			kind:   "not_registered",
		},
		{
			name:   "remove registration that has a result",
			method: http.MethodDelete,
			path:   "/api/events/1/registrations/1",
			status: http.StatusConflict,
			kind:   "referential_integrity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.kind, decode[httpx.ErrorBody](t, rr).Kind)
		})
	}

	rr = do(t, h, http.MethodPut, "/api/results/1", `{"event_id":1,"participant_id":1,"category_id":1,"time":"0:00:11","points":12,"place":1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 12, decode[registrydb.Result](t, rr).Points)

	rr = do(t, h, http.MethodGet, "/api/results/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[registrydb.Result](t, rr)
	assert.Equal(t, int64(1), got.ParticipantID)
	assert.Equal(t, "0:00:11", got.Time.String())

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/results/1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/events/1/registrations/1", "").Code)
}
