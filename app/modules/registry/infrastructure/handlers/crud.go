package registryhandlers

import (
	"log/slog"
	"net/http"

	registryservice "github.com/Black-And-White-Club/sportsday/app/modules/registry/application"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

type entityHandler[T any, P interface {
	*T
	registrydb.Record
}] struct {
	svc    *registryservice.EntityService[T, P]
	logger *slog.Logger
}

// entityRoutes mounts the full CRUD set for one entity at path.
func entityRoutes[T any, P interface {
	*T
	registrydb.Record
}](r chi.Router, path string, svc *registryservice.EntityService[T, P], logger *slog.Logger) {
	h := entityHandler[T, P]{svc: svc, logger: logger}
	r.Post(path, h.create)
	h.mount(r, path)
}

// mount registers every route except create.
func (h entityHandler[T, P]) mount(r chi.Router, path string) {
	r.Get(path, h.list)
	r.Get(path+"/{id}", h.get)
	r.Put(path+"/{id}", h.update)
	r.Delete(path+"/{id}", h.delete)
}

func (h entityHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	rows, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h entityHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	rec := P(new(T))
	if err := httpx.Decode(w, r, rec); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	rec.SetKey(0)

	out, err := h.svc.Create(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h entityHandler[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	out, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// update replaces every field of the row named by the path id.
func (h entityHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	rec := P(new(T))
	if err := httpx.Decode(w, r, rec); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	rec.SetKey(id)

	out, err := h.svc.Update(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h entityHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type linkHandler[T any, P interface {
	*T
	registrydb.LinkRecord
}] struct {
	svc    *registryservice.LinkService[T, P]
	logger *slog.Logger
	// params name the URL parameters holding the two key values.
	params [2]string
}

// linkRoutes mounts routes for a composite-key table at path/{a}/{b}, where
// the parameters are named after the table's key columns.
func linkRoutes[T any, P interface {
	*T
	registrydb.LinkRecord
}](r chi.Router, path string, svc *registryservice.LinkService[T, P], logger *slog.Logger) {
	a, b := P(new(T)).KeyColumns()
	h := linkHandler[T, P]{svc: svc, logger: logger, params: [2]string{a, b}}
	keyed := path + "/{" + a + "}/{" + b + "}"
	r.Get(path, h.list)
	r.Post(path, h.create)
	r.Get(keyed, h.get)
	r.Put(keyed, h.update)
	r.Delete(keyed, h.delete)
}

func (h linkHandler[T, P]) keys(r *http.Request) (int64, int64, error) {
	a, err := httpx.PathID(r, h.params[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := httpx.PathID(r, h.params[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (h linkHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	h.writeList(w, r, f)
}

// listForEvent lists the registrations of the event named by the path.
func (h linkHandler[T, P]) listForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := httpx.PathID(r, h.params[0])
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	f, err := filterFrom(r)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	f.EventID = &eventID
	h.writeList(w, r, f)
}

func (h linkHandler[T, P]) writeList(w http.ResponseWriter, r *http.Request, f registrydb.Filter) {
	rows, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h linkHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	rec := P(new(T))
	if err := httpx.Decode(w, r, rec); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	out, err := h.svc.Create(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h linkHandler[T, P]) get(w http.ResponseWriter, r *http.Request) {
	a, b, err := h.keys(r)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	out, err := h.svc.Get(r.Context(), a, b)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h linkHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	a, b, err := h.keys(r)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	rec := P(new(T))
	if err := httpx.Decode(w, r, rec); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	rec.SetKeyValues(a, b)

	out, err := h.svc.Update(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h linkHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	a, b, err := h.keys(r)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), a, b); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
