package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orderdesk/apiserver/internal/pagination"
	"github.com/orderdesk/apiserver/internal/schemas"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/internal/store"
)

const (
	msgCreated = "record created successfully"
	msgUpdated = "record updated successfully"
	msgDeleted = "record deleted successfully"
)

// resourceHandler serves the list/get/add/edit/delete routes of one entity.
type resourceHandler[T store.Record, F store.Filter, C store.Changes] struct {
	service      *services.Resource[T, F, C]
	decodeCreate func(body io.Reader) (T, error)
	decodeUpdate func(body io.Reader) (C, error)
}

func (h *resourceHandler[T, F, C]) register(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/add", h.Create)
	r.Put("/edit/{id}", h.Update)
	r.Delete("/delete/{id}", h.Delete)
}

func (h *resourceHandler[T, F, C]) List(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items, total, err := h.service.List(r.Context(), params.Offset(), params.Size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.New(items, total, params))
}

func (h *resourceHandler[T, F, C]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	entity, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (h *resourceHandler[T, F, C]) Create(w http.ResponseWriter, r *http.Request) {
	entity, err := h.decodeCreate(r.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), entity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: msgCreated, ID: created.PrimaryKey()})
}

// Update answers 404 for a missing record before looking at the body.
func (h *resourceHandler[T, F, C]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if _, err := h.service.Get(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	changes, err := h.decodeUpdate(r.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if _, err := h.service.Update(r.Context(), id, changes); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgUpdated})
}

func (h *resourceHandler[T, F, C]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgDeleted})
}

// decoder adapts a schema payload type P and its conversion into a body
// decoder producing V.
func decoder[P any, V any](convert func(P) V) func(io.Reader) (V, error) {
	return func(body io.Reader) (V, error) {
		var payload P
		if err := schemas.Decode(body, &payload); err != nil {
			var zero V
			return zero, err
		}
		return convert(payload), nil
	}
}
