package divisionhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/division"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

type Handler struct {
	Service *division.Service
}

func NewHandler(service *division.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/divisions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDivisionsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDivisionsRead)).Get("/{divisionID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermDivisionsWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermDivisionsWrite)).Put("/{divisionID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermDivisionsWrite)).Delete("/{divisionID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	divisions, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "division_list_failed", "failed to list divisions", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, divisions, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Get(r.Context(), chi.URLParam(r, "divisionID"))
	if errors.Is(err, division.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "division not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "division_error", "failed to load division", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, d, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload division.Division
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.Create(r.Context(), payload)
	if errors.Is(err, division.ErrNameRequired) {
		api.Fail(w, http.StatusBadRequest, "name_required", "division name is required", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusConflict, "division_create_failed", "failed to create division", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload division.Division
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	payload.ID = chi.URLParam(r, "divisionID")

	updated, err := h.Service.Update(r.Context(), payload)
	switch {
	case errors.Is(err, division.ErrNameRequired):
		api.Fail(w, http.StatusBadRequest, "name_required", "division name is required", requestctx.GetRequestID(r.Context()))
	case errors.Is(err, division.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "division not found", requestctx.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "division_update_failed", "failed to update division", requestctx.GetRequestID(r.Context()))
	default:
		api.Success(w, updated, requestctx.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Delete(r.Context(), chi.URLParam(r, "divisionID"))
	switch {
	case errors.Is(err, division.ErrInUse):
		api.Fail(w, http.StatusConflict, "division_in_use", "division still has staff assigned", requestctx.GetRequestID(r.Context()))
	case errors.Is(err, division.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "division not found", requestctx.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "division_delete_failed", "failed to delete division", requestctx.GetRequestID(r.Context()))
	default:
		api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
	}
}
