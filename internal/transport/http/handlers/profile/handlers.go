package profilehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/profile"
	"staffhub/internal/realtime"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

type Handler struct {
	Service *profile.Service
	Hub     *realtime.Hub
}

func NewHandler(service *profile.Service, hub *realtime.Hub) *Handler {
	return &Handler{Service: service, Hub: hub}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProfileRead)).Get("/", h.handleMyProfile)
		r.With(middleware.RequirePermission(auth.PermProfileWrite)).Put("/", h.handleSaveProfile)
	})
	r.With(middleware.RequirePermission(auth.PermStaffRead)).Get("/staff", h.handleDirectory)
	r.With(middleware.RequirePermission(auth.PermStaffRead)).Get("/staff/{userID}", h.handleStaffByUser)

	r.Route("/admin/users", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermUsersAdmin))
		r.Get("/", h.handleListUsers)
		r.Put("/{userID}/role", h.handleChangeRole)
		r.Put("/{userID}/division", h.handleAssignDivision)
		r.Put("/{userID}/status", h.handleSetStatus)
	})
}

func (h *Handler) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	staff, err := h.Service.StaffByUserID(r.Context(), user.UserID)
	if errors.Is(err, profile.ErrNotFound) {
		// First visit before the profile row exists; return an empty shell.
		api.Success(w, profile.StaffProfile{UserID: user.UserID}, requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_error", "failed to load profile", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, staff, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload profile.StaffProfile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	saved, err := h.Service.SaveStaff(r.Context(), user.UserID, payload)
	if err != nil {
		slog.Warn("profile save failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "profile_save_failed", "failed to save profile", requestctx.GetRequestID(r.Context()))
		return
	}

	h.publishDirectory(r)
	api.Success(w, saved, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Service.Directory(r.Context(), r.URL.Query().Get("divisionId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_list_failed", "failed to list staff", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profiles, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffByUser(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Service.StaffByUserID(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, profile.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "staff profile not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_error", "failed to load profile", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, staff, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_list_failed", "failed to list users", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	err := h.Service.ChangeRole(r.Context(), chi.URLParam(r, "userID"), payload.Role)
	if errors.Is(err, profile.ErrInvalidRole) {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", requestctx.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, profile.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update role", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleAssignDivision(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DivisionID string `json:"divisionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	err := h.Service.AssignDivision(r.Context(), chi.URLParam(r, "userID"), payload.DivisionID)
	if errors.Is(err, profile.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to assign division", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.Status != "active" && payload.Status != "disabled" {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be active or disabled", requestctx.GetRequestID(r.Context()))
		return
	}

	err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "userID"), payload.Status)
	if errors.Is(err, profile.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update status", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) publishDirectory(r *http.Request) {
	if h.Hub == nil || h.Hub.SubscriberCount() == 0 {
		return
	}
	profiles, err := h.Service.Directory(r.Context(), "")
	if err != nil {
		slog.Warn("directory snapshot load failed", "err", err)
		return
	}
	h.Hub.Publish(realtime.TopicStaffProfiles, profiles)
}
