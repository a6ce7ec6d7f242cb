package documenthandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/document"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

type Handler struct {
	Service        *document.Service
	MaxUploadBytes int64
}

func NewHandler(service *document.Service, maxUploadBytes int64) *Handler {
	return &Handler{Service: service, MaxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDocumentsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite)).Post("/", h.handleUpload)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite)).Delete("/{documentID}", h.handleDelete)
	})
}

// handleUpload accepts a multipart form with a single "file" part.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "multipart file field is required", requestctx.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rec, err := h.Service.Upload(r.Context(), user.UserID, header.Filename, contentType, header.Size, file)
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "upload_failed", "failed to store document", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	docs, err := h.Service.List(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_list_failed", "failed to list documents", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, docs, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	err := h.Service.Delete(r.Context(), user.UserID, chi.URLParam(r, "documentID"), user.Role == auth.RoleAdmin)
	switch {
	case errors.Is(err, document.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", requestctx.GetRequestID(r.Context()))
	case errors.Is(err, document.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "document belongs to another user", requestctx.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", requestctx.GetRequestID(r.Context()))
	default:
		api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
	}
}
