package reportshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/reports"
	"staffhub/internal/platform/metrics"
	"staffhub/internal/realtime"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

type Handler struct {
	Service   *reports.Service
	Leave     *leave.Service
	Collector *metrics.Collector
	Hub       *realtime.Hub
}

func NewHandler(service *reports.Service, leaveSvc *leave.Service, collector *metrics.Collector, hub *realtime.Hub) *Handler {
	return &Handler{Service: service, Leave: leaveSvc, Collector: collector, Hub: hub}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/leave-breakdown", h.handleLeaveBreakdown)
		r.With(middleware.RequirePermission(auth.PermReportsExport)).Get("/leave.csv", h.handleLeaveCSV)
	})
	r.With(middleware.RequirePermission(auth.PermUsersAdmin)).Get("/admin/metrics", h.handleMetrics)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Dashboard(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to compute dashboard stats", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaveBreakdown(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Service.LeaveBreakdown(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to compute leave breakdown", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, counts, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaveCSV(w http.ResponseWriter, r *http.Request) {
	requests, _, err := h.Leave.ListAll(r.Context(), 10000, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load leave requests", requestctx.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leave-requests.csv"`)
	if err := reports.WriteLeaveCSV(w, requests); err != nil {
		// The response is already partially written; log and cut the stream.
		slog.Warn("csv export failed mid-stream", "err", err)
	}
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Collector.Snapshot()
	if h.Hub != nil {
		snapshot["realtimeSubscribers"] = h.Hub.SubscriberCount()
	}
	api.Success(w, snapshot, requestctx.GetRequestID(r.Context()))
}
