package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/notification"
	"staffhub/internal/domain/reports"
	"staffhub/internal/realtime"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Notifier *notification.Service
	Hub      *realtime.Hub
}

func NewHandler(service *leave.Service, notifier *notification.Service, hub *realtime.Hub) *Handler {
	return &Handler{Service: service, Notifier: notifier, Hub: hub}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/mine", h.handleMine)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/review", h.handleReviewQueue)
		r.With(middleware.RequirePermission(auth.PermReportsExport)).Get("/", h.handleListAll)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/{requestID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/{requestID}/pdf", h.handlePDF)
		r.With(middleware.RequirePermission(auth.PermLeaveRecommend)).Post("/{requestID}/recommend", h.handleRecommend)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{requestID}/approve", h.handleApprove)
	})
}

type submitRequest struct {
	LeaveType          string `json:"leaveType"`
	StartDate          string `json:"startDate"`
	ResumeDate         string `json:"resumeDate"`
	Reason             string `json:"reason"`
	ActingOfficerID    string `json:"actingOfficerId"`
	RecommendOfficerID string `json:"recommendOfficerId"`
	ApproveOfficerID   string `json:"approveOfficerId"`
}

type decisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, startOK := v.Date("startDate", payload.StartDate)
	resume, resumeOK := v.Date("resumeDate", payload.ResumeDate)
	if startOK && resumeOK {
		v.DateOrder("startDate", start, "resumeDate", resume)
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.Submit(r.Context(), leave.SubmitInput{
		RequesterID:        user.UserID,
		LeaveType:          payload.LeaveType,
		StartDate:          start,
		ResumeDate:         resume,
		Reason:             payload.Reason,
		ActingOfficerID:    payload.ActingOfficerID,
		RecommendOfficerID: payload.RecommendOfficerID,
		ApproveOfficerID:   payload.ApproveOfficerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.notify(r.Context(), req.RecommendOfficerID, notification.KindLeaveSubmitted,
		"Leave request awaiting recommendation",
		fmt.Sprintf("%s requested %d day(s) of %s leave.", req.StaffName, req.Days, req.LeaveType))
	h.publishSnapshot(r.Context())

	api.Created(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Recommend(r.Context(), chi.URLParam(r, "requestID"), user.UserID, payload.Decision, payload.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.Status == leave.StatusRecommended {
		h.notify(r.Context(), req.ApproveOfficerID, notification.KindLeaveRecommended,
			"Leave request awaiting approval",
			fmt.Sprintf("%s's %s leave was recommended and needs your decision.", req.StaffName, req.LeaveType))
	} else {
		h.notify(r.Context(), req.RequesterID, notification.KindLeaveDecided,
			"Leave request rejected",
			fmt.Sprintf("Your %s leave request was rejected at the recommendation stage.", req.LeaveType))
	}
	h.publishSnapshot(r.Context())

	api.Success(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Approve(r.Context(), chi.URLParam(r, "requestID"), user.UserID, payload.Decision, payload.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	title := "Leave request approved"
	body := fmt.Sprintf("Your %s leave from %s was approved.", req.LeaveType, req.StartDate.Format("2006-01-02"))
	if req.Status == leave.StatusRejected {
		title = "Leave request rejected"
		body = fmt.Sprintf("Your %s leave from %s was rejected.", req.LeaveType, req.StartDate.Format("2006-01-02"))
	}
	h.notify(r.Context(), req.RequesterID, notification.KindLeaveDecided, title, body)
	h.publishSnapshot(r.Context())

	api.Success(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requests, err := h.Service.ListByRequester(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requests, err := h.Service.ListForReviewer(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list review queue", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	requests, total, err := h.Service.ListAll(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestctx.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, requests, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	api.Success(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	data, err := reports.LeaveRequestPDF(req)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render pdf", requestctx.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leave-"+req.ID+".pdf"))
	if _, err := w.Write(data); err != nil {
		slog.Warn("pdf write failed", "err", err)
	}
}

// loadVisible fetches the request and enforces that the caller is its
// requester, one of its officers, or an admin.
func (h *Handler) loadVisible(w http.ResponseWriter, r *http.Request) (leave.LeaveRequest, bool) {
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeError(w, r, err)
		return leave.LeaveRequest{}, false
	}

	allowed := user.Role == auth.RoleAdmin ||
		req.RequesterID == user.UserID ||
		req.RecommendOfficerID == user.UserID ||
		req.ApproveOfficerID == user.UserID ||
		req.ActingOfficerID == user.UserID
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", "not a participant of this request", requestctx.GetRequestID(r.Context()))
		return leave.LeaveRequest{}, false
	}
	return req, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *leave.ValidationError
	switch {
	case errors.As(err, &verr):
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]any{"fields": verr.Issues}, requestctx.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestctx.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrUnauthorized):
		api.Fail(w, http.StatusForbidden, "not_reviewer", "you are not the assigned officer for this step", requestctx.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "request status does not allow this action", requestctx.GetRequestID(r.Context()))
	default:
		slog.Warn("leave operation failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_error", "leave operation failed", requestctx.GetRequestID(r.Context()))
	}
}

func (h *Handler) notify(ctx context.Context, recipientID, kind, title, body string) {
	if h.Notifier == nil {
		return
	}
	if err := h.Notifier.Notify(ctx, recipientID, kind, title, body); err != nil {
		slog.Warn("leave notification failed", "recipient", recipientID, "err", err)
	}
}

// publishSnapshot pushes the current request list to websocket subscribers.
func (h *Handler) publishSnapshot(ctx context.Context) {
	if h.Hub == nil || h.Hub.SubscriberCount() == 0 {
		return
	}
	requests, _, err := h.Service.ListAll(ctx, 200, 0)
	if err != nil {
		slog.Warn("realtime snapshot load failed", "err", err)
		return
	}
	h.Hub.Publish(realtime.TopicLeaveRequests, requests)
}
