package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staffhub/internal/domain/auth"
)

// Service owns the leave-request state machine. All officer-identity and
// status checks happen here against the stored record, never against
// anything the client asserts about itself.
type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

type SubmitInput struct {
	RequesterID        string
	LeaveType          string
	StartDate          time.Time
	ResumeDate         time.Time
	Reason             string
	ActingOfficerID    string
	RecommendOfficerID string
	ApproveOfficerID   string
}

func (s *Service) Submit(ctx context.Context, input SubmitInput) (LeaveRequest, error) {
	verr := &ValidationError{}

	if !ValidType(input.LeaveType) {
		verr.add("leaveType", "must be one of "+strings.Join(Types, ", "))
	}
	if strings.TrimSpace(input.Reason) == "" {
		verr.add("reason", "must not be empty")
	}
	if input.StartDate.IsZero() {
		verr.add("startDate", "required")
	}
	if input.ResumeDate.IsZero() {
		verr.add("resumeDate", "required")
	}

	days := 0
	if !input.StartDate.IsZero() && !input.ResumeDate.IsZero() {
		computed, err := InclusiveDays(input.StartDate, input.ResumeDate)
		if err != nil {
			verr.add("resumeDate", "must be on or after startDate")
		} else if computed < 1 {
			verr.add("resumeDate", "leave must cover at least one day")
		} else {
			days = computed
		}
	}

	if err := s.checkOfficer(ctx, verr, "recommendOfficerId", input.RecommendOfficerID, auth.PermLeaveRecommend); err != nil {
		return LeaveRequest{}, err
	}
	if err := s.checkOfficer(ctx, verr, "approveOfficerId", input.ApproveOfficerID, auth.PermLeaveApprove); err != nil {
		return LeaveRequest{}, err
	}
	if input.ActingOfficerID != "" {
		if err := s.checkOfficer(ctx, verr, "actingOfficerId", input.ActingOfficerID, ""); err != nil {
			return LeaveRequest{}, err
		}
	}

	if verr.hasIssues() {
		return LeaveRequest{}, verr
	}

	name, designation, err := s.Store.RequesterSnapshot(ctx, input.RequesterID)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("requester snapshot: %w", err)
	}

	id, err := s.Store.Insert(ctx, LeaveRequest{
		RequesterID:        input.RequesterID,
		StaffName:          name,
		StaffDesignation:   designation,
		LeaveType:          input.LeaveType,
		StartDate:          input.StartDate,
		ResumeDate:         input.ResumeDate,
		Days:               days,
		Reason:             strings.TrimSpace(input.Reason),
		ActingOfficerID:    input.ActingOfficerID,
		RecommendOfficerID: input.RecommendOfficerID,
		ApproveOfficerID:   input.ApproveOfficerID,
		Status:             StatusPending,
	})
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("persist leave request: %w", err)
	}

	created, found, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("load created request: %w", err)
	}
	if !found {
		return LeaveRequest{}, ErrNotFound
	}
	return created, nil
}

// checkOfficer validates an officer selection: the identity must exist and,
// when permission is non-empty, hold a role carrying that permission.
func (s *Service) checkOfficer(ctx context.Context, verr *ValidationError, field, userID, permission string) error {
	if strings.TrimSpace(userID) == "" {
		verr.add(field, "required")
		return nil
	}
	role, found, err := s.Store.UserRole(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve officer %s: %w", field, err)
	}
	if !found {
		verr.add(field, "unknown user")
		return nil
	}
	if permission != "" && !auth.RoleHasPermission(role, permission) {
		verr.add(field, "user is not eligible for this reviewer slot")
	}
	return nil
}

// Recommend advances a pending request on behalf of its recommend officer.
func (s *Service) Recommend(ctx context.Context, id, actorID, decision, notes string) (LeaveRequest, error) {
	toStatus, err := decisionStatus(decision, StatusRecommended)
	if err != nil {
		return LeaveRequest{}, err
	}

	req, found, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("load request: %w", err)
	}
	if !found {
		return LeaveRequest{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return LeaveRequest{}, ErrInvalidTransition
	}
	if req.RecommendOfficerID != actorID {
		return LeaveRequest{}, ErrUnauthorized
	}

	ok, err := s.Store.SetRecommendation(ctx, id, toStatus, notes)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("record recommendation: %w", err)
	}
	if !ok {
		// Lost a race with another write; the guard kept the row intact.
		return LeaveRequest{}, ErrInvalidTransition
	}
	return s.reload(ctx, id)
}

// Approve finalizes a recommended request on behalf of its approve officer.
func (s *Service) Approve(ctx context.Context, id, actorID, decision, notes string) (LeaveRequest, error) {
	toStatus, err := decisionStatus(decision, StatusApproved)
	if err != nil {
		return LeaveRequest{}, err
	}

	req, found, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("load request: %w", err)
	}
	if !found {
		return LeaveRequest{}, ErrNotFound
	}
	if req.Status != StatusRecommended {
		return LeaveRequest{}, ErrInvalidTransition
	}
	if req.ApproveOfficerID != actorID {
		return LeaveRequest{}, ErrUnauthorized
	}

	ok, err := s.Store.SetApproval(ctx, id, toStatus, notes)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("record approval: %w", err)
	}
	if !ok {
		return LeaveRequest{}, ErrInvalidTransition
	}
	return s.reload(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (LeaveRequest, error) {
	req, found, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !found {
		return LeaveRequest{}, ErrNotFound
	}
	return req, nil
}

func (s *Service) ListByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error) {
	return s.Store.ListByRequester(ctx, requesterID)
}

func (s *Service) ListForReviewer(ctx context.Context, officerID string) ([]LeaveRequest, error) {
	return s.Store.ListForReviewer(ctx, officerID)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]LeaveRequest, int, error) {
	return s.Store.ListAll(ctx, limit, offset)
}

func decisionStatus(decision, forwardStatus string) (string, error) {
	switch decision {
	case DecisionApprove:
		return forwardStatus, nil
	case DecisionReject:
		return StatusRejected, nil
	default:
		verr := &ValidationError{}
		verr.add("decision", "must be approve or reject")
		return "", verr
	}
}

func (s *Service) reload(ctx context.Context, id string) (LeaveRequest, error) {
	req, found, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("reload request: %w", err)
	}
	if !found {
		return LeaveRequest{}, ErrNotFound
	}
	return req, nil
}
