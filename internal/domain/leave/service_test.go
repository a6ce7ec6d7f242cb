package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"staffhub/internal/domain/auth"
)

type fakeStore struct {
	requests map[string]LeaveRequest
	roles    map[string]string
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests: map[string]LeaveRequest{},
		roles: map[string]string{
			"u-staff": auth.RoleStaff,
			"u-cc":    auth.RoleDivisionCC,
			"u-head":  auth.RoleDivisionHead,
			"u-hod":   auth.RoleHOD,
		},
	}
}

func (f *fakeStore) Insert(_ context.Context, req LeaveRequest) (string, error) {
	f.nextID++
	id := fmt.Sprintf("req-%d", f.nextID)
	req.ID = id
	req.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	req.UpdatedAt = req.CreatedAt
	f.requests[id] = req
	return id, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (LeaveRequest, bool, error) {
	req, ok := f.requests[id]
	return req, ok, nil
}

func (f *fakeStore) SetRecommendation(_ context.Context, id, toStatus, notes string) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	now := time.Now()
	req.Status = toStatus
	req.RecommendationNotes = notes
	req.RecommendedAt = &now
	req.UpdatedAt = now
	f.requests[id] = req
	return true, nil
}

func (f *fakeStore) SetApproval(_ context.Context, id, toStatus, notes string) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != StatusRecommended {
		return false, nil
	}
	now := time.Now()
	req.Status = toStatus
	req.ApprovalNotes = notes
	req.ApprovedAt = &now
	req.UpdatedAt = now
	f.requests[id] = req
	return true, nil
}

func (f *fakeStore) ListByRequester(_ context.Context, requesterID string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, req := range f.requests {
		if req.RequesterID == requesterID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListForReviewer(_ context.Context, officerID string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, req := range f.requests {
		if (req.RecommendOfficerID == officerID && req.Status == StatusPending) ||
			(req.ApproveOfficerID == officerID && req.Status == StatusRecommended) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context, _, _ int) ([]LeaveRequest, int, error) {
	var out []LeaveRequest
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, len(out), nil
}

func (f *fakeStore) UserRole(_ context.Context, userID string) (string, bool, error) {
	role, ok := f.roles[userID]
	return role, ok, nil
}

func (f *fakeStore) RequesterSnapshot(_ context.Context, userID string) (string, string, error) {
	return "Jane Perera", "Development Officer", nil
}

func validSubmit() SubmitInput {
	return SubmitInput{
		RequesterID:        "u-staff",
		LeaveType:          TypeCasual,
		StartDate:          date(2024, 1, 15),
		ResumeDate:         date(2024, 1, 20),
		Reason:             "trip",
		RecommendOfficerID: "u-cc",
		ApproveOfficerID:   "u-head",
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc := NewService(newFakeStore())

	created, err := svc.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.Days != 5 {
		t.Fatalf("expected 5 days, got %d", created.Days)
	}
	if created.StaffName != "Jane Perera" || created.StaffDesignation != "Development Officer" {
		t.Fatalf("expected requester snapshot on record, got %q/%q", created.StaffName, created.StaffDesignation)
	}
	if created.ID == "" {
		t.Fatal("expected created record identifier")
	}
}

func TestSubmitValidationFailures(t *testing.T) {
	svc := NewService(newFakeStore())

	cases := []struct {
		name   string
		mutate func(*SubmitInput)
		field  string
	}{
		{"resume before start", func(in *SubmitInput) { in.ResumeDate = date(2024, 1, 10) }, "resumeDate"},
		{"same day span", func(in *SubmitInput) { in.ResumeDate = in.StartDate }, "resumeDate"},
		{"empty reason", func(in *SubmitInput) { in.Reason = "   " }, "reason"},
		{"unknown leave type", func(in *SubmitInput) { in.LeaveType = "sabbatical" }, "leaveType"},
		{"missing recommend officer", func(in *SubmitInput) { in.RecommendOfficerID = "" }, "recommendOfficerId"},
		{"unknown approve officer", func(in *SubmitInput) { in.ApproveOfficerID = "u-ghost" }, "approveOfficerId"},
		{"ineligible recommend officer", func(in *SubmitInput) { in.RecommendOfficerID = "u-staff" }, "recommendOfficerId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validSubmit()
			tc.mutate(&input)

			_, err := svc.Submit(context.Background(), input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			for _, issue := range verr.Issues {
				if issue.Field == tc.field {
					return
				}
			}
			t.Fatalf("expected issue on field %s, got %+v", tc.field, verr.Issues)
		})
	}
}

func submitOne(t *testing.T, svc *Service) LeaveRequest {
	t.Helper()
	created, err := svc.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return created
}

func TestRecommendForwardsPendingRequest(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	updated, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionApprove, "no objection")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if updated.Status != StatusRecommended {
		t.Fatalf("expected recommended, got %s", updated.Status)
	}
	if updated.RecommendedAt == nil {
		t.Fatal("expected recommendedAt to be stamped")
	}
	if updated.RecommendationNotes != "no objection" {
		t.Fatalf("unexpected notes: %q", updated.RecommendationNotes)
	}
}

func TestRecommendCanReject(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	updated, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionReject, "short staffed")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if updated.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
}

func TestRecommendWrongActorIsUnauthorized(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	if _, err := svc.Recommend(context.Background(), created.ID, "u-head", DecisionApprove, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecommendNonPendingIsInvalidTransition(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	if _, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionApprove, ""); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if _, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionApprove, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRecommendMissingRequest(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Recommend(context.Background(), "req-absent", "u-cc", DecisionApprove, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveRejectStampsNotes(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	if _, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionApprove, ""); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}

	updated, err := svc.Approve(context.Background(), created.ID, "u-head", DecisionReject, "conflict")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if updated.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
	if updated.ApprovalNotes != "conflict" {
		t.Fatalf("unexpected approval notes: %q", updated.ApprovalNotes)
	}
	if updated.ApprovedAt == nil {
		t.Fatal("expected approvedAt to be stamped")
	}
}

func TestApproveRequiresRecommendedStatus(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	if _, err := svc.Approve(context.Background(), created.ID, "u-head", DecisionApprove, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on pending record, got %v", err)
	}
}

func TestTerminalRecordsStayTerminal(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	if _, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionApprove, ""); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	final, err := svc.Approve(context.Background(), created.ID, "u-head", DecisionApprove, "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if final.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", final.Status)
	}

	if _, err := svc.Recommend(context.Background(), created.ID, "u-cc", DecisionApprove, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected terminal record to reject recommend, got %v", err)
	}
	if _, err := svc.Approve(context.Background(), created.ID, "u-head", DecisionReject, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected terminal record to reject approve, got %v", err)
	}

	reloaded, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.Status != StatusApproved {
		t.Fatalf("terminal status changed to %s", reloaded.Status)
	}
}

func TestListForReviewerUnion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	inputA := validSubmit()
	inputA.RecommendOfficerID = "u-head"
	inputA.ApproveOfficerID = "u-hod"
	createdA, err := svc.Submit(context.Background(), inputA)
	if err != nil {
		t.Fatalf("submit A failed: %v", err)
	}

	inputB := validSubmit()
	inputB.ApproveOfficerID = "u-head"
	createdB, err := svc.Submit(context.Background(), inputB)
	if err != nil {
		t.Fatalf("submit B failed: %v", err)
	}
	if _, err := svc.Recommend(context.Background(), createdB.ID, "u-cc", DecisionApprove, ""); err != nil {
		t.Fatalf("recommend B failed: %v", err)
	}

	queue, err := svc.ListForReviewer(context.Background(), "u-head")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected both requests in the queue, got %d", len(queue))
	}

	// Acting on both empties the reviewer queue.
	if _, err := svc.Recommend(context.Background(), createdA.ID, "u-head", DecisionApprove, ""); err != nil {
		t.Fatalf("recommend A failed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), createdB.ID, "u-head", DecisionApprove, ""); err != nil {
		t.Fatalf("approve B failed: %v", err)
	}
	// A is now recommended but u-head is not its approve officer; B is terminal.
	queue, err = svc.ListForReviewer(context.Background(), "u-head")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(queue))
	}
}

func TestDecisionMustBeKnown(t *testing.T) {
	svc := NewService(newFakeStore())
	created := submitOne(t, svc)

	_, err := svc.Recommend(context.Background(), created.ID, "u-cc", "forward", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unknown decision, got %v", err)
	}
}
