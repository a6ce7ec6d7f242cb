package leave

import "context"

// StoreAPI is the persistence contract of the workflow service. The pgx
// implementation lives in store.go; tests substitute an in-memory fake.
type StoreAPI interface {
	Insert(ctx context.Context, req LeaveRequest) (string, error)
	Get(ctx context.Context, id string) (LeaveRequest, bool, error)
	// SetRecommendation moves a pending request to toStatus, stamping the
	// recommendation fields. It reports false when the request was no longer
	// pending, leaving the row untouched.
	SetRecommendation(ctx context.Context, id, toStatus, notes string) (bool, error)
	// SetApproval moves a recommended request to toStatus, stamping the
	// approval fields. It reports false when the request was no longer
	// recommended.
	SetApproval(ctx context.Context, id, toStatus, notes string) (bool, error)
	ListByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error)
	ListForReviewer(ctx context.Context, officerID string) ([]LeaveRequest, error)
	ListAll(ctx context.Context, limit, offset int) ([]LeaveRequest, int, error)
	UserRole(ctx context.Context, userID string) (string, bool, error)
	RequesterSnapshot(ctx context.Context, userID string) (name, designation string, err error)
}
