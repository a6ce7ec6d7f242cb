package leave

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

const requestColumns = `
    id, requester_id, staff_name, staff_designation, leave_type,
    start_date, resume_date, days, reason,
    COALESCE(acting_officer_id::text, ''), recommend_officer_id, approve_officer_id,
    status, recommendation_notes, recommended_at, approval_notes, approved_at,
    created_at, updated_at`

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var req LeaveRequest
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.StaffName, &req.StaffDesignation, &req.LeaveType,
		&req.StartDate, &req.ResumeDate, &req.Days, &req.Reason,
		&req.ActingOfficerID, &req.RecommendOfficerID, &req.ApproveOfficerID,
		&req.Status, &req.RecommendationNotes, &req.RecommendedAt, &req.ApprovalNotes, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (s *Store) Insert(ctx context.Context, req LeaveRequest) (string, error) {
	var actingOfficer any
	if req.ActingOfficerID != "" {
		actingOfficer = req.ActingOfficerID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (
      requester_id, staff_name, staff_designation, leave_type,
      start_date, resume_date, days, reason,
      acting_officer_id, recommend_officer_id, approve_officer_id, status
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, req.RequesterID, req.StaffName, req.StaffDesignation, req.LeaveType,
		req.StartDate, req.ResumeDate, req.Days, req.Reason,
		actingOfficer, req.RecommendOfficerID, req.ApproveOfficerID, StatusPending).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (LeaveRequest, bool, error) {
	// A malformed id can never match a uuid column; report not-found
	// instead of letting the driver fail the conversion.
	if uuid.Validate(id) != nil {
		return LeaveRequest{}, false, nil
	}
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, false, nil
	}
	if err != nil {
		return LeaveRequest{}, false, err
	}
	return req, true, nil
}

func (s *Store) SetRecommendation(ctx context.Context, id, toStatus, notes string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, recommendation_notes = $2, recommended_at = now(), updated_at = now()
    WHERE id = $3 AND status = $4
  `, toStatus, notes, id, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SetApproval(ctx context.Context, id, toStatus, notes string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, approval_notes = $2, approved_at = now(), updated_at = now()
    WHERE id = $3 AND status = $4
  `, toStatus, notes, id, StatusRecommended)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE requester_id = $1
    ORDER BY created_at DESC
  `, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListForReviewer returns the reviewer's work queue: pending requests naming
// the officer as recommender plus recommended requests naming the officer as
// approver, newest first.
func (s *Store) ListForReviewer(ctx context.Context, officerID string) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE (recommend_officer_id = $1 AND status = $2)
       OR (approve_officer_id = $1 AND status = $3)
    ORDER BY created_at DESC
  `, officerID, StatusPending, StatusRecommended)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]LeaveRequest, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests, err := collectRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *Store) UserRole(ctx context.Context, userID string) (string, bool, error) {
	var role string
	err := s.DB.QueryRow(ctx, "SELECT role FROM users WHERE id = $1 AND status = 'active'", userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

func (s *Store) RequesterSnapshot(ctx context.Context, userID string) (string, string, error) {
	var name, designation string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(NULLIF(p.name, ''), u.display_name), COALESCE(p.designation, '')
    FROM users u
    LEFT JOIN staff_profiles p ON p.user_id = u.id
    WHERE u.id = $1
  `, userID).Scan(&name, &designation)
	if err != nil {
		return "", "", err
	}
	return name, designation, nil
}

func collectRequests(rows pgx.Rows) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
