package profile

import (
	"context"
	"errors"
	"strings"

	"staffhub/internal/domain/auth"
)

var ErrInvalidRole = errors.New("unknown role")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// ListUsers returns every account for the admin user management screen.
func (s *Service) ListUsers(ctx context.Context) ([]UserProfile, error) {
	return s.Store.ListUsers(ctx)
}

func (s *Service) ChangeRole(ctx context.Context, userID, role string) error {
	role = strings.TrimSpace(role)
	if !auth.ValidRole(role) {
		return ErrInvalidRole
	}
	return s.Store.UpdateUserRole(ctx, userID, role)
}

func (s *Service) AssignDivision(ctx context.Context, userID, divisionID string) error {
	return s.Store.UpdateUserDivision(ctx, userID, divisionID)
}

func (s *Service) SetStatus(ctx context.Context, userID, status string) error {
	return s.Store.SetUserStatus(ctx, userID, status)
}

func (s *Service) StaffByUserID(ctx context.Context, userID string) (StaffProfile, error) {
	return s.Store.StaffByUserID(ctx, userID)
}

// SaveStaff upserts the staff profile owned by userID. The user id on the
// payload is overwritten with the authenticated identity so a caller can
// never write another member's profile.
func (s *Service) SaveStaff(ctx context.Context, userID string, p StaffProfile) (StaffProfile, error) {
	p.UserID = userID
	return s.Store.UpsertStaff(ctx, p)
}

func (s *Service) Directory(ctx context.Context, divisionID string) ([]StaffProfile, error) {
	return s.Store.ListStaff(ctx, divisionID)
}
