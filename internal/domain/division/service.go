package division

import (
	"context"
	"errors"
	"strings"
)

var ErrNameRequired = errors.New("division name required")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, d Division) (Division, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Division{}, ErrNameRequired
	}
	return s.Store.Create(ctx, d)
}

func (s *Service) Update(ctx context.Context, d Division) (Division, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Division{}, ErrNameRequired
	}
	return s.Store.Update(ctx, d)
}

func (s *Service) Get(ctx context.Context, id string) (Division, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Division, error) {
	return s.Store.List(ctx)
}

// Delete refuses to remove a division while users or staff profiles still
// reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.Store.AssignedStaffCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	return s.Store.Delete(ctx, id)
}
