package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardStats is the summary block rendered on the landing page.
type DashboardStats struct {
	TotalStaff       int `json:"totalStaff"`
	ActiveLeaves     int `json:"activeLeaves"`
	PendingApprovals int `json:"pendingApprovals"`
	TotalDivisions   int `json:"totalDivisions"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(*) FROM users WHERE status = 'active'),
      (SELECT COUNT(*) FROM leave_requests WHERE status = 'approved' AND resume_date > NOW()),
      (SELECT COUNT(*) FROM leave_requests WHERE status IN ('pending','recommended')),
      (SELECT COUNT(*) FROM divisions)
  `).Scan(&stats.TotalStaff, &stats.ActiveLeaves, &stats.PendingApprovals, &stats.TotalDivisions)
	return stats, err
}

// LeaveCountByStatus feeds the status breakdown chart.
func (s *Store) LeaveCountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT status, COUNT(*) FROM leave_requests GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	return s.Store.Stats(ctx)
}

func (s *Service) LeaveBreakdown(ctx context.Context) (map[string]int, error) {
	return s.Store.LeaveCountByStatus(ctx)
}
