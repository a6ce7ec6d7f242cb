package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"staffhub/internal/domain/notification"
)

// Scheduler owns periodic background work. The only job today is the
// reviewer digest, which nudges officers about requests waiting on them.
type Scheduler struct {
	DB       *pgxpool.Pool
	Notifier *notification.Service
	cron     *cron.Cron
}

func New(db *pgxpool.Pool, notifier *notification.Service) *Scheduler {
	return &Scheduler{
		DB:       db,
		Notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start registers the digest job under the given six-field cron spec and
// launches the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunDigest(context.Background()); err != nil {
			slog.Warn("reviewer digest failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("register digest job: %w", err)
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunDigest counts the requests sitting in each reviewer's queue and sends
// one notification per reviewer with work outstanding.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	rows, err := s.DB.Query(ctx, `
    SELECT officer_id, COUNT(*)
    FROM (
      SELECT recommend_officer_id AS officer_id FROM leave_requests WHERE status = 'pending'
      UNION ALL
      SELECT approve_officer_id FROM leave_requests WHERE status = 'recommended'
    ) queue
    GROUP BY officer_id
  `)
	if err != nil {
		return err
	}
	defer rows.Close()

	type entry struct {
		officerID string
		waiting   int
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.officerID, &e.waiting); err != nil {
			return err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, e := range entries {
		body := fmt.Sprintf("You have %d leave request(s) waiting for your action.", e.waiting)
		if err := s.Notifier.Notify(ctx, e.officerID, notification.KindDigest, "Pending leave requests", body); err != nil {
			slog.Warn("digest notification failed", "officer", e.officerID, "err", err)
		}
	}
	slog.Info("reviewer digest complete", "reviewers", len(entries))
	return nil
}
