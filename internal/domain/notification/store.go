package notification

import (
	"context"
	"errors"

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

func (s *Store) Insert(ctx context.Context, n Notification) (Notification, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO notifications (recipient_id, kind, title, body)
    VALUES ($1,$2,$3,$4)
    RETURNING id, read, created_at
  `, n.RecipientID, n.Kind, n.Title, n.Body).Scan(&n.ID, &n.Read, &n.CreatedAt)
	return n, err
}

func (s *Store) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, recipient_id, kind, title, body, read, created_at
    FROM notifications
    WHERE recipient_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE",
		recipientID).Scan(&count)
	return count, err
}

// MarkRead is scoped to the recipient so one user cannot clear another's
// notifications.
func (s *Store) MarkRead(ctx context.Context, recipientID, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2",
		id, recipientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE",
		recipientID)
	return err
}

func (s *Store) RecipientEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx,
		"SELECT email FROM users WHERE id = $1 AND status = 'active'",
		userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return email, err
}
