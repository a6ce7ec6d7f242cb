package notification

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNotFound = errors.New("notification not found")

type StoreAPI interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID, id string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) error
	RecipientEmail(ctx context.Context, userID string) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	Store     StoreAPI
	Mailer    Mailer
	EmailFrom string
}

func NewService(store StoreAPI, mailer Mailer, emailFrom string) *Service {
	return &Service{Store: store, Mailer: mailer, EmailFrom: emailFrom}
}

// Notify records an in-app notification and mirrors it to the recipient's
// mailbox. Email delivery is best-effort; a send failure never fails the
// triggering operation.
func (s *Service) Notify(ctx context.Context, recipientID, kind, title, body string) error {
	if recipientID == "" {
		return nil
	}
	if _, err := s.Store.Insert(ctx, Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
	}); err != nil {
		return err
	}

	email, err := s.Store.RecipientEmail(ctx, recipientID)
	if err != nil {
		slog.Warn("recipient email lookup failed", "recipient", recipientID, "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.EmailFrom, email, title, body); err != nil {
		slog.Warn("notification email failed", "recipient", recipientID, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	return s.Store.ListByRecipient(ctx, recipientID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.Store.UnreadCount(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, recipientID, id string) error {
	ok, err := s.Store.MarkRead(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.Store.MarkAllRead(ctx, recipientID)
}
