package notification

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

type fakeNotifStore struct {
	rows   map[string]Notification
	emails map[string]string
	nextID int
}

func newFakeNotifStore() *fakeNotifStore {
	return &fakeNotifStore{rows: map[string]Notification{}, emails: map[string]string{}, nextID: 1}
}

func (f *fakeNotifStore) Insert(_ context.Context, n Notification) (Notification, error) {
	n.ID = "n-" + strconv.Itoa(f.nextID)
	n.CreatedAt = time.Now()
	f.nextID++
	f.rows[n.ID] = n
	return n, nil
}

func (f *fakeNotifStore) ListByRecipient(_ context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	var out []Notification
	for _, n := range f.rows {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifStore) UnreadCount(_ context.Context, recipientID string) (int, error) {
	count := 0
	for _, n := range f.rows {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifStore) MarkRead(_ context.Context, recipientID, id string) (bool, error) {
	n, ok := f.rows[id]
	if !ok || n.RecipientID != recipientID {
		return false, nil
	}
	n.Read = true
	f.rows[id] = n
	return true, nil
}

func (f *fakeNotifStore) MarkAllRead(_ context.Context, recipientID string) error {
	for id, n := range f.rows {
		if n.RecipientID == recipientID {
			n.Read = true
			f.rows[id] = n
		}
	}
	return nil
}

func (f *fakeNotifStore) RecipientEmail(_ context.Context, userID string) (string, error) {
	return f.emails[userID], nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, _, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestNotifyInsertsAndMails(t *testing.T) {
	store := newFakeNotifStore()
	store.emails["u-1"] = "jane@example.com"
	mailer := &recordingMailer{}
	svc := NewService(store, mailer, "noreply@example.com")

	if err := svc.Notify(context.Background(), "u-1", KindLeaveSubmitted, "Leave request", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.rows))
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "jane@example.com" {
		t.Fatalf("unexpected mail log %v", mailer.sent)
	}
}

func TestNotifyToleratesMailFailure(t *testing.T) {
	store := newFakeNotifStore()
	store.emails["u-1"] = "jane@example.com"
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewService(store, mailer, "noreply@example.com")

	if err := svc.Notify(context.Background(), "u-1", KindLeaveDecided, "Decided", "body"); err != nil {
		t.Fatalf("Notify should not fail on mail error: %v", err)
	}
	if len(store.rows) != 1 {
		t.Fatal("notification row missing")
	}
}

func TestNotifySkipsEmptyRecipient(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewService(store, &recordingMailer{}, "noreply@example.com")
	if err := svc.Notify(context.Background(), "", KindLeaveDecided, "t", "b"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("row inserted for empty recipient")
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewService(store, &recordingMailer{}, "noreply@example.com")
	if err := svc.Notify(context.Background(), "u-1", KindLeaveSubmitted, "t", "b"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if err := svc.MarkRead(context.Background(), "u-2", "n-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong recipient, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), "u-1", "n-1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, err := svc.UnreadCount(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
}
