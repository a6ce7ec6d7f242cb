package document

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type fakeDocStore struct {
	records map[string]DocumentRecord
	nextID  int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{records: map[string]DocumentRecord{}, nextID: 1}
}

func (f *fakeDocStore) Insert(_ context.Context, rec DocumentRecord) (DocumentRecord, error) {
	rec.ID = "doc-" + string(rune('0'+f.nextID))
	rec.UploadedAt = time.Now()
	f.nextID++
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeDocStore) Get(_ context.Context, id string) (DocumentRecord, bool, error) {
	rec, ok := f.records[id]
	return rec, ok, nil
}

func (f *fakeDocStore) ListByOwner(_ context.Context, ownerID string) ([]DocumentRecord, error) {
	var out []DocumentRecord
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeDocStore) Delete(_ context.Context, id string) error {
	delete(f.records, id)
	return nil
}

type fakeObjects struct {
	uploaded  map[string]string
	removed   []string
	uploadErr error
	removeErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{uploaded: map[string]string{}}
}

func (f *fakeObjects) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	b, _ := io.ReadAll(r)
	f.uploaded[key] = string(b)
	return nil
}

func (f *fakeObjects) PresignedLink(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.example/" + key, nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, key)
	return nil
}

func TestUploadStoresObjectAndRecord(t *testing.T) {
	store := newFakeDocStore()
	objects := newFakeObjects()
	svc := NewService(store, objects, time.Hour)

	rec, err := svc.Upload(context.Background(), "u-1", "report.pdf", "application/pdf", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected record id")
	}
	if !strings.HasPrefix(rec.ObjectKey, "u-1/") || !strings.HasSuffix(rec.ObjectKey, ".pdf") {
		t.Fatalf("unexpected object key %q", rec.ObjectKey)
	}
	if objects.uploaded[rec.ObjectKey] != "data" {
		t.Fatal("object body not stored")
	}
	if rec.Link == "" {
		t.Fatal("expected presigned link")
	}
}

func TestUploadFailureLeavesNoRecord(t *testing.T) {
	store := newFakeDocStore()
	objects := newFakeObjects()
	objects.uploadErr = errors.New("bucket down")
	svc := NewService(store, objects, time.Hour)

	_, err := svc.Upload(context.Background(), "u-1", "a.txt", "text/plain", 1, strings.NewReader("x"))
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if len(store.records) != 0 {
		t.Fatal("record written despite failed upload")
	}
}

func TestListRefreshesLinks(t *testing.T) {
	store := newFakeDocStore()
	objects := newFakeObjects()
	svc := NewService(store, objects, time.Hour)

	rec, err := svc.Upload(context.Background(), "u-1", "a.txt", "text/plain", 1, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	stored := store.records[rec.ID]
	stored.Link = "stale"
	store.records[rec.ID] = stored

	docs, err := svc.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Link == "stale" {
		t.Fatal("link was not refreshed")
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	store := newFakeDocStore()
	objects := newFakeObjects()
	svc := NewService(store, objects, time.Hour)

	rec, err := svc.Upload(context.Background(), "u-1", "a.txt", "text/plain", 1, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(context.Background(), "u-2", rec.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "u-1", rec.ID, false); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := store.records[rec.ID]; ok {
		t.Fatal("record still present after delete")
	}
	if len(objects.removed) != 1 || objects.removed[0] != rec.ObjectKey {
		t.Fatalf("object not removed, removed=%v", objects.removed)
	}
}

func TestAdminMayDeleteAnyDocument(t *testing.T) {
	store := newFakeDocStore()
	objects := newFakeObjects()
	svc := NewService(store, objects, time.Hour)

	rec, err := svc.Upload(context.Background(), "u-1", "a.txt", "text/plain", 1, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := svc.Delete(context.Background(), "admin-1", rec.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestDeleteSurvivesObjectRemovalFailure(t *testing.T) {
	store := newFakeDocStore()
	objects := newFakeObjects()
	svc := NewService(store, objects, time.Hour)

	rec, err := svc.Upload(context.Background(), "u-1", "a.txt", "text/plain", 1, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	objects.removeErr = errors.New("gone already")
	if err := svc.Delete(context.Background(), "u-1", rec.ID, false); err != nil {
		t.Fatalf("delete should tolerate object removal failure: %v", err)
	}
	if _, ok := store.records[rec.ID]; ok {
		t.Fatal("record still present")
	}
}

func TestDeleteMissingDocument(t *testing.T) {
	svc := NewService(newFakeDocStore(), newFakeObjects(), time.Hour)
	if err := svc.Delete(context.Background(), "u-1", "nope", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
