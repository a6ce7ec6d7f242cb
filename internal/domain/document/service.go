package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrForbidden = errors.New("document belongs to another user")
	ErrUpload    = errors.New("upload to object storage failed")
)

type StoreAPI interface {
	Insert(ctx context.Context, rec DocumentRecord) (DocumentRecord, error)
	Get(ctx context.Context, id string) (DocumentRecord, bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]DocumentRecord, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage is the external drive provider contract; the minio-backed
// implementation lives in internal/platform/storage.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedLink(ctx context.Context, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

type Service struct {
	Store   StoreAPI
	Objects ObjectStorage
	LinkTTL time.Duration
}

func NewService(store StoreAPI, objects ObjectStorage, linkTTL time.Duration) *Service {
	return &Service{Store: store, Objects: objects, LinkTTL: linkTTL}
}

// Upload streams the file into object storage under a per-owner key and
// records it. The object write happens first so a failed upload never leaves
// a dangling record.
func (s *Service) Upload(ctx context.Context, ownerID, fileName, contentType string, size int64, r io.Reader) (DocumentRecord, error) {
	key := objectKey(ownerID, fileName)
	if err := s.Objects.Upload(ctx, key, r, size, contentType); err != nil {
		return DocumentRecord{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	link, err := s.Objects.PresignedLink(ctx, key, s.LinkTTL)
	if err != nil {
		slog.Warn("presign after upload failed", "key", key, "err", err)
		link = ""
	}

	rec, err := s.Store.Insert(ctx, DocumentRecord{
		OwnerID:     ownerID,
		FileName:    fileName,
		ObjectKey:   key,
		Link:        link,
		ContentType: contentType,
		FileSize:    size,
	})
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("record document: %w", err)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]DocumentRecord, error) {
	records, err := s.Store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	// Links are re-presigned on every listing so stored links may expire
	// without breaking the UI.
	for i := range records {
		link, err := s.Objects.PresignedLink(ctx, records[i].ObjectKey, s.LinkTTL)
		if err == nil {
			records[i].Link = link
		}
	}
	return records, nil
}

// Delete removes the database record; removing the stored object is
// best-effort and a failure is only logged.
func (s *Service) Delete(ctx context.Context, actorID, id string, actorIsAdmin bool) error {
	rec, found, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if rec.OwnerID != actorID && !actorIsAdmin {
		return ErrForbidden
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Objects.Remove(ctx, rec.ObjectKey); err != nil {
		slog.Warn("object removal failed", "key", rec.ObjectKey, "err", err)
	}
	return nil
}

func objectKey(ownerID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ownerID + "/" + uuid.NewString() + ext
}
