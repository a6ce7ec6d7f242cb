package document

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

func (s *Store) Insert(ctx context.Context, rec DocumentRecord) (DocumentRecord, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (owner_id, file_name, object_key, link, content_type, file_size)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, uploaded_at
  `, rec.OwnerID, rec.FileName, rec.ObjectKey, rec.Link, rec.ContentType, rec.FileSize).Scan(&rec.ID, &rec.UploadedAt)
	return rec, err
}

func (s *Store) Get(ctx context.Context, id string) (DocumentRecord, bool, error) {
	if uuid.Validate(id) != nil {
		return DocumentRecord{}, false, nil
	}
	var rec DocumentRecord
	err := s.DB.QueryRow(ctx, `
    SELECT id, owner_id, file_name, object_key, link, content_type, file_size, uploaded_at
    FROM documents
    WHERE id = $1
  `, id).Scan(&rec.ID, &rec.OwnerID, &rec.FileName, &rec.ObjectKey, &rec.Link, &rec.ContentType, &rec.FileSize, &rec.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DocumentRecord{}, false, nil
	}
	if err != nil {
		return DocumentRecord{}, false, err
	}
	return rec, true, nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]DocumentRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, owner_id, file_name, object_key, link, content_type, file_size, uploaded_at
    FROM documents
    WHERE owner_id = $1
    ORDER BY uploaded_at DESC
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.FileName, &rec.ObjectKey, &rec.Link, &rec.ContentType, &rec.FileSize, &rec.UploadedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}
