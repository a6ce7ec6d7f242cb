package division

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("division not found")
	ErrInUse    = errors.New("division still has staff assigned")
)

type Division struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HeadID      string    `json:"headId,omitempty"`
	CCID        string    `json:"ccId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanDivision(row pgx.Row) (Division, error) {
	var d Division
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.HeadID, &d.CCID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

const divisionColumns = `
    id, name, description, COALESCE(head_id::text, ''), COALESCE(cc_id::text, ''), created_at, updated_at`

func (s *Store) Create(ctx context.Context, d Division) (Division, error) {
	var head, cc any
	if d.HeadID != "" {
		head = d.HeadID
	}
	if d.CCID != "" {
		cc = d.CCID
	}
	return scanDivision(s.DB.QueryRow(ctx, `
    INSERT INTO divisions (name, description, head_id, cc_id)
    VALUES ($1,$2,$3,$4)
    RETURNING`+divisionColumns,
		d.Name, d.Description, head, cc))
}

func (s *Store) Update(ctx context.Context, d Division) (Division, error) {
	if uuid.Validate(d.ID) != nil {
		return Division{}, ErrNotFound
	}
	var head, cc any
	if d.HeadID != "" {
		head = d.HeadID
	}
	if d.CCID != "" {
		cc = d.CCID
	}
	updated, err := scanDivision(s.DB.QueryRow(ctx, `
    UPDATE divisions
    SET name = $1, description = $2, head_id = $3, cc_id = $4, updated_at = now()
    WHERE id = $5
    RETURNING`+divisionColumns,
		d.Name, d.Description, head, cc, d.ID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Division{}, ErrNotFound
	}
	return updated, err
}

func (s *Store) Get(ctx context.Context, id string) (Division, error) {
	if uuid.Validate(id) != nil {
		return Division{}, ErrNotFound
	}
	d, err := scanDivision(s.DB.QueryRow(ctx, `
    SELECT`+divisionColumns+`
    FROM divisions
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Division{}, ErrNotFound
	}
	return d, err
}

func (s *Store) List(ctx context.Context) ([]Division, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+divisionColumns+`
    FROM divisions
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []Division
	for rows.Next() {
		d, err := scanDivision(rows)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

func (s *Store) AssignedStaffCount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM users WHERE division_id = $1)
         + (SELECT COUNT(1) FROM staff_profiles WHERE division_id = $1)
  `, id).Scan(&count)
	return count, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM divisions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
