package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("profile not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) UserByID(ctx context.Context, userID string) (UserProfile, error) {
	if uuid.Validate(userID) != nil {
		return UserProfile{}, ErrNotFound
	}
	var out UserProfile
	var divisionID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, display_name, role, division_id::text, status, created_at, last_login
    FROM users
    WHERE id = $1
  `, userID).Scan(&out.ID, &out.Email, &out.DisplayName, &out.Role, &divisionID, &out.Status, &out.CreatedAt, &out.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserProfile{}, ErrNotFound
	}
	if err != nil {
		return UserProfile{}, err
	}
	if divisionID != nil {
		out.DivisionID = *divisionID
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]UserProfile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, email, display_name, role, division_id::text, status, created_at, last_login
    FROM users
    ORDER BY display_name, email
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserProfile
	for rows.Next() {
		var u UserProfile
		var divisionID *string
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &divisionID, &u.Status, &u.CreatedAt, &u.LastLogin); err != nil {
			return nil, err
		}
		if divisionID != nil {
			u.DivisionID = *divisionID
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserRole(ctx context.Context, userID, role string) error {
	if uuid.Validate(userID) != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, "UPDATE users SET role = $1 WHERE id = $2", role, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserDivision(ctx context.Context, userID, divisionID string) error {
	if uuid.Validate(userID) != nil {
		return ErrNotFound
	}
	var division any
	if divisionID != "" {
		if uuid.Validate(divisionID) != nil {
			return ErrNotFound
		}
		division = divisionID
	}
	tag, err := s.DB.Exec(ctx, "UPDATE users SET division_id = $1 WHERE id = $2", division, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetUserStatus(ctx context.Context, userID, status string) error {
	if uuid.Validate(userID) != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, "UPDATE users SET status = $1 WHERE id = $2", status, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const staffColumns = `
    id, user_id, name, nic, designation, date_of_birth, mobile_number,
    appointment_date, working_history, inventory, profile_image_url,
    COALESCE(division_id::text, ''), created_at, updated_at`

func scanStaff(row pgx.Row) (StaffProfile, error) {
	var p StaffProfile
	var history, inventory []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.NIC, &p.Designation, &p.DateOfBirth, &p.MobileNumber,
		&p.AppointmentDate, &history, &inventory, &p.ProfileImageURL,
		&p.DivisionID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return StaffProfile{}, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.WorkingHistory); err != nil {
			return StaffProfile{}, fmt.Errorf("decode working history: %w", err)
		}
	}
	if len(inventory) > 0 {
		if err := json.Unmarshal(inventory, &p.Inventory); err != nil {
			return StaffProfile{}, fmt.Errorf("decode inventory: %w", err)
		}
	}
	return p, nil
}

func (s *Store) StaffByUserID(ctx context.Context, userID string) (StaffProfile, error) {
	if uuid.Validate(userID) != nil {
		return StaffProfile{}, ErrNotFound
	}
	p, err := scanStaff(s.DB.QueryRow(ctx, `
    SELECT`+staffColumns+`
    FROM staff_profiles
    WHERE user_id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffProfile{}, ErrNotFound
	}
	return p, err
}

func (s *Store) UpsertStaff(ctx context.Context, p StaffProfile) (StaffProfile, error) {
	history, err := json.Marshal(p.WorkingHistory)
	if err != nil {
		return StaffProfile{}, err
	}
	if p.WorkingHistory == nil {
		history = []byte("[]")
	}
	inventory, err := json.Marshal(p.Inventory)
	if err != nil {
		return StaffProfile{}, err
	}
	var division any
	if p.DivisionID != "" {
		division = p.DivisionID
	}
	var dob, appointed any
	if p.DateOfBirth != nil {
		dob = *p.DateOfBirth
	}
	if p.AppointmentDate != nil {
		appointed = *p.AppointmentDate
	}

	row := s.DB.QueryRow(ctx, `
    INSERT INTO staff_profiles (
      user_id, name, nic, designation, date_of_birth, mobile_number,
      appointment_date, working_history, inventory, profile_image_url, division_id
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (user_id) DO UPDATE SET
      name = EXCLUDED.name,
      nic = EXCLUDED.nic,
      designation = EXCLUDED.designation,
      date_of_birth = EXCLUDED.date_of_birth,
      mobile_number = EXCLUDED.mobile_number,
      appointment_date = EXCLUDED.appointment_date,
      working_history = EXCLUDED.working_history,
      inventory = EXCLUDED.inventory,
      profile_image_url = EXCLUDED.profile_image_url,
      division_id = EXCLUDED.division_id,
      updated_at = now()
    RETURNING`+staffColumns,
		p.UserID, p.Name, p.NIC, p.Designation, dob, p.MobileNumber,
		appointed, history, inventory, p.ProfileImageURL, division)
	return scanStaff(row)
}

func (s *Store) ListStaff(ctx context.Context, divisionID string) ([]StaffProfile, error) {
	query := `
    SELECT` + staffColumns + `
    FROM staff_profiles`
	args := []any{}
	if divisionID != "" {
		query += " WHERE division_id = $1"
		args = append(args, divisionID)
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []StaffProfile
	for rows.Next() {
		p, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Store) EnsureStaffRow(ctx context.Context, userID, name string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO staff_profiles (user_id, name)
    VALUES ($1,$2)
    ON CONFLICT (user_id) DO NOTHING
  `, userID, name)
	return err
}
