package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffhub/internal/config"
	"staffhub/internal/domain/auth"
)

// Seed provisions the bootstrap admin account when one is configured and
// no user with that email exists yet.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", cfg.SeedAdminEmail).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	var userID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, display_name, role)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, cfg.SeedAdminEmail, hash, "Administrator", auth.RoleAdmin).Scan(&userID); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
    INSERT INTO staff_profiles (user_id, name, designation)
    VALUES ($1,$2,$3)
    ON CONFLICT (user_id) DO NOTHING
  `, userID, "Administrator", "System Administrator"); err != nil {
		return err
	}

	slog.Info("seeded admin user", "email", cfg.SeedAdminEmail)
	return nil
}
