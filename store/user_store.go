package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visitlens/api/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	var lastLogin sql.NullTime
	query := `
		SELECT id, email, hashed_password, last_login_at, created_at
		FROM admin_users
		WHERE email = $1;
	`
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&lastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin user %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin user by email: %w", err)
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

func (s *UserStore) RecordLogin(ctx context.Context, userID int, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE admin_users SET last_login_at = $1 WHERE id = $2;`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to record login for user %d: %w", userID, err)
	}
	return nil
}
