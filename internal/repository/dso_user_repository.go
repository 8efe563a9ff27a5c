package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univisa-api/internal/models"
)

// DSOUserRepository provides database access for DSO accounts.
type DSOUserRepository struct {
	db *sqlx.DB
}

// NewDSOUserRepository creates a new instance of DSOUserRepository.
func NewDSOUserRepository(db *sqlx.DB) *DSOUserRepository {
	return &DSOUserRepository{db: db}
}

// FindByEmail returns a DSO by email address.
func (r *DSOUserRepository) FindByEmail(ctx context.Context, email string) (*models.DSOUser, error) {
	const query = `SELECT id, email, full_name, password_hash, active, last_login_at, created_at FROM dso_users WHERE email = $1 LIMIT 1`
	var user models.DSOUser
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find dso by email: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin stamps a successful login.
func (r *DSOUserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE dso_users SET last_login_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update dso last login: %w", err)
	}
	return nil
}

// Upsert creates the account or refreshes its name and password hash by email.
func (r *DSOUserRepository) Upsert(ctx context.Context, user *models.DSOUser) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO dso_users (id, email, full_name, password_hash, active, created_at)
VALUES (:id, :email, :full_name, :password_hash, :active, :created_at)
ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, password_hash = EXCLUDED.password_hash, active = EXCLUDED.active`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("upsert dso user: %w", err)
	}
	return nil
}
