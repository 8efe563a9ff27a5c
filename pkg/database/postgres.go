package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/univisa-api/pkg/config"
)

// DSN renders the lib/pq connection string for the configured database.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Schema holds the DDL applied at startup. Statements are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS student_profiles (
        id TEXT PRIMARY KEY,
        full_name TEXT NOT NULL,
        university TEXT NOT NULL,
        country_of_origin TEXT NOT NULL,
        visa_type TEXT NOT NULL,
        program_start_date DATE NOT NULL,
        program_end_date DATE NOT NULL,
        enrollment_status TEXT NOT NULL,
        weekly_work_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
        on_opt BOOLEAN NOT NULL DEFAULT FALSE,
        on_cpt BOOLEAN NOT NULL DEFAULT FALSE,
        opt_start_date DATE,
        opt_end_date DATE,
        cpt_start_date DATE,
        cpt_end_date DATE,
        traveling_soon BOOLEAN NOT NULL DEFAULT FALSE,
        changing_employer BOOLEAN NOT NULL DEFAULT FALSE,
        changing_courses BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS cpt_requests (
        id TEXT PRIMARY KEY,
        student_id TEXT NOT NULL REFERENCES student_profiles(id),
        company_name TEXT NOT NULL,
        role TEXT NOT NULL,
        expected_start_date DATE NOT NULL,
        expected_end_date DATE NOT NULL,
        notes TEXT,
        status TEXT NOT NULL,
        signed_offer_uploaded_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_cpt_requests_student ON cpt_requests(student_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS dso_users (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        full_name TEXT NOT NULL,
        password_hash TEXT NOT NULL,
        active BOOLEAN NOT NULL DEFAULT TRUE,
        last_login_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
        id TEXT PRIMARY KEY,
        type TEXT NOT NULL,
        params JSONB NOT NULL DEFAULT '{}'::jsonb,
        status TEXT NOT NULL,
        progress INTEGER NOT NULL DEFAULT 0,
        result_url TEXT,
        created_by TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        finished_at TIMESTAMPTZ,
        error_message TEXT
    )`,
}

// Migrate applies Schema in order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
