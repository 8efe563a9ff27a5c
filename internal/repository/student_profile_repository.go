package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univisa-api/internal/models"
)

const studentProfileColumns = `id, full_name, university, country_of_origin, visa_type, program_start_date, program_end_date, enrollment_status, weekly_work_hours, on_opt, on_cpt, opt_start_date, opt_end_date, cpt_start_date, cpt_end_date, traveling_soon, changing_employer, changing_courses, created_at, updated_at`

// StudentProfileRepository manages persistence for student compliance profiles.
type StudentProfileRepository struct {
	db *sqlx.DB
}

// NewStudentProfileRepository constructs a StudentProfileRepository.
func NewStudentProfileRepository(db *sqlx.DB) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

// List returns profiles matching the filter ordered by name.
func (r *StudentProfileRepository) List(ctx context.Context, filter models.StudentProfileFilter) ([]models.StudentProfile, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where += fmt.Sprintf(" AND LOWER(full_name) LIKE $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM student_profiles %s ORDER BY full_name ASC, id ASC LIMIT %d OFFSET %d", studentProfileColumns, where, size, offset)
	var profiles []models.StudentProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list student profiles: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM student_profiles "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count student profiles: %w", err)
	}
	return profiles, total, nil
}

// ListAll returns every stored profile; used by the DSO cohort view.
func (r *StudentProfileRepository) ListAll(ctx context.Context) ([]models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM student_profiles ORDER BY created_at ASC, id ASC", studentProfileColumns)
	var profiles []models.StudentProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list all student profiles: %w", err)
	}
	return profiles, nil
}

// FindByID fetches a profile. sql.ErrNoRows is returned unwrapped when absent.
func (r *StudentProfileRepository) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM student_profiles WHERE id = $1", studentProfileColumns)
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Exists reports whether a profile with id is stored.
func (r *StudentProfileRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM student_profiles WHERE id = $1 LIMIT 1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student profile: %w", err)
	}
	return true, nil
}

// Create inserts a profile, generating an ID when empty.
func (r *StudentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	if profile.StudentID == "" {
		profile.StudentID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO student_profiles (id, full_name, university, country_of_origin, visa_type, program_start_date, program_end_date, enrollment_status, weekly_work_hours, on_opt, on_cpt, opt_start_date, opt_end_date, cpt_start_date, cpt_end_date, traveling_soon, changing_employer, changing_courses, created_at, updated_at)
        VALUES (:id, :full_name, :university, :country_of_origin, :visa_type, :program_start_date, :program_end_date, :enrollment_status, :weekly_work_hours, :on_opt, :on_cpt, :opt_start_date, :opt_end_date, :cpt_start_date, :cpt_end_date, :traveling_soon, :changing_employer, :changing_courses, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a profile.
func (r *StudentProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_profiles SET full_name = :full_name, university = :university, country_of_origin = :country_of_origin, visa_type = :visa_type, program_start_date = :program_start_date, program_end_date = :program_end_date, enrollment_status = :enrollment_status, weekly_work_hours = :weekly_work_hours, on_opt = :on_opt, on_cpt = :on_cpt, opt_start_date = :opt_start_date, opt_end_date = :opt_end_date, cpt_start_date = :cpt_start_date, cpt_end_date = :cpt_end_date, traveling_soon = :traveling_soon, changing_employer = :changing_employer, changing_courses = :changing_courses, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
