package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univisa-api/internal/models"
)

const cptRequestColumns = `id, student_id, company_name, role, expected_start_date, expected_end_date, notes, status, signed_offer_uploaded_at, created_at, updated_at`

// CPTRequestRepository persists CPT requests.
type CPTRequestRepository struct {
	db *sqlx.DB
}

// NewCPTRequestRepository constructs the repository.
func NewCPTRequestRepository(db *sqlx.DB) *CPTRequestRepository {
	return &CPTRequestRepository{db: db}
}

// Create inserts a request with generated defaults.
func (r *CPTRequestRepository) Create(ctx context.Context, req *models.CPTRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.CPTStatusIntent
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}
	const query = `INSERT INTO cpt_requests (id, student_id, company_name, role, expected_start_date, expected_end_date, notes, status, signed_offer_uploaded_at, created_at, updated_at)
VALUES (:id, :student_id, :company_name, :role, :expected_start_date, :expected_end_date, :notes, :status, :signed_offer_uploaded_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create cpt request: %w", err)
	}
	return nil
}

// FindByID returns a request. sql.ErrNoRows is returned unwrapped when absent.
func (r *CPTRequestRepository) FindByID(ctx context.Context, id string) (*models.CPTRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM cpt_requests WHERE id = $1", cptRequestColumns)
	var req models.CPTRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByStudent returns a student's requests, newest first.
func (r *CPTRequestRepository) ListByStudent(ctx context.Context, studentID string) ([]models.CPTRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM cpt_requests WHERE student_id = $1 ORDER BY created_at DESC", cptRequestColumns)
	reqs := []models.CPTRequest{}
	if err := r.db.SelectContext(ctx, &reqs, query, studentID); err != nil {
		return nil, fmt.Errorf("list cpt requests: %w", err)
	}
	return reqs, nil
}

// ListAllWithStudent returns every request joined with the owning student's name, newest first.
func (r *CPTRequestRepository) ListAllWithStudent(ctx context.Context) ([]models.CPTRequestWithStudent, error) {
	const query = `SELECT r.id, r.student_id, r.company_name, r.role, r.expected_start_date, r.expected_end_date, r.notes, r.status, r.signed_offer_uploaded_at, r.created_at, r.updated_at,
        COALESCE(s.full_name, r.student_id) AS student_name
        FROM cpt_requests r LEFT JOIN student_profiles s ON s.id = r.student_id
        ORDER BY r.created_at DESC`
	reqs := []models.CPTRequestWithStudent{}
	if err := r.db.SelectContext(ctx, &reqs, query); err != nil {
		return nil, fmt.Errorf("list all cpt requests: %w", err)
	}
	return reqs, nil
}

// Update persists the status fields of a request.
func (r *CPTRequestRepository) Update(ctx context.Context, req *models.CPTRequest) error {
	const query = `UPDATE cpt_requests SET status = :status, signed_offer_uploaded_at = :signed_offer_uploaded_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("update cpt request: %w", err)
	}
	return nil
}
