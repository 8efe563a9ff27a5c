package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type cptRequestRepository interface {
	Create(ctx context.Context, req *models.CPTRequest) error
	FindByID(ctx context.Context, id string) (*models.CPTRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.CPTRequest, error)
	ListAllWithStudent(ctx context.Context) ([]models.CPTRequestWithStudent, error)
	Update(ctx context.Context, req *models.CPTRequest) error
}

type studentExistenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CPTService tracks CPT requests that students open before signing an offer.
type CPTService struct {
	repo      cptRequestRepository
	students  studentExistenceChecker
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCPTService constructs the CPT service.
func NewCPTService(repo cptRequestRepository, students studentExistenceChecker, validate *validator.Validate, logger *zap.Logger) *CPTService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CPTService{repo: repo, students: students, validator: validate, logger: logger, now: time.Now}
}

// Create opens a request in the intent state for an existing student.
func (s *CPTService) Create(ctx context.Context, studentID string, req models.CreateCPTRequest) (*models.CPTRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid CPT request payload")
	}
	if req.ExpectedStartDate.IsZero() || req.ExpectedEndDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expected_start_date and expected_end_date are required")
	}
	if req.ExpectedEndDate.Before(req.ExpectedStartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expected_end_date must not precede expected_start_date")
	}
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	request := &models.CPTRequest{
		StudentID:         studentID,
		CompanyName:       req.CompanyName,
		Role:              req.Role,
		ExpectedStartDate: req.ExpectedStartDate,
		ExpectedEndDate:   req.ExpectedEndDate,
		Notes:             req.Notes,
		Status:            models.CPTStatusIntent,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create CPT request")
	}
	s.logger.Info("cpt request opened", zap.String("request_id", request.ID), zap.String("student_id", studentID))
	return request, nil
}

// ListByStudent returns a student's requests, newest first.
func (s *CPTService) ListByStudent(ctx context.Context, studentID string) ([]models.CPTRequest, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list CPT requests")
	}
	return requests, nil
}

// ListAll returns every request with the owning student's name for DSO review.
func (s *CPTService) ListAll(ctx context.Context) ([]models.CPTRequestWithStudent, error) {
	requests, err := s.repo.ListAllWithStudent(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list CPT requests")
	}
	return requests, nil
}

// Update applies a status transition. offer_signed is accepted only from intent and stamps
// the upload time; approved and rejected are accepted from any state. Any other value only
// refreshes updated_at.
func (s *CPTService) Update(ctx context.Context, studentID, requestID string, req models.UpdateCPTRequest) (*models.CPTRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCPTNotFound, "CPT request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load CPT request")
	}
	if request.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not your request")
	}

	now := s.now().UTC()
	request.UpdatedAt = now
	switch {
	case req.Status == models.CPTStatusOfferSigned && request.Status == models.CPTStatusIntent:
		request.Status = models.CPTStatusOfferSigned
		request.SignedOfferUploadedAt = &now
	case req.Status == models.CPTStatusApproved, req.Status == models.CPTStatusRejected:
		request.Status = req.Status
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update CPT request")
	}
	return request, nil
}

func (s *CPTService) ensureStudent(ctx context.Context, studentID string) error {
	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", studentID))
	}
	return nil
}
