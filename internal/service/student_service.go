package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type studentProfileRepository interface {
	List(ctx context.Context, filter models.StudentProfileFilter) ([]models.StudentProfile, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
	Update(ctx context.Context, profile *models.StudentProfile) error
}

// StudentService handles student profile use-cases.
type StudentService struct {
	repo      studentProfileRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentProfileRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns profiles and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentProfileFilter) ([]models.StudentProfile, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	profiles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return profiles, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a stored profile.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentProfile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return profile, nil
}

// Create validates and stores a new profile, returning its generated ID.
func (s *StudentService) Create(ctx context.Context, req models.StudentProfileInput) (*models.CreateStudentProfileResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	profile := &models.StudentProfile{}
	applyProfileInput(profile, req)
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student profile created", zap.String("student_id", profile.StudentID), zap.String("visa_type", string(profile.VisaType)))
	return &models.CreateStudentProfileResponse{StudentID: profile.StudentID}, nil
}

// Update replaces the profile fields and drops any cached risk evaluations for it.
func (s *StudentService) Update(ctx context.Context, id string, req models.StudentProfileInput) (*models.StudentProfile, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProfileInput(profile, req)
	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	// Cache errors are already logged by the cache service.
	_ = s.cache.Invalidate(ctx, riskCachePattern(id))
	return profile, nil
}

func (s *StudentService) validate(req models.StudentProfileInput) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student profile payload")
	}
	if req.ProgramStartDate.IsZero() || req.ProgramEndDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "program_start_date and program_end_date are required")
	}
	if !req.ProgramStartDate.Before(req.ProgramEndDate) {
		return appErrors.Clone(appErrors.ErrValidation, "program_end_date must be after program_start_date")
	}
	if req.OPTStartDate != nil && req.OPTEndDate != nil && req.OPTEndDate.Before(*req.OPTStartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "opt_end_date must not precede opt_start_date")
	}
	if req.CPTStartDate != nil && req.CPTEndDate != nil && req.CPTEndDate.Before(*req.CPTStartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "cpt_end_date must not precede cpt_start_date")
	}
	return nil
}

func applyProfileInput(profile *models.StudentProfile, req models.StudentProfileInput) {
	profile.FullName = req.FullName
	profile.University = req.University
	profile.CountryOfOrigin = req.CountryOfOrigin
	profile.VisaType = req.VisaType
	profile.ProgramStartDate = req.ProgramStartDate
	profile.ProgramEndDate = req.ProgramEndDate
	profile.EnrollmentStatus = req.EnrollmentStatus
	profile.WeeklyWorkHours = req.WeeklyWorkHours
	profile.OnOPT = req.OnOPT
	profile.OnCPT = req.OnCPT
	profile.OPTStartDate = req.OPTStartDate
	profile.OPTEndDate = req.OPTEndDate
	profile.CPTStartDate = req.CPTStartDate
	profile.CPTEndDate = req.CPTEndDate
	profile.TravelingSoon = req.TravelingSoon
	profile.ChangingEmployer = req.ChangingEmployer
	profile.ChangingCourses = req.ChangingCourses
}
