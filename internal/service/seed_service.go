package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/univisa-api/internal/models"
)

type seedProfileRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
}

type seedDSORepository interface {
	Upsert(ctx context.Context, user *models.DSOUser) error
}

// SeedOptions selects which startup records are written.
type SeedOptions struct {
	DemoStudent bool
	DSOEmail    string
	DSOPassword string
	DSOName     string
}

// SeedService writes the demo student and the bootstrap DSO account.
type SeedService struct {
	profiles seedProfileRepository
	dsos     seedDSORepository
	opts     SeedOptions
	logger   *zap.Logger
}

// NewSeedService constructs the seeder.
func NewSeedService(profiles seedProfileRepository, dsos seedDSORepository, opts SeedOptions, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{profiles: profiles, dsos: dsos, opts: opts, logger: logger}
}

// DemoProfile returns the profile used for demos and chat fallback.
func DemoProfile() models.StudentProfile {
	return models.StudentProfile{
		StudentID:        models.DemoStudentID,
		FullName:         "Riya Sharma",
		University:       "Georgia Institute of Technology",
		CountryOfOrigin:  "India",
		VisaType:         models.VisaTypeF1,
		ProgramStartDate: models.NewDate(2024, time.August, 15),
		ProgramEndDate:   models.NewDate(2026, time.May, 15),
		EnrollmentStatus: models.EnrollmentFullTime,
		WeeklyWorkHours:  18,
	}
}

// Run applies every enabled seed. An existing demo profile is left untouched.
func (s *SeedService) Run(ctx context.Context) error {
	if s.opts.DemoStudent {
		if err := s.seedDemoStudent(ctx); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.opts.DSOEmail) != "" && s.opts.DSOPassword != "" {
		if err := s.seedDSO(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) seedDemoStudent(ctx context.Context) error {
	exists, err := s.profiles.Exists(ctx, models.DemoStudentID)
	if err != nil {
		return fmt.Errorf("check demo student: %w", err)
	}
	if exists {
		return nil
	}
	profile := DemoProfile()
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return fmt.Errorf("seed demo student: %w", err)
	}
	s.logger.Info("demo student seeded", zap.String("student_id", profile.StudentID))
	return nil
}

func (s *SeedService) seedDSO(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.opts.DSOPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dso password: %w", err)
	}
	name := strings.TrimSpace(s.opts.DSOName)
	if name == "" {
		name = "Designated School Official"
	}
	user := &models.DSOUser{
		Email:        strings.ToLower(strings.TrimSpace(s.opts.DSOEmail)),
		FullName:     name,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.dsos.Upsert(ctx, user); err != nil {
		return fmt.Errorf("seed dso user: %w", err)
	}
	s.logger.Info("dso account ensured", zap.String("email", user.Email))
	return nil
}
