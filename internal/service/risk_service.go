package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type riskProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
}

// RiskService loads profiles, runs the risk engine and caches the outcome per reference date.
type RiskService struct {
	repo     riskProfileRepository
	engine   *RiskEngine
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRiskService constructs the risk service.
func NewRiskService(repo riskProfileRepository, engine *RiskEngine, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *RiskService {
	if engine == nil {
		engine = NewRiskEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{repo: repo, engine: engine, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Evaluate returns the risk output of a stored student as of date and whether it
// came from the cache. A zero date means today.
func (s *RiskService) Evaluate(ctx context.Context, studentID string, date models.Date) (*models.RiskOutput, bool, error) {
	if date.IsZero() {
		date = models.Today()
	}
	key := riskCacheKey(studentID, date)
	var cached models.RiskOutput
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	profile, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	output := s.EvaluateProfile(*profile, date)
	_ = s.cache.Set(ctx, key, output, s.cacheTTL)
	return &output, false, nil
}

// EvaluateProfile scores an already loaded profile without touching the cache.
func (s *RiskService) EvaluateProfile(profile models.StudentProfile, date models.Date) models.RiskOutput {
	output := s.engine.CalculateRisk(profile, date)
	s.metrics.RecordRiskEvaluation(output)
	s.logger.Debug("risk evaluated",
		zap.String("student_id", profile.StudentID),
		zap.Int("risk_score", output.RiskScore),
		zap.Int("flags", len(output.Flags)),
	)
	return output
}

// Alerts returns the urgency-ordered alerts of a student's evaluation.
func (s *RiskService) Alerts(ctx context.Context, studentID string, date models.Date) ([]models.Alert, bool, error) {
	output, cacheHit, err := s.Evaluate(ctx, studentID, date)
	if err != nil {
		return nil, false, err
	}
	return output.Alerts, cacheHit, nil
}

func riskCacheKey(studentID string, date models.Date) string {
	return fmt.Sprintf("risk:%s:%s", studentID, date.String())
}

func riskCachePattern(studentID string) string {
	return fmt.Sprintf("risk:%s:*", studentID)
}
