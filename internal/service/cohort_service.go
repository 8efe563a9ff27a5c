package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type cohortProfileRepository interface {
	ListAll(ctx context.Context) ([]models.StudentProfile, error)
}

type profileEvaluator interface {
	EvaluateProfile(profile models.StudentProfile, date models.Date) models.RiskOutput
}

// CohortService builds the DSO dashboard view of every stored student.
type CohortService struct {
	repo        cohortProfileRepository
	evaluator   profileEvaluator
	concurrency int
	logger      *zap.Logger
}

// NewCohortService constructs the cohort service.
func NewCohortService(repo cohortProfileRepository, evaluator profileEvaluator, concurrency int, logger *zap.Logger) *CohortService {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CohortService{repo: repo, evaluator: evaluator, concurrency: concurrency, logger: logger}
}

// Cohort evaluates all profiles as of date and returns rows ordered by risk score, highest first.
// Students with equal scores keep their repository order.
func (s *CohortService) Cohort(ctx context.Context, date models.Date) ([]dto.CohortRow, error) {
	if date.IsZero() {
		date = models.Today()
	}
	profiles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort")
	}

	rows := make([]dto.CohortRow, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range profiles {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = cohortRow(profiles[i], s.evaluator.EvaluateProfile(profiles[i], date))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "cohort evaluation aborted")
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RiskScore > rows[j].RiskScore
	})
	s.logger.Debug("cohort evaluated", zap.Int("students", len(rows)), zap.String("as_of", date.String()))
	return rows, nil
}

func cohortRow(profile models.StudentProfile, output models.RiskOutput) dto.CohortRow {
	top := models.NoRiskFlagLabel
	if len(output.Flags) > 0 {
		top = output.Flags[0].Category
	}
	return dto.CohortRow{
		StudentID:       profile.StudentID,
		FullName:        profile.FullName,
		CountryOfOrigin: profile.CountryOfOrigin,
		VisaType:        profile.VisaType,
		ProgramEndDate:  profile.ProgramEndDate,
		RiskScore:       output.RiskScore,
		RiskLevel:       output.RiskLevel,
		TopRiskFlag:     top,
		Flags:           output.Flags,
	}
}
