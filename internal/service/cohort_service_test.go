package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type orderedProfileRepo struct {
	profiles []models.StudentProfile
	err      error
}

func (o *orderedProfileRepo) ListAll(ctx context.Context) ([]models.StudentProfile, error) {
	return o.profiles, o.err
}

func named(id string, profile models.StudentProfile) models.StudentProfile {
	profile.StudentID = id
	profile.FullName = "Student " + id
	return profile
}

func TestCohortServiceSortsByScore(t *testing.T) {
	calm := named("calm", baseProfile(400))
	traveler := baseProfile(400)
	traveler.TravelingSoon = true
	partTime := baseProfile(400)
	partTime.EnrollmentStatus = models.EnrollmentPartTime
	alsoTraveler := baseProfile(400)
	alsoTraveler.TravelingSoon = true

	repo := &orderedProfileRepo{profiles: []models.StudentProfile{
		calm,
		named("traveler-a", traveler),
		named("part-time", partTime),
		named("traveler-b", alsoTraveler),
	}}
	svc := NewCohortService(repo, NewRiskService(nil, nil, nil, nil, 0, nil), 2, nil)

	rows, err := svc.Cohort(context.Background(), engineToday)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.StudentID
	}
	assert.Equal(t, []string{"part-time", "traveler-a", "traveler-b", "calm"}, ids)
	assert.Equal(t, models.CategoryEnrollmentViolation, rows[0].TopRiskFlag)
	assert.Equal(t, models.RiskLevelMedium, rows[0].RiskLevel)
	assert.Equal(t, models.NoRiskFlagLabel, rows[3].TopRiskFlag)
	assert.Empty(t, rows[3].Flags)
	assert.Equal(t, "Student calm", rows[3].FullName)
}

func TestCohortServiceEmpty(t *testing.T) {
	svc := NewCohortService(&orderedProfileRepo{}, NewRiskService(nil, nil, nil, nil, 0, nil), 0, nil)
	rows, err := svc.Cohort(context.Background(), engineToday)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCohortServiceRepoFailure(t *testing.T) {
	svc := NewCohortService(&orderedProfileRepo{err: errors.New("db down")}, NewRiskService(nil, nil, nil, nil, 0, nil), 0, nil)
	_, err := svc.Cohort(context.Background(), engineToday)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestCohortServiceCancelledContext(t *testing.T) {
	repo := &orderedProfileRepo{profiles: []models.StudentProfile{named("a", baseProfile(400))}}
	svc := NewCohortService(repo, NewRiskService(nil, nil, nil, nil, 0, nil), 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Cohort(ctx, engineToday)
	assert.Error(t, err)
}
