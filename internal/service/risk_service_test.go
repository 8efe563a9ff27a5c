package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type countingProfileRepo struct {
	*mockProfileRepo
	calls int
}

func (c *countingProfileRepo) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	c.calls++
	return c.mockProfileRepo.FindByID(ctx, id)
}

func partTimeProfile(id string) models.StudentProfile {
	profile := baseProfile(400)
	profile.StudentID = id
	profile.EnrollmentStatus = models.EnrollmentPartTime
	return profile
}

func TestRiskServiceEvaluateCachesByDate(t *testing.T) {
	repo := &countingProfileRepo{mockProfileRepo: newMockProfileRepo(partTimeProfile("s1"))}
	cacheRepo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, true)
	svc := NewRiskService(repo, NewRiskEngine(nil), cache, metrics, 15*time.Minute, nil)

	first, hit, err := svc.Evaluate(context.Background(), "s1", engineToday)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 40, first.RiskScore)
	assert.Equal(t, models.RiskLevelMedium, first.RiskLevel)
	assert.True(t, cacheRepo.has("risk:s1:2025-03-01"))
	assert.Equal(t, 15*time.Minute, cacheRepo.ttls["risk:s1:2025-03-01"])

	second, hit, err := svc.Evaluate(context.Background(), "s1", engineToday)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, uint64(1), metrics.Snapshot().RiskEvaluations)

	_, hit, err = svc.Evaluate(context.Background(), "s1", models.NewDate(2025, time.March, 2))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}

func TestRiskServiceEvaluateIgnoresCacheFailure(t *testing.T) {
	repo := newMockProfileRepo(partTimeProfile("s1"))
	cacheRepo := newMemoryCacheRepo()
	cacheRepo.getErr = errors.New("redis down")
	cacheRepo.setErr = errors.New("redis down")
	svc := NewRiskService(repo, nil, NewCacheService(cacheRepo, nil, 0, nil, true), nil, 0, nil)

	out, hit, err := svc.Evaluate(context.Background(), "s1", engineToday)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 40, out.RiskScore)
}

func TestRiskServiceEvaluateNotFound(t *testing.T) {
	svc := NewRiskService(newMockProfileRepo(), nil, nil, nil, 0, nil)
	_, _, err := svc.Evaluate(context.Background(), "missing", engineToday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStudentNotFound))
}

func TestRiskServiceAlerts(t *testing.T) {
	profile := partTimeProfile("s1")
	profile.TravelingSoon = true
	svc := NewRiskService(newMockProfileRepo(profile), nil, nil, nil, 0, nil)

	alerts, hit, err := svc.Alerts(context.Background(), "s1", engineToday)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, alerts, 2)
	assert.Equal(t, models.CategoryEnrollmentViolation, alerts[0].Title)
	assert.Equal(t, models.AlertTypeWarning, alerts[0].Type)
	assert.Equal(t, models.CategoryInternationalTravel, alerts[1].Title)
	assert.Equal(t, models.AlertTypeInfo, alerts[1].Type)
}
