package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/univisa-api/internal/models"
)

type recordingDSORepo struct {
	users []models.DSOUser
	err   error
}

func (r *recordingDSORepo) Upsert(ctx context.Context, user *models.DSOUser) error {
	if r.err != nil {
		return r.err
	}
	r.users = append(r.users, *user)
	return nil
}

func TestSeedServiceCreatesDemoStudentOnce(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := NewSeedService(profiles, &recordingDSORepo{}, SeedOptions{DemoStudent: true}, nil)

	require.NoError(t, svc.Run(context.Background()))
	demo, ok := profiles.profiles[models.DemoStudentID]
	require.True(t, ok)
	assert.Equal(t, "Riya Sharma", demo.FullName)
	assert.Equal(t, "2026-05-15", demo.ProgramEndDate.String())
	assert.Equal(t, 18.0, demo.WeeklyWorkHours)

	edited := demo
	edited.WeeklyWorkHours = 25
	profiles.profiles[models.DemoStudentID] = edited
	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, 25.0, profiles.profiles[models.DemoStudentID].WeeklyWorkHours)
}

func TestSeedServiceSkipsDisabledSeeds(t *testing.T) {
	profiles := newMockProfileRepo()
	dsos := &recordingDSORepo{}
	svc := NewSeedService(profiles, dsos, SeedOptions{DSOEmail: "dso@example.edu"}, nil)

	require.NoError(t, svc.Run(context.Background()))
	assert.Empty(t, profiles.profiles)
	assert.Empty(t, dsos.users, "no password means no account")
}

func TestSeedServiceUpsertsDSO(t *testing.T) {
	dsos := &recordingDSORepo{}
	svc := NewSeedService(newMockProfileRepo(), dsos, SeedOptions{
		DSOEmail:    "  DSO@Example.edu ",
		DSOPassword: "s3cret!",
	}, nil)

	require.NoError(t, svc.Run(context.Background()))
	require.Len(t, dsos.users, 1)
	user := dsos.users[0]
	assert.Equal(t, "dso@example.edu", user.Email)
	assert.Equal(t, "Designated School Official", user.FullName)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!")))
}

func TestSeedServicePropagatesRepositoryErrors(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.err = errors.New("db down")
	svc := NewSeedService(profiles, &recordingDSORepo{}, SeedOptions{DemoStudent: true}, nil)

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
