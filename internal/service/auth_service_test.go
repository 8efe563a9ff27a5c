package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type mockDSORepo struct {
	user             *models.DSOUser
	findErr          error
	requestedEmail   string
	lastLoginUpdated bool
}

func (m *mockDSORepo) FindByEmail(ctx context.Context, email string) (*models.DSOUser, error) {
	m.requestedEmail = email
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.user == nil {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockDSORepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newTestAuthService(t *testing.T, active bool) (*AuthService, *mockDSORepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockDSORepo{user: &models.DSOUser{
		ID:           "dso-1",
		Email:        "dso@example.edu",
		FullName:     "International Student Office",
		PasswordHash: string(hash),
		Active:       active,
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "univisa"})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newTestAuthService(t, true)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: " DSO@Example.edu ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "dso@example.edu", repo.requestedEmail)
	assert.True(t, repo.lastLoginUpdated)
	assert.Equal(t, models.RoleDSO, resp.User.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dso-1", claims.UserID)
	assert.Equal(t, models.RoleDSO, claims.Role)
	assert.Equal(t, "univisa", claims.Issuer)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, repo := newTestAuthService(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "dso@example.edu", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	repo.user = nil
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "other@example.edu", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	repo.findErr = errors.New("db down")
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "dso@example.edu", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestAuthServiceLoginInactive(t *testing.T) {
	svc, _ := newTestAuthService(t, false)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "dso@example.edu", Password: "correct-horse"})
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc, _ := newTestAuthService(t, true)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "dso@example.edu", Password: "correct-horse"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	other := NewAuthService(&mockDSORepo{}, nil, nil, AuthConfig{AccessTokenSecret: "different"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{UserID: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
