package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type mockCPTRepo struct {
	requests map[string]models.CPTRequest
	updates  int
}

func (m *mockCPTRepo) Create(ctx context.Context, req *models.CPTRequest) error {
	if m.requests == nil {
		m.requests = map[string]models.CPTRequest{}
	}
	req.ID = "cpt-1"
	m.requests[req.ID] = *req
	return nil
}

func (m *mockCPTRepo) FindByID(ctx context.Context, id string) (*models.CPTRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &req, nil
}

func (m *mockCPTRepo) ListByStudent(ctx context.Context, studentID string) ([]models.CPTRequest, error) {
	out := []models.CPTRequest{}
	for _, r := range m.requests {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockCPTRepo) ListAllWithStudent(ctx context.Context) ([]models.CPTRequestWithStudent, error) {
	out := []models.CPTRequestWithStudent{}
	for _, r := range m.requests {
		out = append(out, models.CPTRequestWithStudent{CPTRequest: r, StudentName: "Riya Sharma"})
	}
	return out, nil
}

func (m *mockCPTRepo) Update(ctx context.Context, req *models.CPTRequest) error {
	m.updates++
	m.requests[req.ID] = *req
	return nil
}

var cptNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCPTService(status models.CPTRequestStatus) (*CPTService, *mockCPTRepo) {
	repo := &mockCPTRepo{requests: map[string]models.CPTRequest{
		"cpt-1": {ID: "cpt-1", StudentID: "s1", CompanyName: "Acme", Role: "Intern", Status: status},
	}}
	svc := NewCPTService(repo, newMockProfileRepo(models.StudentProfile{StudentID: "s1"}), nil, nil)
	svc.now = func() time.Time { return cptNow }
	return svc, repo
}

func validCPTPayload() models.CreateCPTRequest {
	return models.CreateCPTRequest{
		CompanyName:       "Acme",
		Role:              "Software Intern",
		ExpectedStartDate: models.NewDate(2025, time.May, 20),
		ExpectedEndDate:   models.NewDate(2025, time.August, 15),
	}
}

func TestCPTServiceCreate(t *testing.T) {
	svc, _ := newTestCPTService(models.CPTStatusIntent)
	req, err := svc.Create(context.Background(), "s1", validCPTPayload())
	require.NoError(t, err)
	assert.Equal(t, models.CPTStatusIntent, req.Status)
	assert.Nil(t, req.SignedOfferUploadedAt)
	assert.Equal(t, cptNow, req.CreatedAt)
	assert.Equal(t, req.CreatedAt, req.UpdatedAt)
}

func TestCPTServiceCreateUnknownStudent(t *testing.T) {
	svc, _ := newTestCPTService(models.CPTStatusIntent)
	_, err := svc.Create(context.Background(), "ghost", validCPTPayload())
	assert.True(t, errors.Is(err, appErrors.ErrStudentNotFound))

	_, err = svc.ListByStudent(context.Background(), "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrStudentNotFound))
}

func TestCPTServiceCreateValidation(t *testing.T) {
	svc, _ := newTestCPTService(models.CPTStatusIntent)
	payload := validCPTPayload()
	payload.CompanyName = ""
	_, err := svc.Create(context.Background(), "s1", payload)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	payload = validCPTPayload()
	payload.ExpectedEndDate = models.NewDate(2025, time.January, 1)
	_, err = svc.Create(context.Background(), "s1", payload)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCPTServiceUpdateTransitions(t *testing.T) {
	cases := []struct {
		name       string
		from       models.CPTRequestStatus
		requested  models.CPTRequestStatus
		want       models.CPTRequestStatus
		wantSigned bool
	}{
		{"intent to offer signed", models.CPTStatusIntent, models.CPTStatusOfferSigned, models.CPTStatusOfferSigned, true},
		{"offer signed only from intent", models.CPTStatusApproved, models.CPTStatusOfferSigned, models.CPTStatusApproved, false},
		{"approve from intent", models.CPTStatusIntent, models.CPTStatusApproved, models.CPTStatusApproved, false},
		{"reject from offer signed", models.CPTStatusOfferSigned, models.CPTStatusRejected, models.CPTStatusRejected, false},
		{"unknown status only touches timestamp", models.CPTStatusIntent, "withdrawn", models.CPTStatusIntent, false},
		{"back to intent ignored", models.CPTStatusRejected, models.CPTStatusIntent, models.CPTStatusRejected, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestCPTService(tc.from)
			updated, err := svc.Update(context.Background(), "s1", "cpt-1", models.UpdateCPTRequest{Status: tc.requested})
			require.NoError(t, err)
			assert.Equal(t, tc.want, updated.Status)
			assert.Equal(t, cptNow, updated.UpdatedAt)
			if tc.wantSigned {
				require.NotNil(t, updated.SignedOfferUploadedAt)
				assert.Equal(t, cptNow, *updated.SignedOfferUploadedAt)
			} else {
				assert.Nil(t, updated.SignedOfferUploadedAt)
			}
			assert.Equal(t, 1, repo.updates)
		})
	}
}

func TestCPTServiceUpdateOwnershipAndMissing(t *testing.T) {
	svc, repo := newTestCPTService(models.CPTStatusIntent)

	_, err := svc.Update(context.Background(), "someone-else", "cpt-1", models.UpdateCPTRequest{Status: models.CPTStatusApproved})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.Update(context.Background(), "s1", "missing", models.UpdateCPTRequest{Status: models.CPTStatusApproved})
	assert.True(t, errors.Is(err, appErrors.ErrCPTNotFound))
	assert.Zero(t, repo.updates)
}

func TestCPTServiceListAll(t *testing.T) {
	svc, _ := newTestCPTService(models.CPTStatusIntent)
	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Riya Sharma", all[0].StudentName)
}
