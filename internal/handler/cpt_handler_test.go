package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type cptServiceMock struct {
	createdFor string
	created    models.CreateCPTRequest
}

func (m *cptServiceMock) Create(ctx context.Context, studentID string, req models.CreateCPTRequest) (*models.CPTRequest, error) {
	m.createdFor = studentID
	m.created = req
	return &models.CPTRequest{ID: "r1", StudentID: studentID, CompanyName: req.CompanyName, Status: models.CPTStatusIntent}, nil
}

func (m *cptServiceMock) ListByStudent(ctx context.Context, studentID string) ([]models.CPTRequest, error) {
	return []models.CPTRequest{{ID: "r1", StudentID: studentID}}, nil
}

func (m *cptServiceMock) ListAll(ctx context.Context) ([]models.CPTRequestWithStudent, error) {
	return []models.CPTRequestWithStudent{{CPTRequest: models.CPTRequest{ID: "r1"}, StudentName: "Riya Sharma"}}, nil
}

func (m *cptServiceMock) Update(ctx context.Context, studentID, requestID string, req models.UpdateCPTRequest) (*models.CPTRequest, error) {
	if studentID != "s1" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not your request")
	}
	return &models.CPTRequest{ID: requestID, StudentID: studentID, Status: req.Status}, nil
}

func TestCPTHandlerCreate(t *testing.T) {
	svc := &cptServiceMock{}
	h := NewCPTHandler(svc)
	w := serve(t, h.Create, testRequest{
		method: http.MethodPost,
		target: "/cpt/student/s1/requests",
		body:   `{"company_name":"Acme","role":"Intern","expected_start_date":"2025-06-01","expected_end_date":"2025-08-31"}`,
		params: gin.Params{{Key: "id", Value: "s1"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "s1", svc.createdFor)
	assert.Equal(t, "2025-08-31", svc.created.ExpectedEndDate.String())
}

func TestCPTHandlerUpdateForbidden(t *testing.T) {
	h := NewCPTHandler(&cptServiceMock{})
	w := serve(t, h.Update, testRequest{
		method: http.MethodPatch,
		target: "/cpt/student/s2/requests/r1",
		body:   `{"status":"approved"}`,
		params: gin.Params{{Key: "id", Value: "s2"}, {Key: "rid", Value: "r1"}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCPTHandlerUpdate(t *testing.T) {
	h := NewCPTHandler(&cptServiceMock{})
	w := serve(t, h.Update, testRequest{
		method: http.MethodPatch,
		target: "/cpt/student/s1/requests/r1",
		body:   `{"status":"offer_signed"}`,
		params: gin.Params{{Key: "id", Value: "s1"}, {Key: "rid", Value: "r1"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "offer_signed", data["status"])
}

func TestCPTHandlerListAll(t *testing.T) {
	h := NewCPTHandler(&cptServiceMock{})
	w := serve(t, h.ListAll, testRequest{method: http.MethodGet, target: "/dso/cpt/requests"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Riya Sharma", data[0].(map[string]interface{})["student_name"])
}
