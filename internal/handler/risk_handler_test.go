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

type riskServiceMock struct {
	lastDate models.Date
	cacheHit bool
}

func (m *riskServiceMock) Evaluate(ctx context.Context, studentID string, date models.Date) (*models.RiskOutput, bool, error) {
	m.lastDate = date
	if studentID != "s1" {
		return nil, false, appErrors.ErrStudentNotFound
	}
	return &models.RiskOutput{StudentID: studentID, RiskScore: 40, RiskLevel: models.RiskLevelMedium, Flags: []models.RiskFlag{}, Alerts: []models.Alert{}}, m.cacheHit, nil
}

func (m *riskServiceMock) Alerts(ctx context.Context, studentID string, date models.Date) ([]models.Alert, bool, error) {
	m.lastDate = date
	return []models.Alert{{Type: models.AlertTypeWarning, Title: models.CategoryEnrollmentViolation, Urgency: 1}}, m.cacheHit, nil
}

type reporterMock struct{}

func (reporterMock) StudentReport(ctx context.Context, studentID string, date models.Date) ([]byte, string, error) {
	return []byte("%PDF-1.3 fake"), "risk_report_" + studentID + ".pdf", nil
}

func TestRiskHandlerRiskPassesReferenceDate(t *testing.T) {
	svc := &riskServiceMock{}
	h := NewRiskHandler(svc, reporterMock{})
	w := serve(t, h.Risk, testRequest{method: http.MethodGet, target: "/student/s1/risk?date=2025-03-01", params: gin.Params{{Key: "id", Value: "s1"}}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-03-01", svc.lastDate.String())
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(40), data["risk_score"])
	assert.Equal(t, "medium", data["risk_level"])
}

func TestRiskHandlerReportsCacheMeta(t *testing.T) {
	svc := &riskServiceMock{cacheHit: true}
	h := NewRiskHandler(svc, reporterMock{})

	w := serve(t, h.Risk, testRequest{method: http.MethodGet, target: "/student/s1/risk", params: gin.Params{{Key: "id", Value: "s1"}}})
	require.Equal(t, http.StatusOK, w.Code)
	meta, ok := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")

	svc.cacheHit = false
	w = serve(t, h.Alerts, testRequest{method: http.MethodGet, target: "/student/s1/alerts", params: gin.Params{{Key: "id", Value: "s1"}}})
	require.Equal(t, http.StatusOK, w.Code)
	meta, ok = decodeEnvelope(t, w)["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestRiskHandlerRiskErrors(t *testing.T) {
	h := NewRiskHandler(&riskServiceMock{}, reporterMock{})

	w := serve(t, h.Risk, testRequest{method: http.MethodGet, target: "/student/s1/risk?date=tomorrow", params: gin.Params{{Key: "id", Value: "s1"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, h.Risk, testRequest{method: http.MethodGet, target: "/student/ghost/risk", params: gin.Params{{Key: "id", Value: "ghost"}}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRiskHandlerAlerts(t *testing.T) {
	svc := &riskServiceMock{}
	h := NewRiskHandler(svc, reporterMock{})
	w := serve(t, h.Alerts, testRequest{method: http.MethodGet, target: "/student/s1/alerts", params: gin.Params{{Key: "id", Value: "s1"}}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastDate.IsZero())
	data := decodeEnvelope(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
}

func TestRiskHandlerReportAttachment(t *testing.T) {
	h := NewRiskHandler(&riskServiceMock{}, reporterMock{})
	w := serve(t, h.Report, testRequest{method: http.MethodGet, target: "/student/s1/report.pdf", params: gin.Params{{Key: "id", Value: "s1"}}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "risk_report_s1.pdf")
}
