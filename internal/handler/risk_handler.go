package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/middleware"
	"github.com/noah-isme/univisa-api/internal/models"
	"github.com/noah-isme/univisa-api/pkg/response"
)

type riskService interface {
	Evaluate(ctx context.Context, studentID string, date models.Date) (*models.RiskOutput, bool, error)
	Alerts(ctx context.Context, studentID string, date models.Date) ([]models.Alert, bool, error)
}

type riskReporter interface {
	StudentReport(ctx context.Context, studentID string, date models.Date) ([]byte, string, error)
}

// RiskHandler exposes compliance risk endpoints for a student.
type RiskHandler struct {
	risk    riskService
	reports riskReporter
}

// NewRiskHandler constructs RiskHandler.
func NewRiskHandler(risk riskService, reports riskReporter) *RiskHandler {
	return &RiskHandler{risk: risk, reports: reports}
}

// Risk godoc
// @Summary Evaluate compliance risk
// @Tags Risk
// @Produce json
// @Param id path string true "Student ID"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/{id}/risk [get]
func (h *RiskHandler) Risk(c *gin.Context) {
	start := time.Now()
	date, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	output, cacheHit, err := h.risk.Evaluate(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, output, cacheHit)
}

// Alerts godoc
// @Summary Urgency-ranked alerts
// @Tags Risk
// @Produce json
// @Param id path string true "Student ID"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/{id}/alerts [get]
func (h *RiskHandler) Alerts(c *gin.Context) {
	start := time.Now()
	date, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	alerts, cacheHit, err := h.risk.Alerts(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, alerts, cacheHit)
}

// Report godoc
// @Summary Download risk report PDF
// @Tags Risk
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /student/{id}/report.pdf [get]
func (h *RiskHandler) Report(c *gin.Context) {
	date, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.reports.StudentReport(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", payload)
}

// respondWithMeta writes data with cache_hit and processing_time_ms in the envelope meta.
func respondWithMeta(c *gin.Context, start time.Time, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if _, ok := meta["processing_time_ms"]; !ok {
		meta["processing_time_ms"] = time.Since(start).Milliseconds()
	}
	response.JSON(c, http.StatusOK, data, nil, meta)
}
