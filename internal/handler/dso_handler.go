package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	"github.com/noah-isme/univisa-api/pkg/response"
)

type cohortService interface {
	Cohort(ctx context.Context, date models.Date) ([]dto.CohortRow, error)
}

// DSOHandler exposes the cohort dashboard.
type DSOHandler struct {
	cohort cohortService
}

// NewDSOHandler constructs DSOHandler.
func NewDSOHandler(cohort cohortService) *DSOHandler {
	return &DSOHandler{cohort: cohort}
}

// Cohort godoc
// @Summary Cohort risk dashboard
// @Description Every student evaluated as of the reference date, highest risk first.
// @Tags DSO
// @Produce json
// @Security BearerAuth
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /dso/cohort [get]
func (h *DSOHandler) Cohort(c *gin.Context) {
	date, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.cohort.Cohort(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"total": len(rows)})
}
