package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
	"github.com/noah-isme/univisa-api/pkg/response"
)

type cptService interface {
	Create(ctx context.Context, studentID string, req models.CreateCPTRequest) (*models.CPTRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.CPTRequest, error)
	ListAll(ctx context.Context) ([]models.CPTRequestWithStudent, error)
	Update(ctx context.Context, studentID, requestID string, req models.UpdateCPTRequest) (*models.CPTRequest, error)
}

// CPTHandler exposes Curricular Practical Training request endpoints.
type CPTHandler struct {
	cpt cptService
}

// NewCPTHandler constructs CPTHandler.
func NewCPTHandler(cpt cptService) *CPTHandler {
	return &CPTHandler{cpt: cpt}
}

// Create godoc
// @Summary Submit a CPT request
// @Tags CPT
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.CreateCPTRequest true "CPT request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cpt/student/{id}/requests [post]
func (h *CPTHandler) Create(c *gin.Context) {
	var req models.CreateCPTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cpt payload"))
		return
	}
	created, err := h.cpt.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// List godoc
// @Summary List a student's CPT requests
// @Tags CPT
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /cpt/student/{id}/requests [get]
func (h *CPTHandler) List(c *gin.Context) {
	requests, err := h.cpt.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Update godoc
// @Summary Change CPT request status
// @Tags CPT
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param rid path string true "Request ID"
// @Param payload body models.UpdateCPTRequest true "Status update"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cpt/student/{id}/requests/{rid} [patch]
func (h *CPTHandler) Update(c *gin.Context) {
	var req models.UpdateCPTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	updated, err := h.cpt.Update(c.Request.Context(), c.Param("id"), c.Param("rid"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// ListAll godoc
// @Summary List all CPT requests
// @Tags DSO
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dso/cpt/requests [get]
func (h *CPTHandler) ListAll(c *gin.Context) {
	requests, err := h.cpt.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}
