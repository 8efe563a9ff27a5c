package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
	"github.com/noah-isme/univisa-api/pkg/response"
)

type ingestService interface {
	Submit(ctx context.Context, doc models.PolicyDocument) (*dto.IngestAccepted, error)
}

// DocumentHandler accepts policy documents for the advisor's knowledge base.
type DocumentHandler struct {
	ingest ingestService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(ingest ingestService) *DocumentHandler {
	return &DocumentHandler{ingest: ingest}
}

// Ingest godoc
// @Summary Ingest a policy document
// @Tags DSO
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.PolicyDocument true "Document"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dso/documents [post]
func (h *DocumentHandler) Ingest(c *gin.Context) {
	var doc models.PolicyDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}
	accepted, err := h.ingest.Submit(c.Request.Context(), doc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, accepted)
}
