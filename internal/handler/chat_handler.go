package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/dto"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
	"github.com/noah-isme/univisa-api/pkg/response"
)

type chatService interface {
	Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

// ChatHandler exposes the policy advisor.
type ChatHandler struct {
	chat chatService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Ask godoc
// @Summary Ask the visa policy advisor
// @Description Answers a question grounded in ingested policy documents and the student's profile.
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body dto.ChatRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chat payload"))
		return
	}
	answer, err := h.chat.Ask(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answer, nil)
}
