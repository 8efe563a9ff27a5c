package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	"github.com/noah-isme/univisa-api/internal/rag"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

const noResponseAnswer = "No response."

type advisorPipeline interface {
	Ask(ctx context.Context, question string, profile models.StudentProfile) (rag.Answer, string, error)
}

// ChatService answers student questions through the RAG pipeline.
type ChatService struct {
	profiles riskProfileRepository
	pipeline advisorPipeline
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewChatService constructs the chat service.
func NewChatService(profiles riskProfileRepository, pipeline advisorPipeline, metrics *MetricsService, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{profiles: profiles, pipeline: pipeline, metrics: metrics, logger: logger}
}

// Ask answers req.Question for req.StudentID. Unknown or empty student IDs fall back to the
// demo profile; without it the request fails with STUDENT_NOT_FOUND.
func (s *ChatService) Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question is required")
	}
	profile, err := s.resolveProfile(ctx, strings.TrimSpace(req.StudentID))
	if err != nil {
		return nil, err
	}

	answer, outcome, err := s.pipeline.Ask(ctx, question, *profile)
	if err != nil {
		s.logger.Warn("advisor pipeline failed", zap.String("student_id", profile.StudentID), zap.Error(err))
		s.metrics.RecordChat(rag.OutcomeProviderError)
		return &dto.ChatResponse{
			Answer:  fmt.Sprintf("Sorry, the AI advisor encountered an error. Please try again or contact your DSO. Error: %s", err.Error()),
			Sources: []string{},
		}, nil
	}
	s.metrics.RecordChat(outcome)

	resp := &dto.ChatResponse{Answer: answer.Text, Sources: answer.Sources}
	if resp.Answer == "" {
		resp.Answer = noResponseAnswer
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	return resp, nil
}

func (s *ChatService) resolveProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	if studentID != "" {
		profile, err := s.profiles.FindByID(ctx, studentID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
	}
	profile, err := s.profiles.FindByID(ctx, models.DemoStudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return profile, nil
}
