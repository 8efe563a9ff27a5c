package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	"github.com/noah-isme/univisa-api/internal/rag"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type stubPipeline struct {
	answer   rag.Answer
	outcome  string
	err      error
	profile  models.StudentProfile
	question string
}

func (s *stubPipeline) Ask(ctx context.Context, question string, profile models.StudentProfile) (rag.Answer, string, error) {
	s.question, s.profile = question, profile
	return s.answer, s.outcome, s.err
}

func chatProfiles() *mockProfileRepo {
	return newMockProfileRepo(
		models.StudentProfile{StudentID: models.DemoStudentID, FullName: "Riya Sharma"},
		models.StudentProfile{StudentID: "s1", FullName: "Ana Souza"},
	)
}

func TestChatServiceAsk(t *testing.T) {
	pipeline := &stubPipeline{answer: rag.Answer{Text: "Stay full-time.", Sources: []string{"uscis"}}, outcome: rag.OutcomeAnswered}
	svc := NewChatService(chatProfiles(), pipeline, nil, nil)

	resp, err := svc.Ask(context.Background(), dto.ChatRequest{StudentID: " s1 ", Question: "  Can I drop a class?  "})
	require.NoError(t, err)
	assert.Equal(t, "Stay full-time.", resp.Answer)
	assert.Equal(t, []string{"uscis"}, resp.Sources)
	assert.Equal(t, "Ana Souza", pipeline.profile.FullName)
	assert.Equal(t, "Can I drop a class?", pipeline.question)
}

func TestChatServiceFallsBackToDemo(t *testing.T) {
	pipeline := &stubPipeline{outcome: rag.OutcomeAnswered}
	svc := NewChatService(chatProfiles(), pipeline, nil, nil)

	for _, id := range []string{"", "unknown"} {
		resp, err := svc.Ask(context.Background(), dto.ChatRequest{StudentID: id, Question: "OPT?"})
		require.NoError(t, err)
		assert.Equal(t, models.DemoStudentID, pipeline.profile.StudentID)
		assert.Equal(t, "No response.", resp.Answer)
		assert.Equal(t, []string{}, resp.Sources)
	}
}

func TestChatServiceWithoutDemo(t *testing.T) {
	svc := NewChatService(newMockProfileRepo(), &stubPipeline{}, nil, nil)
	_, err := svc.Ask(context.Background(), dto.ChatRequest{StudentID: "ghost", Question: "OPT?"})
	assert.True(t, errors.Is(err, appErrors.ErrStudentNotFound))
}

func TestChatServiceRequiresQuestion(t *testing.T) {
	svc := NewChatService(chatProfiles(), &stubPipeline{}, nil, nil)
	_, err := svc.Ask(context.Background(), dto.ChatRequest{StudentID: "s1", Question: "   "})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestChatServicePipelineFailureBecomesAnswer(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewChatService(chatProfiles(), &stubPipeline{err: errors.New("weaviate down")}, metrics, nil)

	resp, err := svc.Ask(context.Background(), dto.ChatRequest{StudentID: "s1", Question: "OPT?"})
	require.NoError(t, err)
	assert.Equal(t, "Sorry, the AI advisor encountered an error. Please try again or contact your DSO. Error: weaviate down", resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, uint64(1), metrics.Snapshot().ChatRequests)
}
