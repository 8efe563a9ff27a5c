// Package rag answers student visa questions from ingested policy documents.
package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/models"
)

// Outcomes reported by Ask, used as metric labels.
const (
	OutcomeAnswered      = "answered"
	OutcomeNoDocuments   = "no_documents"
	OutcomeUnconfigured  = "unconfigured"
	OutcomeProviderError = "provider_error"
)

const (
	noDocumentsAnswer = "No policy documents have been ingested yet. For accurate F-1/J-1 guidance, " +
		"please contact your Designated School Official (DSO) or international student office."
	unconfiguredAnswer = "AI advisor is not configured (missing %s). Please contact your DSO for visa compliance questions."
	errorAnswer        = "Sorry, the AI advisor encountered an error. Please try again or contact your DSO. Error: %s"
)

const systemPrompt = `You are UniVisa's AI advisor, a specialized assistant for international students on F-1 and J-1 visas in the United States.

Your job is to answer visa compliance questions accurately and clearly, grounded ONLY in the policy documents provided to you as context.

Rules you must follow:
1. Never answer from general knowledge alone. Always cite the provided context
2. If the context doesn't contain enough information to answer confidently, say so explicitly and recommend the student contact their DSO
3. Always end your response with: "Source: [document name, section]" for every claim you make
4. Use plain, clear English, not legal jargon
5. If the answer has serious consequences (deportation risk, visa termination), clearly flag this with: ⚠️ IMPORTANT: [consequence]
6. Never guess. Never hallucinate. A wrong answer here can ruin a student's life.

You know the student's profile: %s
`

// ErrNotConfigured is returned by an LLM that has no credentials.
var ErrNotConfigured = errors.New("llm provider not configured")

// Embedder turns texts into vectors, one per input in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore persists and searches embedded policy chunks.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, topK int) ([]models.PolicyChunk, error)
	Upsert(ctx context.Context, chunks []models.PolicyChunk, vectors [][]float32) error
}

// LLM completes a single-turn prompt under a system prompt.
type LLM interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Answer is the advisor reply with the sources of the retrieved chunks.
type Answer struct {
	Text    string
	Sources []string
}

// Config tunes the pipeline.
type Config struct {
	TopK int
	// CredentialName is named in the answer when the LLM has no credentials.
	CredentialName string
}

// Pipeline embeds a question, retrieves the closest policy chunks and asks the LLM.
type Pipeline struct {
	embedder Embedder
	store    VectorStore
	llm      LLM
	cfg      Config
	logger   *zap.Logger
}

// NewPipeline wires the pipeline. llm may be nil when no provider key is configured.
func NewPipeline(embedder Embedder, store VectorStore, llm LLM, cfg Config, logger *zap.Logger) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.CredentialName == "" {
		cfg.CredentialName = "ANTHROPIC_API_KEY"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{embedder: embedder, store: store, llm: llm, cfg: cfg, logger: logger}
}

// Ask answers question for profile. Retrieval failures are returned as errors; provider
// failures and missing configuration become answers.
func (p *Pipeline) Ask(ctx context.Context, question string, profile models.StudentProfile) (Answer, string, error) {
	if p.embedder == nil || p.store == nil {
		return Answer{Text: noDocumentsAnswer, Sources: []string{}}, OutcomeNoDocuments, nil
	}
	vectors, err := p.embedder.Embed(ctx, []string{question})
	if err != nil {
		return Answer{}, "", fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) == 0 {
		return Answer{}, "", fmt.Errorf("embed question: no vector returned")
	}
	chunks, err := p.store.Search(ctx, vectors[0], p.cfg.TopK)
	if err != nil {
		return Answer{}, "", fmt.Errorf("search policy chunks: %w", err)
	}
	if len(chunks) == 0 {
		return Answer{Text: noDocumentsAnswer, Sources: []string{}}, OutcomeNoDocuments, nil
	}

	sources := make([]string, len(chunks))
	for i, chunk := range chunks {
		sources[i] = chunk.Source
	}
	if p.llm == nil {
		return Answer{Text: fmt.Sprintf(unconfiguredAnswer, p.cfg.CredentialName), Sources: sources}, OutcomeUnconfigured, nil
	}

	text, err := p.llm.Complete(ctx, fmt.Sprintf(systemPrompt, studentContext(profile)), userPrompt(chunks, question))
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return Answer{Text: fmt.Sprintf(unconfiguredAnswer, p.cfg.CredentialName), Sources: sources}, OutcomeUnconfigured, nil
		}
		p.logger.Warn("llm completion failed", zap.Error(err))
		return Answer{Text: fmt.Sprintf(errorAnswer, err.Error()), Sources: sources}, OutcomeProviderError, nil
	}
	return Answer{Text: text, Sources: sources}, OutcomeAnswered, nil
}

// Close releases components holding connections.
func (p *Pipeline) Close() error {
	var errs []error
	for _, component := range []interface{}{p.embedder, p.store, p.llm} {
		if closer, ok := component.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func studentContext(profile models.StudentProfile) string {
	return fmt.Sprintf(`
    University: %s
    Visa: %s
    Program ends: %s
    Enrollment: %s
    On OPT: %t
    Weekly work hours: %s
    `, profile.University, profile.VisaType, profile.ProgramEndDate, profile.EnrollmentStatus, profile.OnOPT, models.FormatHours(profile.WeeklyWorkHours))
}

func userPrompt(chunks []models.PolicyChunk, question string) string {
	blocks := make([]string, len(chunks))
	for i, chunk := range chunks {
		blocks[i] = fmt.Sprintf("[%s]\n%s", chunk.Source, chunk.Text)
	}
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(blocks, "\n\n"), question)
}
