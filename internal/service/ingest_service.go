package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	"github.com/noah-isme/univisa-api/internal/rag"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
	"github.com/noah-isme/univisa-api/pkg/jobs"
)

// JobTypeIngest identifies policy ingestion jobs on the queue.
const JobTypeIngest = "policy_ingest"

const embedBatchSize = 64

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// IngestConfig controls chunking.
type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// IngestService chunks policy documents and embeds them into the vector store in the background.
type IngestService struct {
	embedder  rag.Embedder
	store     rag.VectorStore
	queue     jobEnqueuer
	validator *validator.Validate
	metrics   *MetricsService
	cfg       IngestConfig
	logger    *zap.Logger
}

// NewIngestService constructs the service. embedder and store may be nil when RAG is disabled.
func NewIngestService(embedder rag.Embedder, store rag.VectorStore, validate *validator.Validate, metrics *MetricsService, cfg IngestConfig, logger *zap.Logger) *IngestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{embedder: embedder, store: store, validator: validate, metrics: metrics, cfg: cfg, logger: logger}
}

// AttachQueue sets the queue ingestion jobs are pushed to.
func (s *IngestService) AttachQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Submit validates and chunks doc, then queues the chunks for embedding.
func (s *IngestService) Submit(ctx context.Context, doc models.PolicyDocument) (*dto.IngestAccepted, error) {
	doc.Source = strings.TrimSpace(doc.Source)
	if err := s.validator.Struct(doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid policy document")
	}
	if s.embedder == nil || s.store == nil || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceUnavailable, "document ingestion is not configured")
	}
	chunks, err := rag.Chunk(doc.Text, doc.Source, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to split policy document")
	}
	if len(chunks) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document has no text to ingest")
	}

	jobID := uuid.NewString()
	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: JobTypeIngest, Payload: chunks}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue ingestion")
	}
	s.logger.Info("policy document queued", zap.String("job_id", jobID), zap.String("source", doc.Source), zap.Int("chunks", len(chunks)))
	return &dto.IngestAccepted{JobID: jobID, Source: doc.Source, Chunks: len(chunks)}, nil
}

// Handle embeds and upserts the chunks carried by an ingestion job.
func (s *IngestService) Handle(ctx context.Context, job jobs.Job) error {
	chunks, ok := job.Payload.([]models.PolicyChunk)
	if !ok {
		return fmt.Errorf("ingest job %s: unexpected payload %T", job.ID, job.Payload)
	}
	if err := s.Ingest(ctx, chunks); err != nil {
		s.metrics.RecordJob(JobTypeIngest, "failed")
		return err
	}
	s.metrics.RecordJob(JobTypeIngest, "succeeded")
	s.logger.Info("policy chunks ingested", zap.String("job_id", job.ID), zap.Int("chunks", len(chunks)))
	return nil
}

// Ingest embeds chunks in batches and writes them to the vector store.
func (s *IngestService) Ingest(ctx context.Context, chunks []models.PolicyChunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if err := s.store.Upsert(ctx, batch, vectors); err != nil {
			return fmt.Errorf("upsert chunks %d-%d: %w", start, end, err)
		}
	}
	return nil
}
