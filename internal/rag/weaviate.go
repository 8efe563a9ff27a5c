package rag

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"

	domain "github.com/noah-isme/univisa-api/internal/models"
)

const upsertBatchSize = 100

// chunkNamespace seeds chunk object ids so re-ingesting a source overwrites its chunks.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("univisa/policy-chunk"))

// WeaviateStore keeps policy chunks in a Weaviate class with caller-supplied vectors.
type WeaviateStore struct {
	client *weaviate.Client
	class  string
	logger *zap.Logger
}

// NewWeaviateStore connects to the Weaviate instance at rawURL, e.g. http://localhost:8080.
func NewWeaviateStore(rawURL, class string, logger *zap.Logger) (*WeaviateStore, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid weaviate url %q", rawURL)
	}
	client, err := weaviate.NewClient(weaviate.Config{Host: parsed.Host, Scheme: parsed.Scheme})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	if class == "" {
		class = "PolicyChunk"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeaviateStore{client: client, class: class, logger: logger}, nil
}

// EnsureSchema creates the chunk class when it does not exist yet.
func (s *WeaviateStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.client.Schema().ClassGetter().WithClassName(s.class).Do(ctx); err == nil {
		return nil
	}
	class := &models.Class{
		Class:       s.class,
		Description: "USCIS policy document chunks",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{Name: "source", DataType: []string{"text"}},
			{Name: "text", DataType: []string{"text"}},
		},
	}
	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("create weaviate class %s: %w", s.class, err)
	}
	s.logger.Info("weaviate class created", zap.String("class", s.class))
	return nil
}

// Search returns the topK chunks nearest to vector.
func (s *WeaviateStore) Search(ctx context.Context, vector []float32, topK int) ([]domain.PolicyChunk, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)
	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(graphql.Field{Name: "source"}, graphql.Field{Name: "text"}).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate search: %s", result.Errors[0].Message)
	}
	return parseChunks(result, s.class), nil
}

// Upsert imports chunks with their vectors in batches.
func (s *WeaviateStore) Upsert(ctx context.Context, chunks []domain.PolicyChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("weaviate upsert: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		objects := buildObjects(s.class, chunks[start:end], vectors[start:end])
		results, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
		if err != nil {
			return fmt.Errorf("weaviate batch import: %w", err)
		}
		for _, res := range results {
			if res.Result != nil && res.Result.Errors != nil && len(res.Result.Errors.Error) > 0 {
				return fmt.Errorf("weaviate batch import: %s", res.Result.Errors.Error[0].Message)
			}
		}
	}
	return nil
}

// chunkObjectID derives a stable object id from the chunk's source and position.
func chunkObjectID(chunk domain.PolicyChunk) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(chunkNamespace, []byte(chunk.Source+"#"+strconv.Itoa(chunk.Index))).String())
}

func buildObjects(class string, chunks []domain.PolicyChunk, vectors [][]float32) []*models.Object {
	objects := make([]*models.Object, 0, len(chunks))
	for i, chunk := range chunks {
		objects = append(objects, &models.Object{
			ID:         chunkObjectID(chunk),
			Class:      class,
			Properties: map[string]interface{}{"source": chunk.Source, "text": chunk.Text},
			Vector:     vectors[i],
		})
	}
	return objects
}

func parseChunks(result *models.GraphQLResponse, class string) []domain.PolicyChunk {
	chunks := []domain.PolicyChunk{}
	if result == nil {
		return chunks
	}
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return chunks
	}
	objects, ok := get[class].([]interface{})
	if !ok {
		return chunks
	}
	for _, obj := range objects {
		fields, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		source, _ := fields["source"].(string)
		if source == "" {
			source = "USCIS"
		}
		text, _ := fields["text"].(string)
		chunks = append(chunks, domain.PolicyChunk{Source: source, Text: text})
	}
	return chunks
}
