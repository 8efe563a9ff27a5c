package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type ingestServiceMock struct {
	configured bool
}

func (m ingestServiceMock) Submit(ctx context.Context, doc models.PolicyDocument) (*dto.IngestAccepted, error) {
	if !m.configured {
		return nil, appErrors.Clone(appErrors.ErrServiceUnavailable, "document ingestion is not configured")
	}
	return &dto.IngestAccepted{JobID: "job-1", Source: doc.Source, Chunks: 2}, nil
}

func TestDocumentHandlerIngest(t *testing.T) {
	h := NewDocumentHandler(ingestServiceMock{configured: true})
	w := serve(t, h.Ingest, testRequest{method: http.MethodPost, target: "/dso/documents", body: `{"source":"USCIS OPT","text":"Students may apply..."}`})
	require.Equal(t, http.StatusAccepted, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "USCIS OPT", data["source"])
}

func TestDocumentHandlerIngestUnconfigured(t *testing.T) {
	h := NewDocumentHandler(ingestServiceMock{})
	w := serve(t, h.Ingest, testRequest{method: http.MethodPost, target: "/dso/documents", body: `{"source":"USCIS","text":"x"}`})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
