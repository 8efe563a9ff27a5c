package dto

import "github.com/noah-isme/univisa-api/internal/models"

// ExportRequest captures the POST /dso/exports payload.
type ExportRequest struct {
	Type      models.ExportType   `json:"type"`
	Format    models.ExportFormat `json:"format"`
	StudentID string              `json:"student_id,omitempty"`
	AsOf      string              `json:"as_of,omitempty"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ExportType   `json:"type"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
