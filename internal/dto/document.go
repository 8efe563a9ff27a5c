package dto

// IngestAccepted acknowledges a policy document queued for embedding.
type IngestAccepted struct {
	JobID  string `json:"job_id"`
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}
