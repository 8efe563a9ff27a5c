package models

// PolicyDocument is raw USCIS or school guidance submitted for ingestion.
type PolicyDocument struct {
	Source string `json:"source" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// PolicyChunk is a retrievable slice of a PolicyDocument. Index is the chunk's
// position within its source and only set at ingestion.
type PolicyChunk struct {
	Source string `json:"source"`
	Text   string `json:"text"`
	Index  int    `json:"-"`
}
