package rag

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/noah-isme/univisa-api/internal/models"
)

const defaultChunkSize = 2000

// Chunk splits text on paragraph, line and word boundaries into chunks of at
// most size runes, carrying up to overlap runes between neighbours. Blank
// chunks are skipped and the rest are numbered in order.
func Chunk(text, source string, size, overlap int) ([]models.PolicyChunk, error) {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	)
	parts, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", source, err)
	}

	chunks := make([]models.PolicyChunk, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, models.PolicyChunk{Source: source, Text: part, Index: len(chunks)})
	}
	return chunks, nil
}
