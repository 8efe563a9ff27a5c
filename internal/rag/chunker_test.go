package rag

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%02d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkRespectsSizeAndOrder(t *testing.T) {
	chunks, err := Chunk(numberedWords(40), "doc", 20, 8)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, "doc", c.Source)
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 20)
		assert.NotEmpty(t, strings.TrimSpace(c.Text))
	}
	assert.True(t, strings.HasPrefix(chunks[0].Text, "w00"))
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1].Text, "w39"))
}

func TestChunkOverlapsNeighbours(t *testing.T) {
	chunks, err := Chunk(numberedWords(40), "doc", 20, 8)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Text)
		last := prev[len(prev)-1]
		assert.Contains(t, chunks[i].Text, last, "chunk %d should repeat the tail of chunk %d", i, i-1)
	}
}

func TestChunkPrefersParagraphBreaks(t *testing.T) {
	text := "OPT applications open 90 days early.\n\nCPT requires DSO authorization."
	chunks, err := Chunk(text, "uscis_opt", 40, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "OPT applications open 90 days early.", chunks[0].Text)
	assert.Equal(t, "CPT requires DSO authorization.", chunks[1].Text)
}

func TestChunkShortBlankAndDefaults(t *testing.T) {
	chunks, err := Chunk("  résumé ⚠️  ", "doc", 0, -1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "résumé ⚠️", chunks[0].Text)

	chunks, err = Chunk("", "doc", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = Chunk(" \n\n \n ", "doc", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = Chunk(numberedWords(10), "doc", 12, 12)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1, "an overlap as large as the chunk is dropped")
}
