package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalWeights_TypeWeight(t *testing.T) {
	w := DefaultRetrievalWeights()

	// Title outranks heading outranks content.
	assert.Greater(t, w.TypeWeight(ChunkTypeTitle), w.TypeWeight(ChunkTypeHeading))
	assert.Greater(t, w.TypeWeight(ChunkTypeHeading), w.TypeWeight(ChunkTypeContent))
}

func TestRetrievalWeights_PriorityFactor(t *testing.T) {
	w := DefaultRetrievalWeights()

	// Monotonically decreasing in the stored priority value.
	assert.Greater(t, w.PriorityFactor(PriorityTitle), w.PriorityFactor(PriorityHeading))
	assert.Greater(t, w.PriorityFactor(PriorityHeading), w.PriorityFactor(PriorityContent))
	assert.Greater(t, w.PriorityFactor(PriorityContent), w.PriorityFactor(PriorityMetadata))

	// Degenerate priorities are clamped, not amplified.
	assert.Equal(t, w.PriorityFactor(1), w.PriorityFactor(0))
	assert.Equal(t, w.PriorityFactor(1), w.PriorityFactor(-3))
}

func TestContextBlock_SourceURLs(t *testing.T) {
	block := ContextBlock{
		Included: []ScoredChunk{
			{PageURL: "https://example.com/about"},
			{PageURL: "https://example.com/team"},
			{PageURL: "https://example.com/about"}, // duplicate page
			{PageURL: ""},
		},
	}

	assert.Equal(t,
		[]string{"https://example.com/about", "https://example.com/team"},
		block.SourceURLs())
	assert.False(t, block.Empty())
	assert.True(t, ContextBlock{}.Empty())
}
