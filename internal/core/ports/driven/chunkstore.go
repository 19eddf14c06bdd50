package driven

import (
	"context"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

// ChunkStore persists chunks and serves full-text candidate lookups.
// The relevance mechanism is pluggable: any token-overlap or
// inverted-index scorer satisfies the Search contract.
type ChunkStore interface {
	// ReplaceChunks atomically deletes all existing chunks for a page
	// and inserts the new set in a single transaction. Concurrent
	// readers see either the fully-old or fully-new set, never a mix.
	ReplaceChunks(ctx context.Context, pageID string, chunks []domain.Chunk) error

	// ChunksByPage returns a page's chunks in reading order.
	ChunksByPage(ctx context.Context, pageID string) ([]domain.Chunk, error)

	// Search returns candidate chunks matching the query terms,
	// ordered by the store's native relevance score descending.
	// An empty or over-length query yields an empty result, not an
	// error. Connectivity failures wrap domain.ErrStorageUnavailable
	// and are not retried here.
	Search(ctx context.Context, terms []string, limit int) ([]ChunkHit, error)
}

// ChunkHit is a search candidate: the chunk row, its owning page's
// URL and title for provenance, and the raw relevance score.
type ChunkHit struct {
	// Chunk is the matched chunk with type, priority and order.
	Chunk domain.Chunk

	// PageURL is the owning page's canonical address.
	PageURL string

	// PageTitle is the owning page's title.
	PageTitle string

	// Score is the store's native relevance score. Higher is better.
	Score float64
}
