package driving

import (
	"context"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

// IngestService turns successfully scraped pages into stored chunks.
// Invoked by the scraping pipeline after a fetch, or by the CLI.
type IngestService interface {
	// ChunkAndStore chunks the page and atomically replaces its
	// stored chunk set. Returns the number of chunks written.
	// Fails with domain.ErrInvalidPageState when the page is not in
	// success status or carries no text.
	ChunkAndStore(ctx context.Context, pageID string) (int, error)

	// IngestPage upserts the page record and then chunks it in one
	// call. Returns the stored page ID and the chunk count.
	IngestPage(ctx context.Context, page *domain.Page) (string, int, error)
}
