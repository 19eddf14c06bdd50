package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/quarry-labs/sitechat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks successfully scraped pages and replaces their
// stored chunk sets.
type IngestService struct {
	pageStore  driven.PageStore
	chunkStore driven.ChunkStore
	chunker    *Chunker
}

// NewIngestService creates an ingest service. A nil chunker gets the
// default configuration.
func NewIngestService(
	pageStore driven.PageStore,
	chunkStore driven.ChunkStore,
	chunker *Chunker,
) *IngestService {
	if chunker == nil {
		chunker = NewChunker()
	}
	return &IngestService{
		pageStore:  pageStore,
		chunkStore: chunkStore,
		chunker:    chunker,
	}
}

// ChunkAndStore chunks the page and atomically replaces its stored
// chunk set. The replacement is all-or-nothing: a failure partway
// leaves the previous set intact.
func (s *IngestService) ChunkAndStore(ctx context.Context, pageID string) (int, error) {
	logger.Section("Ingest")
	logger.Debug("Chunking page %s", pageID)

	page, err := s.pageStore.GetPage(ctx, pageID)
	if err != nil {
		return 0, fmt.Errorf("get page %s: %w", pageID, err)
	}

	chunks, err := s.chunker.Chunk(page)
	if err != nil {
		return 0, err
	}
	logger.Debug("Produced %d chunks", len(chunks))

	if err := s.chunkStore.ReplaceChunks(ctx, page.ID, chunks); err != nil {
		return 0, fmt.Errorf("replace chunks for page %s: %w", page.ID, err)
	}

	logger.Info("Stored %d chunks for %s", len(chunks), page.URL)
	return len(chunks), nil
}

// IngestPage upserts the page record and chunks it in one call.
// A known URL keeps its page ID across re-scrapes. Pages recorded
// with a non-success status are stored but not chunked.
func (s *IngestService) IngestPage(ctx context.Context, page *domain.Page) (string, int, error) {
	if page == nil || page.URL == "" {
		return "", 0, fmt.Errorf("page URL is required: %w", domain.ErrInvalidInput)
	}
	if page.Status == "" {
		page.Status = domain.PageStatusSuccess
	}
	if !page.Status.Valid() {
		return "", 0, fmt.Errorf("unknown page status %q: %w", page.Status, domain.ErrInvalidInput)
	}

	// Re-scrapes of a known URL overwrite fields but keep identity.
	existing, err := s.pageStore.GetPageByURL(ctx, page.URL)
	switch {
	case err == nil:
		page.ID = existing.ID
		page.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		if page.ID == "" {
			page.ID = uuid.New().String()
		}
	default:
		return "", 0, fmt.Errorf("lookup page by url: %w", err)
	}

	if err := s.pageStore.SavePage(ctx, page); err != nil {
		return "", 0, fmt.Errorf("save page: %w", err)
	}

	if page.Status != domain.PageStatusSuccess {
		logger.Debug("Page %s recorded with status %s, skipping chunking", page.ID, page.Status)
		return page.ID, 0, nil
	}

	count, err := s.ChunkAndStore(ctx, page.ID)
	if err != nil {
		return page.ID, 0, err
	}
	return page.ID, count, nil
}
