package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/sitechat-cli/internal/adapters/driven/storage/memory"
	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

func newIngestFixture() (*IngestService, *memory.Store) {
	store := memory.NewStore()
	return NewIngestService(store, store, nil), store
}

func TestChunkAndStore_PersistsChunks(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	require.NoError(t, store.SavePage(ctx, &domain.Page{
		ID:       "p1",
		URL:      "https://example.com/about",
		Title:    "Acme Corp",
		Headings: []string{"Leadership Team"},
		Body:     "Jane Doe is the CEO of Acme Corp.",
		Status:   domain.PageStatusSuccess,
	}))

	count, err := svc.ChunkAndStore(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	chunks, err := store.ChunksByPage(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, domain.ChunkTypeTitle, chunks[0].Type)
	assert.Equal(t, domain.ChunkTypeHeading, chunks[1].Type)
	assert.Equal(t, domain.ChunkTypeContent, chunks[2].Type)
}

func TestChunkAndStore_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	require.NoError(t, store.SavePage(ctx, &domain.Page{
		ID:     "p1",
		URL:    "https://example.com/about",
		Title:  "Acme Corp",
		Body:   "Jane Doe is the CEO of Acme Corp. Acme ships anvils worldwide.",
		Status: domain.PageStatusSuccess,
	}))

	first, err := svc.ChunkAndStore(ctx, "p1")
	require.NoError(t, err)
	firstChunks, err := store.ChunksByPage(ctx, "p1")
	require.NoError(t, err)

	second, err := svc.ChunkAndStore(ctx, "p1")
	require.NoError(t, err)
	secondChunks, err := store.ChunksByPage(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Equal(t, len(firstChunks), len(secondChunks))
	for i := range firstChunks {
		assert.Equal(t, firstChunks[i].Text, secondChunks[i].Text)
		assert.Equal(t, firstChunks[i].Order, secondChunks[i].Order)
		assert.Equal(t, firstChunks[i].Type, secondChunks[i].Type)
	}
}

func TestChunkAndStore_RejectsNonSuccessPage(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	require.NoError(t, store.SavePage(ctx, &domain.Page{
		ID:     "p1",
		URL:    "https://example.com/failed",
		Title:  "Broken",
		Body:   "partial scrape",
		Status: domain.PageStatusFailed,
	}))

	_, err := svc.ChunkAndStore(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidPageState)
}

func TestChunkAndStore_MissingPage(t *testing.T) {
	svc, _ := newIngestFixture()

	_, err := svc.ChunkAndStore(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestPage_NewPage(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	id, count, err := svc.IngestPage(ctx, &domain.Page{
		URL:   "https://example.com/about",
		Title: "Acme Corp",
		Body:  "Jane Doe is the CEO of Acme Corp.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 2, count)

	page, err := store.GetPage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PageStatusSuccess, page.Status)
}

func TestIngestPage_KeepsIDAcrossReScrapes(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	firstID, _, err := svc.IngestPage(ctx, &domain.Page{
		URL:   "https://example.com/about",
		Title: "Acme Corp",
		Body:  "Jane Doe is the CEO of Acme Corp.",
	})
	require.NoError(t, err)

	secondID, _, err := svc.IngestPage(ctx, &domain.Page{
		URL:   "https://example.com/about",
		Title: "Acme Corporation",
		Body:  "John Smith is the new CEO of Acme Corp.",
	})
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	page, err := store.GetPage(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", page.Title)

	// Old chunks are gone: replacement is delete-then-insert.
	chunks, err := store.ChunksByPage(ctx, firstID)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.NotContains(t, c.Text, "Jane Doe")
	}
}

func TestIngestPage_PendingPageStoredWithoutChunks(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	id, count, err := svc.IngestPage(ctx, &domain.Page{
		URL:    "https://example.com/queued",
		Status: domain.PageStatusPending,
	})
	require.NoError(t, err)
	assert.Zero(t, count)

	chunks, err := store.ChunksByPage(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngestPage_Validation(t *testing.T) {
	svc, _ := newIngestFixture()
	ctx := context.Background()

	_, _, err := svc.IngestPage(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = svc.IngestPage(ctx, &domain.Page{Title: "no url"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = svc.IngestPage(ctx, &domain.Page{
		URL:    "https://example.com",
		Status: domain.PageStatus("bogus"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Ingest-then-retrieve over the whole pipeline: the body chunk carrying
// the answer outranks the page's structural chunks for a body question.
func TestIngestThenRetrieve_FindsAnswerChunk(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()

	_, _, err := svc.IngestPage(ctx, &domain.Page{
		URL:      "https://example.com/about",
		Title:    "Acme Corp",
		Headings: []string{"Leadership Team"},
		Body:     "Jane Doe is the CEO of Acme Corp.",
	})
	require.NoError(t, err)

	_, _, err = svc.IngestPage(ctx, &domain.Page{
		URL:   "https://example.com/products",
		Title: "Product Catalogue",
		Body:  "Our anvils come in three sizes and ship worldwide.",
	})
	require.NoError(t, err)

	retriever := NewRetrievalService(store, domain.DefaultRetrievalWeights())
	results, err := retriever.Retrieve(ctx, "Who is the CEO?", domain.RetrieveOptions{Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Contains(t, results[0].Chunk.Text, "Jane Doe is the CEO")
	assert.Equal(t, "https://example.com/about", results[0].PageURL)
}
