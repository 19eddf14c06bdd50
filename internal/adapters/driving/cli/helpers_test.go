package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/sitechat-cli/internal/adapters/driven/storage/memory"
	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/services"
)

// stubGenerator returns a canned answer for CLI tests.
type stubGenerator struct {
	answer string
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return g.answer, nil
}

// setupTestServices wires the command tree to an in-memory store and a
// stub generator. The cleanup restores the previous wiring.
func setupTestServices() func() {
	oldPageStore := pageStore
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldChat := chatService

	store := memory.NewStore()
	pageStore = store
	ingestService = services.NewIngestService(store, store, nil)
	retrievalService = services.NewRetrievalService(store, domain.DefaultRetrievalWeights())
	chatService = services.NewChatService(retrievalService,
		services.NewContextAssembler(0), &stubGenerator{answer: "stub answer"})

	return func() {
		pageStore = oldPageStore
		ingestService = oldIngest
		retrievalService = oldRetrieval
		chatService = oldChat
	}
}

// seedIndexedPage ingests one page through the wired ingest service.
func seedIndexedPage(t *testing.T) string {
	t.Helper()
	id, _, err := ingestService.IngestPage(context.Background(), &domain.Page{
		URL:      "https://example.com/about",
		Title:    "Acme Corp",
		Headings: []string{"Leadership Team"},
		Body:     "Jane Doe is the CEO of Acme Corp.",
	})
	require.NoError(t, err)
	return id
}
