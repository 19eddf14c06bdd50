package driven

import (
	"context"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

// PageStore persists page records.
// Backed by SQLite; an in-memory implementation exists for tests.
type PageStore interface {
	// SavePage stores or updates a page. Re-scrapes of a known URL
	// overwrite the existing record and keep its ID.
	SavePage(ctx context.Context, page *domain.Page) error

	// GetPage retrieves a page by ID.
	GetPage(ctx context.Context, id string) (*domain.Page, error)

	// GetPageByURL retrieves a page by its canonical URL.
	GetPageByURL(ctx context.Context, url string) (*domain.Page, error)

	// ListPages returns all page records.
	ListPages(ctx context.Context) ([]domain.Page, error)

	// DeletePage removes a page and, by cascade, all its chunks.
	// The cascade runs as one explicit transaction.
	DeletePage(ctx context.Context, id string) error
}
