package driving

import (
	"context"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

// RetrievalService ranks stored chunks against a free-text query.
// Consumed directly by the CLI and by the excluded HTTP layer.
type RetrievalService interface {
	// Retrieve returns at most opts.Limit chunks ordered by composite
	// score descending. Zero matches is an empty slice and a nil
	// error: insufficient grounding is a value, not a failure.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.ScoredChunk, error)
}
