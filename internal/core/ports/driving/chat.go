package driving

import (
	"context"
	"time"
)

// AskOptions configures a question-answering run.
type AskOptions struct {
	// Limit is the maximum number of context chunks (1..10, default 5).
	Limit int

	// MaxPerPage caps chunks per page in the retrieved context.
	MaxPerPage int

	// ContextBudget is the assembled context's character budget.
	// Zero means the configured default.
	ContextBudget int
}

// Answer is the outcome of one pipeline run.
type Answer struct {
	// Text is the generated answer, or the fixed no-information
	// response when ContextFound is false.
	Text string

	// SourceURLs lists the distinct pages grounding the answer,
	// in rank order.
	SourceURLs []string

	// ContextFound reports whether any grounding chunk was assembled.
	ContextFound bool

	// Elapsed is the total pipeline duration.
	Elapsed time.Duration
}

// ChatService runs the full query pipeline: retrieve, assemble,
// generate.
type ChatService interface {
	// Ask answers a question grounded in stored chunks. When no
	// grounding context exists it short-circuits with a clear
	// no-information answer instead of invoking the generator.
	Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error)
}
