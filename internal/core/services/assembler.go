package services

import (
	"fmt"
	"strings"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/logger"
)

// DefaultContextBudget is the default character budget for assembled
// context, counted over chunk text only.
const DefaultContextBudget = 2000

// ContextAssembler turns a ranked chunk list into one bounded text
// block for the answer generator. Assembly is pure and idempotent:
// identical input and budget always produce identical output.
type ContextAssembler struct {
	budget int
}

// NewContextAssembler creates an assembler with the given default
// character budget. Non-positive means DefaultContextBudget.
func NewContextAssembler(budget int) *ContextAssembler {
	if budget <= 0 {
		budget = DefaultContextBudget
	}
	return &ContextAssembler{budget: budget}
}

// Assemble walks chunks in ranked order and appends each chunk's text,
// prefixed by a provenance marker, while the running chunk-text total
// stays within the budget. A chunk that would overflow is skipped
// whole rather than truncated; later, smaller chunks may still fit.
// Duplicate (page, order) pairs are considered once. A non-positive
// budget falls back to the assembler's default.
//
// Markers and separators are not charged against the budget, so the
// bound is on retrieved evidence, not formatting.
func (a *ContextAssembler) Assemble(ranked []domain.ScoredChunk, budget int) domain.ContextBlock {
	if budget <= 0 {
		budget = a.budget
	}

	type chunkKey struct {
		pageID string
		order  int
	}

	var (
		b        strings.Builder
		included []domain.ScoredChunk
		total    int
	)
	seen := make(map[chunkKey]bool, len(ranked))

	for _, sc := range ranked {
		key := chunkKey{pageID: sc.Chunk.PageID, order: sc.Chunk.Order}
		if seen[key] {
			continue
		}
		seen[key] = true

		text := sc.Chunk.Text
		if text == "" {
			continue
		}
		if total+len(text) > budget {
			logger.Debug("Skipping %d-char chunk, %d of %d budget used",
				len(text), total, budget)
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s\n", sc.Chunk.Type, sc.PageURL)
		b.WriteString(text)

		total += len(text)
		included = append(included, sc)
	}

	if len(included) == 0 {
		// Budget smaller than the smallest candidate: insufficient
		// grounding, reported as an empty block rather than an error.
		return domain.ContextBlock{}
	}

	return domain.ContextBlock{
		Text:     b.String(),
		Included: included,
	}
}
