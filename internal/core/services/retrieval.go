package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/quarry-labs/sitechat-cli/internal/logger"
)

// candidateMultiplier is the over-fetch factor giving the re-ranker
// headroom beyond the requested result count.
const candidateMultiplier = 3

// minCandidates is the floor on the candidate fetch, so small k values
// still see enough of the index to re-rank meaningfully.
const minCandidates = 15

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService converts a free-text query into a ranked, bounded
// chunk list by blending the store's raw text relevance with the
// structural type and priority signals.
type RetrievalService struct {
	chunkStore driven.ChunkStore
	weights    domain.RetrievalWeights
}

// NewRetrievalService creates a retrieval service with the given
// scoring weights.
func NewRetrievalService(chunkStore driven.ChunkStore, weights domain.RetrievalWeights) *RetrievalService {
	return &RetrievalService{
		chunkStore: chunkStore,
		weights:    weights,
	}
}

// Retrieve returns at most opts.Limit chunks ordered by composite
// score descending. Results are deterministic for identical store
// state and query. Zero matches yields an empty slice, nil error.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	if len(query) > domain.MaxQueryLength {
		logger.Debug("Query over %d chars, returning no results", domain.MaxQueryLength)
		return []domain.ScoredChunk{}, nil
	}

	terms := tokenizeQuery(query)
	if len(terms) == 0 {
		logger.Debug("Empty query, returning no results")
		return []domain.ScoredChunk{}, nil
	}
	logger.Debug("Terms: %v", terms)

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultRetrieveLimit
	}
	if limit > domain.MaxRetrieveLimit {
		limit = domain.MaxRetrieveLimit
	}

	candidateLimit := limit * candidateMultiplier
	if candidateLimit < minCandidates {
		candidateLimit = minCandidates
	}
	logger.Debug("Limit: %d, candidate limit: %d", limit, candidateLimit)

	hits, err := s.chunkStore.Search(ctx, terms, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	logger.Debug("Raw candidates: %d", len(hits))

	scored := make([]domain.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		composite := hit.Score *
			s.weights.TypeWeight(hit.Chunk.Type) *
			s.weights.PriorityFactor(hit.Chunk.Priority)
		scored = append(scored, domain.ScoredChunk{
			Chunk:     hit.Chunk,
			PageURL:   hit.PageURL,
			PageTitle: hit.PageTitle,
			Score:     composite,
		})
	}

	// Composite score descending; ties break by chunk order ascending
	// (lead text wins) and then page ID, so the ordering is total.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Chunk.Order != scored[j].Chunk.Order {
			return scored[i].Chunk.Order < scored[j].Chunk.Order
		}
		return scored[i].Chunk.PageID < scored[j].Chunk.PageID
	})

	results := make([]domain.ScoredChunk, 0, limit)
	perPage := make(map[string]int)
	for _, sc := range scored {
		if opts.MaxPerPage > 0 && perPage[sc.Chunk.PageID] >= opts.MaxPerPage {
			continue
		}
		perPage[sc.Chunk.PageID]++
		results = append(results, sc)
		if len(results) == limit {
			break
		}
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// tokenizeQuery lowercases the query, strips surrounding punctuation
// and drops single-character terms.
func tokenizeQuery(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(term) > 1 {
			terms = append(terms, term)
		}
	}
	return terms
}
