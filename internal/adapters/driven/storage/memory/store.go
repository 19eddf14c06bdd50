package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driven"
)

// Ensure Store implements both storage interfaces.
var (
	_ driven.PageStore  = (*Store)(nil)
	_ driven.ChunkStore = (*Store)(nil)
)

// Store is an in-memory implementation of the page and chunk stores.
// Pages and chunks share one lock so the cascade and replace
// operations are atomic with respect to concurrent readers.
type Store struct {
	mu      sync.RWMutex
	pages   map[string]domain.Page
	idByURL map[string]string
	chunks  map[string][]domain.Chunk
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		pages:   make(map[string]domain.Page),
		idByURL: make(map[string]string),
		chunks:  make(map[string][]domain.Chunk),
	}
}

// SavePage stores or updates a page.
func (s *Store) SavePage(_ context.Context, page *domain.Page) error {
	if page.ID == "" || page.URL == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *page
	if existing, ok := s.pages[page.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
		delete(s.idByURL, existing.URL)
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.pages[stored.ID] = stored
	s.idByURL[stored.URL] = stored.ID
	return nil
}

// GetPage retrieves a page by ID.
func (s *Store) GetPage(_ context.Context, id string) (*domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

// GetPageByURL retrieves a page by its canonical URL.
func (s *Store) GetPageByURL(_ context.Context, url string) (*domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByURL[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	page := s.pages[id]
	return &page, nil
}

// ListPages returns all pages ordered by URL.
func (s *Store) ListPages(_ context.Context) ([]domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := make([]domain.Page, 0, len(s.pages))
	for _, page := range s.pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })
	return pages, nil
}

// DeletePage removes a page and all its chunks in one step.
func (s *Store) DeletePage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page, ok := s.pages[id]; ok {
		delete(s.idByURL, page.URL)
	}
	delete(s.pages, id)
	delete(s.chunks, id)
	return nil
}

// ReplaceChunks swaps the page's chunk set under one lock, so readers
// see the old set or the new set, never a mix.
func (s *Store) ReplaceChunks(_ context.Context, pageID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.pages[pageID]
	if !ok {
		return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	if page.Status != domain.PageStatusSuccess {
		return fmt.Errorf("page %s has status %q: %w", pageID, page.Status, domain.ErrInvalidPageState)
	}

	replacement := make([]domain.Chunk, len(chunks))
	now := time.Now().UTC()
	for i, chunk := range chunks {
		if chunk.PageID != pageID || chunk.Text == "" {
			return fmt.Errorf("chunk %s: %w", chunk.ID, domain.ErrInvalidInput)
		}
		replacement[i] = chunk
		if replacement[i].CreatedAt.IsZero() {
			replacement[i].CreatedAt = now
		}
	}

	s.chunks[pageID] = replacement
	return nil
}

// ChunksByPage returns a page's chunks in reading order.
func (s *Store) ChunksByPage(_ context.Context, pageID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, len(s.chunks[pageID]))
	copy(chunks, s.chunks[pageID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Order < chunks[j].Order })
	return chunks, nil
}

// Search scores every chunk by token overlap with the query terms and
// returns the top candidates, raw score descending. Empty or
// over-length queries yield an empty result.
func (s *Store) Search(_ context.Context, terms []string, limit int) ([]driven.ChunkHit, error) {
	if len(terms) == 0 || limit <= 0 || queryOverLength(terms) {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []driven.ChunkHit
	for pageID, chunks := range s.chunks {
		page := s.pages[pageID]
		for _, chunk := range chunks {
			score := overlapScore(chunk.Text, terms)
			if score <= 0 {
				continue
			}
			hits = append(hits, driven.ChunkHit{
				Chunk:     chunk,
				PageURL:   page.URL,
				PageTitle: page.Title,
				Score:     score,
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Chunk.PageID != hits[j].Chunk.PageID {
			return hits[i].Chunk.PageID < hits[j].Chunk.PageID
		}
		return hits[i].Chunk.Order < hits[j].Chunk.Order
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// overlapScore blends query-term coverage (dominant) with term
// frequency (tie-break) over the chunk's tokens.
func overlapScore(text string, terms []string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	matched := 0
	occurrences := 0
	for _, term := range terms {
		if n := counts[term]; n > 0 {
			matched++
			occurrences += n
		}
	}
	if matched == 0 {
		return 0
	}

	return float64(matched) + float64(occurrences)/float64(len(tokens))
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func queryOverLength(terms []string) bool {
	total := 0
	for _, t := range terms {
		total += len(t) + 1
	}
	return total > domain.MaxQueryLength
}
