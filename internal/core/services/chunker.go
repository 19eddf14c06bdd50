package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

// DefaultChunkSize is the target number of characters per content chunk.
const DefaultChunkSize = 300

// DefaultChunkOverlap is the number of characters carried over between
// consecutive content chunks so context survives a split boundary.
const DefaultChunkOverlap = 60

// DefaultMinChunkLength filters out fragments too short to be useful
// retrieval units.
const DefaultMinChunkLength = 10

// DefaultMaxChunkLength is the hard upper bound on chunk text. Anything
// longer is split at word boundaries.
const DefaultMaxChunkLength = 2000

// Chunker transforms one page record into an ordered sequence of
// typed, prioritized chunks: one title chunk, one chunk per heading,
// sliding-window content chunks over the body, and a single fold-in
// chunk for page metadata.
type Chunker struct {
	chunkSize int
	overlap   int
	minLen    int
	maxLen    int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the target content chunk size in characters.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between content chunks in characters.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMinChunkLength sets the minimum length of a kept content chunk.
func WithMinChunkLength(n int) ChunkerOption {
	return func(c *Chunker) {
		if n >= 0 {
			c.minLen = n
		}
	}
}

// WithMaxChunkLength sets the hard upper bound on chunk text length.
func WithMaxChunkLength(n int) ChunkerOption {
	return func(c *Chunker) {
		if n > 0 {
			c.maxLen = n
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minLen:    DefaultMinChunkLength,
		maxLen:    DefaultMaxChunkLength,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't swallow the whole window
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	if c.maxLen < c.chunkSize {
		c.maxLen = c.chunkSize
	}

	return c
}

// Chunk produces the ordered chunk sequence for a page. Output is not
// yet persisted. Text and order are deterministic for identical input;
// only the IDs are fresh.
func (c *Chunker) Chunk(page *domain.Page) ([]domain.Chunk, error) {
	if page.Status != domain.PageStatusSuccess {
		return nil, fmt.Errorf("page %s has status %q: %w",
			page.ID, page.Status, domain.ErrInvalidPageState)
	}
	if !page.HasText() {
		return nil, fmt.Errorf("page %s has no text to chunk: %w",
			page.ID, domain.ErrInvalidPageState)
	}

	var chunks []domain.Chunk
	order := 0

	emit := func(text string, typ domain.ChunkType, priority int) {
		for _, part := range hardSplit(text, c.maxLen) {
			chunks = append(chunks, domain.Chunk{
				ID:       uuid.New().String(),
				PageID:   page.ID,
				Text:     part,
				Type:     typ,
				Priority: priority,
				Order:    order,
			})
			order++
		}
	}

	if title := strings.TrimSpace(page.Title); title != "" {
		emit(title, domain.ChunkTypeTitle, domain.PriorityTitle)
	}

	for _, h := range page.Headings {
		if h = strings.TrimSpace(h); h != "" {
			emit(h, domain.ChunkTypeHeading, domain.PriorityHeading)
		}
	}

	for _, window := range c.windows(page.Body) {
		emit(window, domain.ChunkTypeContent, domain.PriorityContent)
	}

	// Metadata often carries named entities useful for retrieval,
	// so it is folded into one low-priority chunk rather than dropped.
	if meta := foldMetadata(page.Metadata); meta != "" {
		emit(meta, domain.ChunkTypeContent, domain.PriorityMetadata)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("page %s produced no chunks: %w",
			page.ID, domain.ErrInvalidPageState)
	}

	return chunks, nil
}

// windows splits body text into overlapping windows at sentence and
// paragraph boundaries. A body shorter than one window yields exactly
// one window.
func (c *Chunker) windows(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	if len(body) <= c.chunkSize {
		return []string{body}
	}

	units := splitBoundaries(body)

	var windows []string
	var current string

	flush := func() {
		if current != "" {
			windows = append(windows, current)
		}
	}

	for _, unit := range units {
		switch {
		case current == "":
			current = unit
		case len(current)+1+len(unit) <= c.chunkSize:
			current += " " + unit
		default:
			flush()
			// Seed the next window with the tail of the previous one
			// so nothing is lost at the split boundary.
			tail := overlapTail(current, c.overlap)
			if tail != "" {
				current = tail + " " + unit
			} else {
				current = unit
			}
		}
	}
	flush()

	// Drop fragments too short to retrieve on, unless nothing else
	// survived.
	kept := windows[:0]
	for _, w := range windows {
		if len(w) >= c.minLen {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return []string{body[:runeStart(body, min(len(body), c.maxLen))]}
	}
	return kept
}

// splitBoundaries breaks text into sentence-ish units, treating
// newlines as paragraph boundaries. Mid-word splits are avoided;
// hardSplit handles pathological unbroken runs later.
func splitBoundaries(text string) []string {
	var units []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		switch r {
		case '.', '!', '?', '\n', '。', '！', '？':
			if u := strings.TrimSpace(current.String()); u != "" {
				units = append(units, u)
			}
			current.Reset()
		}
	}

	if u := strings.TrimSpace(current.String()); u != "" {
		units = append(units, u)
	}

	return units
}

// overlapTail returns roughly the last n bytes of s, advanced to the
// next word boundary so the carried text never starts mid-word, or to
// the next rune boundary when the tail has no spaces.
func overlapTail(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return ""
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	tail := s[start:]
	if i := strings.IndexByte(tail, ' '); i >= 0 {
		tail = tail[i+1:]
	}
	return strings.TrimSpace(tail)
}

// hardSplit cuts text into pieces of at most maxLen bytes, preferring
// word boundaries and never cutting inside a rune.
func hardSplit(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(text) > maxLen {
		cut := runeStart(text, maxLen)
		if i := strings.LastIndexByte(text[:cut], ' '); i > 0 {
			cut = i
		}
		if cut == 0 {
			_, size := utf8.DecodeRuneInString(text)
			cut = size
		}
		parts = append(parts, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// runeStart backs the byte index i up to the nearest rune boundary
// in s. An index at or past the end of s is returned unchanged.
func runeStart(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// foldMetadata renders page metadata as sorted "key: value" lines so
// the chunk text is deterministic across runs.
func foldMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return ""
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		if strings.TrimSpace(metadata[k]) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(metadata[k]))
	}
	return b.String()
}
