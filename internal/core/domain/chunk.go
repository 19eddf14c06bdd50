package domain

import "time"

// ChunkType classifies where in a page a chunk came from.
// The type drives base priority and retrieval weighting.
type ChunkType string

const (
	// ChunkTypeTitle is the single chunk holding the page title.
	ChunkTypeTitle ChunkType = "title"

	// ChunkTypeHeading is one chunk per page heading.
	ChunkTypeHeading ChunkType = "heading"

	// ChunkTypeContent is a body or metadata text window.
	ChunkTypeContent ChunkType = "content"
)

// Valid reports whether the chunk type is known.
func (t ChunkType) Valid() bool {
	switch t {
	case ChunkTypeTitle, ChunkTypeHeading, ChunkTypeContent:
		return true
	}
	return false
}

// Chunk priorities. Smaller values mark intrinsically more important
// text within a page; the retriever folds them into its composite score.
const (
	PriorityTitle    = 1
	PriorityHeading  = 3
	PriorityContent  = 5
	PriorityMetadata = 6
)

// Chunk is the unit of retrieval: a bounded, typed fragment of a
// page's text. Chunks are immutable once stored; a re-scrape replaces
// the whole set for the owning page.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// PageID links to the owning Page. A chunk never outlives its page.
	PageID string

	// Text is the chunk content. Never empty, bounded in length.
	Text string

	// Type classifies the chunk (title, heading, content).
	Type ChunkType

	// Priority is the intrinsic importance within the page.
	// Smaller means more important (title 1 ... metadata 6).
	Priority int

	// Order preserves the chunk's position within the page.
	// Unique per page and strictly increasing in emission order.
	Order int

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time
}
