package domain

// Default retrieval bounds. The original system accepted a context
// limit between 1 and 10 with a default of 5.
const (
	DefaultRetrieveLimit = 5
	MaxRetrieveLimit     = 10

	// MaxQueryLength is the longest query the pipeline will search for.
	// Longer queries yield an empty result rather than an error.
	MaxQueryLength = 1000
)

// RetrieveOptions configures a retrieval run.
type RetrieveOptions struct {
	// Limit is the maximum number of chunks returned (k).
	// Zero or negative means DefaultRetrieveLimit; values above
	// MaxRetrieveLimit are clamped.
	Limit int

	// MaxPerPage caps how many chunks a single page may contribute,
	// so one page cannot monopolise the context. Zero means no cap.
	MaxPerPage int
}

// RetrievalWeights are the tunable knobs blending raw text relevance
// with structural type/priority signals. Exposed as configuration
// rather than constants; the exact values are policy.
type RetrievalWeights struct {
	// TitleWeight multiplies the raw score of title chunks.
	TitleWeight float64

	// HeadingWeight multiplies the raw score of heading chunks.
	HeadingWeight float64

	// ContentWeight multiplies the raw score of content chunks.
	ContentWeight float64

	// PriorityBoost controls how strongly the stored priority field
	// lifts a chunk: factor = 1 + PriorityBoost/priority.
	PriorityBoost float64
}

// DefaultRetrievalWeights privileges title over heading over content.
func DefaultRetrievalWeights() RetrievalWeights {
	return RetrievalWeights{
		TitleWeight:   2.0,
		HeadingWeight: 1.5,
		ContentWeight: 1.0,
		PriorityBoost: 1.0,
	}
}

// TypeWeight returns the multiplier for a chunk type.
func (w RetrievalWeights) TypeWeight(t ChunkType) float64 {
	switch t {
	case ChunkTypeTitle:
		return w.TitleWeight
	case ChunkTypeHeading:
		return w.HeadingWeight
	default:
		return w.ContentWeight
	}
}

// PriorityFactor is monotonically decreasing in the stored priority
// value, so smaller (more important) priorities score higher.
func (w RetrievalWeights) PriorityFactor(priority int) float64 {
	if priority < 1 {
		priority = 1
	}
	return 1.0 + w.PriorityBoost/float64(priority)
}

// ScoredChunk is a retrieval result: a chunk, its owning page's
// address for provenance, and the composite score that ranked it.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// PageURL is the owning page's canonical address.
	PageURL string

	// PageTitle is the owning page's title, for display.
	PageTitle string

	// Score is the composite relevance score.
	Score float64
}
