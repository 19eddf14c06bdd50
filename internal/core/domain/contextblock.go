package domain

// ContextBlock is the bounded text assembled from ranked chunks and
// handed to the answer generator, together with the chunks that made
// it in (for citation and debugging).
type ContextBlock struct {
	// Text is the assembled context. Empty when nothing fit the budget.
	Text string

	// Included lists the chunks that were appended, in order.
	Included []ScoredChunk
}

// Empty reports whether no chunk fit the budget ("insufficient
// grounding"). Callers must short-circuit to a no-information answer
// instead of invoking the generator with an empty context.
func (c ContextBlock) Empty() bool {
	return len(c.Included) == 0
}

// SourceURLs returns the distinct page URLs backing the context,
// in rank order.
func (c ContextBlock) SourceURLs() []string {
	seen := make(map[string]bool, len(c.Included))
	urls := make([]string, 0, len(c.Included))
	for _, sc := range c.Included {
		if sc.PageURL == "" || seen[sc.PageURL] {
			continue
		}
		seen[sc.PageURL] = true
		urls = append(urls, sc.PageURL)
	}
	return urls
}
