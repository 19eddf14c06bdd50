package domain

import "time"

// PageStatus tracks the scrape lifecycle of a page.
type PageStatus string

const (
	// PageStatusPending means the page has been recorded but not scraped.
	PageStatusPending PageStatus = "pending"

	// PageStatusSuccess means extraction succeeded and the page is chunkable.
	PageStatusSuccess PageStatus = "success"

	// PageStatusFailed means the last scrape attempt failed.
	PageStatusFailed PageStatus = "failed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s PageStatus) Valid() bool {
	switch s {
	case PageStatusPending, PageStatusSuccess, PageStatusFailed:
		return true
	}
	return false
}

// Page represents one scraped URL's extracted content.
// Fields are overwritten in place on re-scrape; the ID stays stable
// for a given URL.
type Page struct {
	// ID is the unique identifier for the page.
	ID string

	// URL is the canonical source address. Unique across pages.
	URL string

	// Title is the extracted page title.
	Title string

	// Headings holds the page's heading strings in document order.
	Headings []string

	// Body is the full extracted text content.
	Body string

	// Metadata carries free-form extracted key/value text,
	// such as description and keywords.
	Metadata map[string]string

	// Status is the scrape lifecycle state.
	Status PageStatus

	// CreatedAt is when the URL was first recorded.
	CreatedAt time.Time

	// UpdatedAt is when the page was last re-scraped or edited.
	UpdatedAt time.Time
}

// HasText reports whether any of the chunkable text fields carry content.
func (p *Page) HasText() bool {
	if p.Title != "" || p.Body != "" || len(p.Metadata) > 0 {
		return true
	}
	for _, h := range p.Headings {
		if h != "" {
			return true
		}
	}
	return false
}
