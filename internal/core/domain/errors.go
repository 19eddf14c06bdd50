package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Empty retrieval results and empty contexts are deliberately NOT
// errors: they are values, so callers can produce an explicit
// "no information found" answer.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPageState indicates chunking was attempted on a page
	// that is not in success status, or whose text fields are all
	// empty. The caller must re-scrape first; never retried internally.
	ErrInvalidPageState = errors.New("invalid page state")

	// ErrStorageUnavailable indicates a transient storage-layer
	// failure. Safe to retry with backoff at the caller; the store
	// itself never retries.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrGeneratorUnavailable indicates the answer generator is not
	// configured. Retrieval and assembly still work without it.
	ErrGeneratorUnavailable = errors.New("answer generator unavailable")
)
