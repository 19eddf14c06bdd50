// Package memory provides in-memory implementations of the storage
// ports. The chunk search uses a token-overlap relevance score, which
// satisfies the pluggable full-text contract without a database.
// Intended for tests and ephemeral runs.
package memory
