// Package domain defines the core business entities for sitechat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: One scraped URL's extracted content
//   - Chunk: A typed, prioritized searchable unit within a page
//   - ScoredChunk: A retrieval candidate with its composite score
//   - ContextBlock: The budgeted text assembled for answer generation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
