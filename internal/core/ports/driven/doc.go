// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PageStore: Page record persistence with explicit cascade delete
//   - ChunkStore: Chunk persistence, transactional replacement, and
//     full-text candidate search
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AnswerGenerator: Produces answers from an assembled context.
//     Without it, retrieval and assembly still work and `ask` reports
//     that no generator is configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
