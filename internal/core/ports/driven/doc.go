// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Chunk mapping persistence (chunk_id -> document, text)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorStore: Dense embedding storage and nearest-neighbour search.
//     Without it, insertions still persist mapping rows and searches
//     return no results.
//   - EmbeddingService: Generates vector embeddings. The fallback adapter
//     keeps it effectively always available via the hashing embedder.
//   - TextSource: Supplies extracted document text for ingestion and
//     persona analysis.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
