// Package domain defines the core business entities for Quarry.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded, retrievable unit of document text
//   - PageText: An extracted page record supplied by a text source
//   - ChunkMatch: A nearest-neighbour search hit
//   - Persona / Job / AnalysisRequest: Inputs to relevance ranking
//   - Digest: The ranked output of a persona analysis
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
