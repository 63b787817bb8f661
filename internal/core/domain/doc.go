// Package domain defines the core business entities for Docent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded unit of document text paired with its embedding
//   - DocumentMeta: Derived metadata about a loaded document
//   - Snapshot: The persisted serialised form of the vector store
//   - SubtopicResult: Per-query retrieval state for one subtopic
//   - Answer: A grounded response with citations
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
