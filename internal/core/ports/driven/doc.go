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
//   - EmbeddingService: Maps text to fixed-length vectors
//   - LLMService: Text generation / chat completion
//   - DocumentFetcher: Resolves the manifest and fetches document bytes
//   - TextExtractor: Extracts plain text from one document format
//   - SnapshotStore: Persists the vector store snapshot blob
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: Customisable prompt templates. When nil, services use
//     their built-in defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
