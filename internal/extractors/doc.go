// Package extractors provides text extraction from the supported document
// formats and a registry that selects the right extractor by file
// extension. The ingestion pipeline stays extension-agnostic: it hands raw
// bytes to the registry and gets plain text back.
package extractors
