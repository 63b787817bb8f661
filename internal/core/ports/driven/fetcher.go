package driven

import "context"

// DocumentFetcher resolves the declared document set and fetches raw bytes.
// The manifest order is significant: the set fingerprint is computed over
// the ordered filename list.
type DocumentFetcher interface {
	// Manifest returns the ordered list of document filenames.
	Manifest(ctx context.Context) ([]string, error)

	// Fetch retrieves the raw bytes for one manifest entry.
	Fetch(ctx context.Context, name string) ([]byte, error)
}
