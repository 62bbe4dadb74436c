package engine

import "context"

// Fetcher is the interface that all page retrieval strategies must implement
type Fetcher interface {
	// Fetch retrieves the HTML document at the given URL
	Fetch(ctx context.Context, url string) (string, error)

	// Name returns the name of the fetcher implementation
	Name() string
}
