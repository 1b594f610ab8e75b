// Package search provides web search engines behind a single Engine interface.
package search

import "context"

// Result is one ranked search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Engine runs a text query and returns at most limit ranked results.
// An empty result slice with a nil error means nothing matched.
type Engine interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}
