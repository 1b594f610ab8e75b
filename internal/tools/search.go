package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"daytrip/internal/search"
)

const (
	SearchToolName    = "web_search"
	defaultMaxResults = 10
)

// SearchArgs are the arguments of web_search.
type SearchArgs struct {
	Query string `json:"query" validate:"required" jsonschema_description:"The search query to perform"`
}

// SearchTool runs a web search and returns the ranked hits as a text block.
type SearchTool struct {
	engine     search.Engine
	maxResults int
	schema     *jsonschema.Schema
}

func NewSearchTool(engine search.Engine, maxResults int) *SearchTool {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &SearchTool{
		engine:     engine,
		maxResults: maxResults,
		schema:     GenerateSchema[SearchArgs](),
	}
}

func (t *SearchTool) Name() string { return SearchToolName }

func (t *SearchTool) Description() string {
	return "Performs a web search for the query and returns the top ranked results with titles, links and snippets."
}

func (t *SearchTool) Parameters() *jsonschema.Schema { return t.schema }

func (t *SearchTool) Call(ctx context.Context, raw json.RawMessage) Result {
	var args SearchArgs
	if err := decodeArgs(raw, &args); err != nil {
		return Failure(err.Error())
	}
	return t.Search(ctx, args.Query)
}

// Search runs query. No hits is a Success with an explanatory line.
func (t *SearchTool) Search(ctx context.Context, query string) Result {
	return guard(SearchToolName, func() Result {
		results, err := t.engine.Search(ctx, query, t.maxResults)
		if err != nil {
			return Failure(fmt.Sprintf("search failed: %v", err))
		}
		if len(results) == 0 {
			return Success(fmt.Sprintf("No results found for %q. Try a less restrictive or shorter query.", query))
		}
		return Success(formatResults(results))
	})
}

func formatResults(results []search.Result) string {
	var b strings.Builder
	b.WriteString("## Search Results\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, r.Title)
		if r.URL != "" {
			fmt.Fprintf(&b, "   %s\n", r.URL)
		}
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	return b.String()
}
