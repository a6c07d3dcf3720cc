package api

import (
	"context"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// SearchAPI is the global search across parties, videos and users
type SearchAPI struct {
	c *client.Client
}

// SearchOptions narrows a global search. Type is one of all, parties,
// videos or users; empty searches everything.
type SearchOptions struct {
	ListOptions
	Type string
}

// Search runs a global search
func (s *SearchAPI) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResults, error) {
	logger.Debug("Searching", "query", query, "type", opts.Type)
	return get[SearchResults](ctx, s.c, "/v2/search/", merge(opts.params(), client.Params{
		"q":    query,
		"type": client.NonZero(opts.Type),
	}))
}

// Suggestions returns completions for a partial query
func (s *SearchAPI) Suggestions(ctx context.Context, query string) (*Suggestions, error) {
	logger.Debug("Fetching search suggestions", "query", query)
	return get[Suggestions](ctx, s.c, "/v2/search/suggestions/", client.Params{"q": query})
}
