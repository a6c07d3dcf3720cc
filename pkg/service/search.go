package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/output"
)

// SearchService runs the global search
type SearchService struct {
	env *Env
}

// NewSearchService creates a new search service
func NewSearchService(env *Env) *SearchService {
	return &SearchService{env: env}
}

// Search finds parties, videos and users. kind narrows the search to one
// of them.
func (s *SearchService) Search(ctx context.Context, query, kind string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return clierrors.ValidationError("query", "is required")
	}
	switch kind {
	case "", "all", "parties", "videos", "users":
	default:
		return clierrors.ValidationError("type", "must be one of all, parties, videos, users")
	}

	logger.Debug("Searching", "query", query, "type", kind)
	var res *api.SearchResults
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Search.Search(ctx, query, api.SearchOptions{Type: kind})
		return err
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if s.env.Out.Format == output.FormatJSON {
		return s.env.Out.JSON(res)
	}
	if len(res.Parties)+len(res.Videos)+len(res.Users) == 0 {
		s.env.Out.Info("No results for %q.", query)
		return nil
	}

	sections := []struct {
		n     int
		print func() error
	}{
		{len(res.Parties), func() error {
			return s.env.Out.PrintList("Parties", res.Parties, formatter.Parties(res.Parties), "")
		}},
		{len(res.Videos), func() error {
			return s.env.Out.PrintList("Videos", res.Videos, formatter.Videos(res.Videos), "")
		}},
		{len(res.Users), func() error {
			return s.env.Out.PrintList("Users", res.Users, formatter.Users(res.Users), "")
		}},
	}
	first := true
	for _, sec := range sections {
		if sec.n == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(s.env.Out.Out)
		}
		first = false
		if err := sec.print(); err != nil {
			return err
		}
	}
	return nil
}

// Suggest prints search completions for a partial query
func (s *SearchService) Suggest(ctx context.Context, partial string) error {
	var res *api.Suggestions
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Search.Suggestions(ctx, partial)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get suggestions: %w", err)
	}
	if s.env.Out.Format == output.FormatJSON {
		return s.env.Out.JSON(res.Suggestions)
	}
	for _, suggestion := range res.Suggestions {
		fmt.Fprintln(s.env.Out.Out, suggestion)
	}
	return nil
}
