package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/state"
	"github.com/watchparty/cli/pkg/views"
)

// Party list filters
const (
	FilterAll      = "all"
	FilterPublic   = "public"
	FilterRecent   = "recent"
	FilterTrending = "trending"
)

// PartiesPageSize is the page size of the unfiltered party list
const PartiesPageSize = 20

// NoTrendingMessage is shown when the trending list comes back empty
const NoTrendingMessage = "No trending parties right now. Check back soon!"

// Parties browses, searches and joins parties
type Parties struct {
	scope *Scope
	api   *api.API
	opts  options

	list state.Resource[[]api.Party]

	mu     sync.Mutex
	filter string
	query  string
}

// NewParties binds a party browser to scope with the "all" filter
func NewParties(scope *Scope, a *api.API, opts ...Option) *Parties {
	return &Parties{scope: scope, api: a, opts: newOptions(opts), filter: FilterAll}
}

// Mount loads the first list
func (p *Parties) Mount() error {
	return p.Load()
}

// SetFilter switches the filter and reloads
func (p *Parties) SetFilter(filter string) error {
	switch filter {
	case FilterAll, FilterPublic, FilterRecent, FilterTrending:
	default:
		return clierrors.ValidationError("filter", "must be one of all, public, recent, trending")
	}
	p.mu.Lock()
	p.filter = filter
	p.mu.Unlock()
	return p.Load()
}

// SetSearch sets the search text and reloads. A non-blank query takes
// precedence over the filter.
func (p *Parties) SetSearch(query string) error {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()
	return p.Load()
}

// Load fetches the list for the current search or filter
func (p *Parties) Load() error {
	p.mu.Lock()
	filter, query := p.filter, strings.TrimSpace(p.query)
	p.mu.Unlock()

	return track(p.scope.Context(), &p.list, func(ctx context.Context) ([]api.Party, error) {
		var (
			page *api.Page[api.Party]
			err  error
		)
		switch {
		case query != "":
			page, err = p.api.Parties.Search(ctx, query, api.ListOptions{})
		case filter == FilterPublic:
			page, err = p.api.Parties.Public(ctx, api.ListOptions{})
		case filter == FilterRecent:
			page, err = p.api.Parties.Recent(ctx, api.ListOptions{})
		case filter == FilterTrending:
			page, err = p.api.Parties.Trending(ctx, 0)
		default:
			page, err = p.api.Parties.List(ctx, api.PartyListOptions{
				ListOptions: api.ListOptions{PageSize: PartiesPageSize},
			})
		}
		if err != nil {
			logger.Error("Failed to load parties", "filter", filter, "query", query, "error", err)
			return nil, err
		}
		return page.Results, nil
	})
}

// Join joins a party and reloads the list
func (p *Parties) Join(partyID string) (*api.JoinResponse, error) {
	ctx := p.scope.Context()
	if ctx.Err() != nil {
		return nil, ErrUnmounted
	}

	resp, err := p.api.Parties.Join(ctx, partyID)
	if err != nil {
		return nil, err
	}
	_ = p.Load()
	return resp, nil
}

// List returns the list state
func (p *Parties) List() state.Snapshot[[]api.Party] {
	return p.list.Snapshot()
}

// Filter returns the active filter
func (p *Parties) Filter() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Sorted returns the loaded list in the given sort mode
func (p *Parties) Sorted(mode string) []api.Party {
	parties, _ := p.list.Data()
	return views.SortParties(parties, mode)
}

// Badges counts the loaded list for the filter tabs
func (p *Parties) Badges() views.Badges {
	parties, _ := p.list.Data()
	return views.PartyBadges(parties, p.opts.now())
}

// Info returns a notice for a successful but empty trending list
func (p *Parties) Info() string {
	snap := p.list.Snapshot()
	p.mu.Lock()
	filter, query := p.filter, strings.TrimSpace(p.query)
	p.mu.Unlock()

	if snap.Status == state.Success && len(snap.Data) == 0 && filter == FilterTrending && query == "" {
		return NoTrendingMessage
	}
	return ""
}

// EmptyMessage describes an empty list
func (p *Parties) EmptyMessage() string {
	p.mu.Lock()
	query := strings.TrimSpace(p.query)
	p.mu.Unlock()

	if query != "" {
		return fmt.Sprintf("No parties match %q. Try a different search term.", query)
	}
	return "No parties available"
}
