package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/state"
)

var (
	ErrPartyNotFound  = errors.New("party not found")
	ErrPartyPrivate   = errors.New("this party is private")
	ErrGuestNameEmpty = errors.New("please enter a name to join")
	ErrGuestNameShort = errors.New("name must be at least 2 characters")
)

// PublicParty is the guest view of a party reached by room code
type PublicParty struct {
	scope *Scope
	api   *api.API
	code  string

	party state.Resource[*api.Party]

	mu    sync.Mutex
	guest string
}

// NewPublicParty binds the guest view of code to scope
func NewPublicParty(scope *Scope, a *api.API, code string) *PublicParty {
	return &PublicParty{scope: scope, api: a, code: code}
}

// Mount loads the party
func (p *PublicParty) Mount() error {
	return p.Load()
}

// Load fetches the party. Parties that do not allow guests are reported as
// private.
func (p *PublicParty) Load() error {
	return track(p.scope.Context(), &p.party, func(ctx context.Context) (*api.Party, error) {
		party, err := p.api.Parties.PublicByCode(ctx, p.code)
		switch {
		case client.IsNotFound(err):
			return nil, ErrPartyNotFound
		case err != nil:
			return nil, err
		case !party.AllowsGuests():
			return nil, ErrPartyPrivate
		}
		return party, nil
	})
}

// Join records the guest's display name. The party must be loaded.
func (p *PublicParty) Join(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ErrGuestNameEmpty
	case len([]rune(name)) < 2:
		return ErrGuestNameShort
	}
	if _, ok := p.party.Data(); !ok {
		return ErrPartyNotFound
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.guest = name
	return nil
}

// Guest returns the joined guest name, empty before Join
func (p *PublicParty) Guest() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.guest
}

// Party returns the party state
func (p *PublicParty) Party() state.Snapshot[*api.Party] {
	return p.party.Snapshot()
}
