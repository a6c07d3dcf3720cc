package controller

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/state"
	"github.com/watchparty/cli/pkg/views"
)

// GoogleDrive is the integration type connected through its own OAuth flow
const GoogleDrive = "google-drive"

// Integrations lists connected services and the catalog. Both lists fall
// back to cached or sample data when the service is unreachable.
type Integrations struct {
	scope *Scope
	api   *api.API
	opts  options

	connections state.Resource[degraded.Result[[]api.Integration]]
	types       state.Resource[degraded.Result[[]api.IntegrationType]]
}

// NewIntegrations binds the integrations page to scope
func NewIntegrations(scope *Scope, a *api.API, opts ...Option) *Integrations {
	return &Integrations{scope: scope, api: a, opts: newOptions(opts)}
}

// Mount loads both lists
func (i *Integrations) Mount() error {
	return i.Load()
}

// Load fetches connections and the catalog. Neither failure blocks the
// other.
func (i *Integrations) Load() error {
	ctx := i.scope.Context()
	if ctx.Err() != nil {
		return ErrUnmounted
	}

	var g errgroup.Group
	g.Go(func() error {
		return track(ctx, &i.connections, func(ctx context.Context) (degraded.Result[[]api.Integration], error) {
			return i.api.Integrations.ConnectionsWithFallback(ctx)
		})
	})
	g.Go(func() error {
		return track(ctx, &i.types, func(ctx context.Context) (degraded.Result[[]api.IntegrationType], error) {
			return i.api.Integrations.TypesWithFallback(ctx)
		})
	})
	return g.Wait()
}

// Connect starts connecting an integration type. Google Drive returns an
// authorization URL for the user to open; other types connect directly and
// the lists are reloaded.
func (i *Integrations) Connect(integrationType string) (string, error) {
	ctx := i.scope.Context()
	if ctx.Err() != nil {
		return "", ErrUnmounted
	}

	if integrationType == GoogleDrive {
		auth, err := i.api.Integrations.GoogleDriveAuthURL(ctx)
		if err != nil {
			return "", err
		}
		return withState(auth)
	}

	if _, err := i.api.Integrations.Connect(ctx, integrationType); err != nil {
		logger.Error("Failed to connect integration", "type", integrationType, "error", err)
		return "", err
	}
	_ = i.Load()
	return "", nil
}

// AuthorizeURL returns the OAuth authorization URL for provider
func (i *Integrations) AuthorizeURL(provider string) (string, error) {
	ctx := i.scope.Context()
	if ctx.Err() != nil {
		return "", ErrUnmounted
	}
	auth, err := i.api.Integrations.OAuthURL(ctx, provider)
	if err != nil {
		return "", err
	}
	return withState(auth)
}

// withState adds a state parameter to the authorization URL unless it has
// one. The server's state is preferred over a generated one.
func withState(auth *api.AuthURL) (string, error) {
	u, err := url.Parse(auth.AuthURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("state") != "" {
		return auth.AuthURL, nil
	}
	st := auth.State
	if st == "" {
		st = uuid.NewString()
	}
	q.Set("state", st)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Disconnect removes a connection and reloads
func (i *Integrations) Disconnect(connectionID string) error {
	ctx := i.scope.Context()
	if ctx.Err() != nil {
		return ErrUnmounted
	}
	if _, err := i.api.Integrations.Disconnect(ctx, connectionID); err != nil {
		logger.Error("Failed to disconnect integration", "connection_id", connectionID, "error", err)
		return err
	}
	_ = i.Load()
	return nil
}

// Test checks a connection and reloads
func (i *Integrations) Test(connectionID string) (*api.ConnectionTest, error) {
	ctx := i.scope.Context()
	if ctx.Err() != nil {
		return nil, ErrUnmounted
	}
	result, err := i.api.Integrations.Test(ctx, connectionID)
	if err != nil {
		logger.Error("Connection test failed", "connection_id", connectionID, "error", err)
		return nil, err
	}
	_ = i.Load()
	return result, nil
}

// Connections returns the connections state. Data.Source says whether the
// list is live, cached or sample data.
func (i *Integrations) Connections() state.Snapshot[degraded.Result[[]api.Integration]] {
	return i.connections.Snapshot()
}

// Types returns the catalog state
func (i *Integrations) Types() state.Snapshot[degraded.Result[[]api.IntegrationType]] {
	return i.types.Snapshot()
}

// Loading reports whether either list is in flight
func (i *Integrations) Loading() bool {
	return i.connections.Snapshot().IsLoading() || i.types.Snapshot().IsLoading()
}

// Available returns catalog entries matching f that are not yet connected
func (i *Integrations) Available(f views.IntegrationFilter) []api.IntegrationType {
	conns, _ := i.connections.Data()
	types, _ := i.types.Data()
	f.AvailableOnly = true
	return views.FilterIntegrationTypes(types.Value, conns.Value, f)
}

// Connected returns connected integrations matching query
func (i *Integrations) Connected(query string) []api.Integration {
	conns, _ := i.connections.Data()
	return views.ConnectedIntegrations(conns.Value, query)
}
