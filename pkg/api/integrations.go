package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/logger"
)

// ErrNoResults is returned when a list response carried no results field
var ErrNoResults = errors.New("response has no results")

// IntegrationsAPI covers third-party account connections
type IntegrationsAPI struct {
	c      *client.Client
	policy degraded.Policy
}

// Connections lists the user's integrations
func (i *IntegrationsAPI) Connections(ctx context.Context) (*Page[Integration], error) {
	logger.Debug("Fetching integrations")
	return get[Page[Integration]](ctx, i.c, "/api/integrations/connections/", nil)
}

// Types lists the integration catalog
func (i *IntegrationsAPI) Types(ctx context.Context) (*Page[IntegrationType], error) {
	logger.Debug("Fetching integration types")
	return get[Page[IntegrationType]](ctx, i.c, "/api/integrations/types/", nil)
}

// ConnectionsWithFallback lists integrations, serving cached or sample
// data when the request fails or the response has no results
func (i *IntegrationsAPI) ConnectionsWithFallback(ctx context.Context) (degraded.Result[[]Integration], error) {
	return degraded.Fetch(ctx, i.policy, "integrations:connections", SampleIntegrations, func(ctx context.Context) ([]Integration, error) {
		page, err := i.Connections(ctx)
		if err != nil {
			return nil, err
		}
		if !page.HasResults() {
			return nil, ErrNoResults
		}
		return page.Results, nil
	})
}

// TypesWithFallback lists the catalog, serving cached or sample data when
// the request fails or the response has no results
func (i *IntegrationsAPI) TypesWithFallback(ctx context.Context) (degraded.Result[[]IntegrationType], error) {
	return degraded.Fetch(ctx, i.policy, "integrations:types", SampleIntegrationTypes, func(ctx context.Context) ([]IntegrationType, error) {
		page, err := i.Types(ctx)
		if err != nil {
			return nil, err
		}
		if !page.HasResults() {
			return nil, ErrNoResults
		}
		return page.Results, nil
	})
}

// Connect starts the generic connection flow for an integration type
func (i *IntegrationsAPI) Connect(ctx context.Context, integrationType string) (*Integration, error) {
	logger.Debug("Connecting integration", "type", integrationType)
	return send[Integration](ctx, i.c, http.MethodPost,
		fmt.Sprintf("/api/integrations/%s/connect/", url.PathEscape(integrationType)), nil)
}

// Disconnect removes a connection
func (i *IntegrationsAPI) Disconnect(ctx context.Context, connectionID string) (*Message, error) {
	logger.Debug("Disconnecting integration", "connection_id", connectionID)
	return send[Message](ctx, i.c, http.MethodPost,
		fmt.Sprintf("/api/integrations/connections/%s/disconnect/", url.PathEscape(connectionID)), nil)
}

// Test checks that a connection still works
func (i *IntegrationsAPI) Test(ctx context.Context, connectionID string) (*ConnectionTest, error) {
	logger.Debug("Testing integration", "connection_id", connectionID)
	return send[ConnectionTest](ctx, i.c, http.MethodPost, "/api/integrations/test/", map[string]string{"connection_id": connectionID})
}

// GoogleDriveAuthURL returns the OAuth consent URL for Google Drive
func (i *IntegrationsAPI) GoogleDriveAuthURL(ctx context.Context) (*AuthURL, error) {
	logger.Debug("Fetching Google Drive auth url")
	return get[AuthURL](ctx, i.c, "/api/integrations/google-drive/auth-url/", nil)
}

// OAuthURL returns the OAuth consent URL for a provider
func (i *IntegrationsAPI) OAuthURL(ctx context.Context, provider string) (*AuthURL, error) {
	logger.Debug("Fetching oauth url", "provider", provider)
	return get[AuthURL](ctx, i.c, fmt.Sprintf("/api/integrations/oauth/%s/auth-url/", url.PathEscape(provider)), nil)
}

// GoogleDriveCallback completes the Google Drive OAuth flow
func (i *IntegrationsAPI) GoogleDriveCallback(ctx context.Context, code, state string) (*Integration, error) {
	logger.Debug("Completing Google Drive oauth")
	return send[Integration](ctx, i.c, http.MethodPost, "/api/integrations/google-drive/oauth-callback/", map[string]string{
		"code":  code,
		"state": state,
	})
}
