package service

import (
	"context"
	"fmt"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/views"
)

// IntegrationService connects external services such as Google Drive
type IntegrationService struct {
	env *Env
}

// NewIntegrationService creates a new integration service
func NewIntegrationService(env *Env) *IntegrationService {
	return &IntegrationService{env: env}
}

func (s *IntegrationService) mount(ctx context.Context) (*controller.Scope, *controller.Integrations, error) {
	scope := controller.NewScope(ctx)
	page := controller.NewIntegrations(scope, s.env.API, s.env.options()...)
	if err := s.env.call(ctx, func(context.Context) error { return page.Load() }); err != nil {
		scope.Unmount()
		return nil, nil, fmt.Errorf("failed to load integrations: %w", err)
	}
	return scope, page, nil
}

// List shows connected integrations matching query
func (s *IntegrationService) List(ctx context.Context, query string) error {
	scope, page, err := s.mount(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	s.env.notifyDegraded(page.Connections().Data.Source, "Integrations")
	connected := page.Connected(query)
	return s.env.Out.PrintList("Connected", connected, formatter.Integrations(connected), "No integrations connected. See 'watchparty integrations available'.")
}

// Available shows catalog entries that are not connected yet
func (s *IntegrationService) Available(ctx context.Context, f views.IntegrationFilter) error {
	scope, page, err := s.mount(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	s.env.notifyDegraded(page.Types().Data.Source, "Integrations")
	available := page.Available(f)
	return s.env.Out.PrintList("Available", available, formatter.IntegrationTypes(available), "Everything is already connected.")
}

// Connect connects an integration type. OAuth types print the URL to open
// in a browser.
func (s *IntegrationService) Connect(ctx context.Context, integrationType string) error {
	if integrationType == "" {
		return clierrors.ValidationError("type", "is required")
	}
	scope, page, err := s.mount(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	var authURL string
	err = s.env.call(ctx, func(context.Context) error {
		var err error
		authURL, err = page.Connect(integrationType)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to connect %s: %w", integrationType, err)
	}

	if authURL != "" {
		s.env.Out.Info("Open this URL to authorize %s:", integrationType)
		fmt.Fprintln(s.env.Out.Out, authURL)
		return nil
	}
	s.env.Out.Success("Connected %s.", integrationType)
	return nil
}

// Authorize prints the OAuth URL for provider
func (s *IntegrationService) Authorize(ctx context.Context, provider string) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	page := controller.NewIntegrations(scope, s.env.API, s.env.options()...)

	var authURL string
	err := s.env.call(ctx, func(context.Context) error {
		var err error
		authURL, err = page.AuthorizeURL(provider)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get authorization URL: %w", err)
	}
	fmt.Fprintln(s.env.Out.Out, authURL)
	return nil
}

// Callback completes the Google Drive OAuth flow with the code and state
// the browser was redirected with
func (s *IntegrationService) Callback(ctx context.Context, code, state string) error {
	if code == "" {
		return clierrors.ValidationError("code", "is required")
	}
	var conn *api.Integration
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		conn, err = s.env.API.Integrations.GoogleDriveCallback(ctx, code, state)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to complete authorization: %w", err)
	}
	s.env.Out.Success("Connected %s.", conn.Name)
	return nil
}

// Disconnect removes a connection after confirmation
func (s *IntegrationService) Disconnect(ctx context.Context, connectionID string, force bool) error {
	ok, err := s.env.confirm(force, "Disconnect integration %s?", connectionID)
	if err != nil || !ok {
		return err
	}
	scope, page, err := s.mount(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	if err := s.env.call(ctx, func(context.Context) error { return page.Disconnect(connectionID) }); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	s.env.Out.Success("Disconnected.")
	return nil
}

// Test checks that a connection still works
func (s *IntegrationService) Test(ctx context.Context, connectionID string) error {
	scope, page, err := s.mount(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	var result *api.ConnectionTest
	err = s.env.call(ctx, func(context.Context) error {
		var err error
		result, err = page.Test(connectionID)
		return err
	})
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	if !result.Success {
		return clierrors.NewCLIError(clierrors.ErrorTypeServer, "connection test failed: "+result.Message, nil)
	}
	if result.Latency > 0 {
		s.env.Out.Success("Connection OK (%.0f ms)", result.Latency)
	} else {
		s.env.Out.Success("Connection OK")
	}
	return nil
}
