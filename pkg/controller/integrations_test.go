package controller

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/state"
	"github.com/watchparty/cli/pkg/views"
)

const (
	connectionsPath = "/api/integrations/connections/"
	typesPath       = "/api/integrations/types/"
)

func TestIntegrationsFallBackToSampleData(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, connectionsPath, http.StatusInternalServerError, `{"error":"boom"}`)
	f.handle(http.MethodGet, typesPath, http.StatusInternalServerError, ``)
	i := NewIntegrations(newTestScope(t), f.api())

	require.NoError(t, i.Mount())

	conns := i.Connections()
	assert.Equal(t, state.Success, conns.Status)
	assert.Equal(t, api.SampleIntegrations(), conns.Data.Value)
	assert.Equal(t, degraded.Sample, conns.Data.Source)
	assert.True(t, conns.Data.Degraded())

	types := i.Types()
	assert.Equal(t, api.SampleIntegrationTypes(), types.Data.Value)
	assert.False(t, i.Loading())
}

func TestIntegrationsFallBackOnMissingResults(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, connectionsPath, http.StatusOK, `{}`)
	f.handle(http.MethodGet, typesPath, http.StatusOK, `{"results":[{"id":"x","name":"X","description":"d","icon":"i","features":[],"category":"social"}]}`)
	i := NewIntegrations(newTestScope(t), f.api())

	require.NoError(t, i.Mount())

	assert.Equal(t, api.SampleIntegrations(), i.Connections().Data.Value)
	types := i.Types().Data
	assert.Equal(t, degraded.Live, types.Source)
	require.Len(t, types.Value, 1)
	assert.Equal(t, "x", types.Value[0].ID)
}

func TestIntegrationsServesCacheAfterLiveLoad(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, connectionsPath, http.StatusOK, `{"results":[{"id":9,"type":"discord","name":"Discord","status":"connected"}]}`)
	f.handle(http.MethodGet, typesPath, http.StatusOK, `[]`)
	i := NewIntegrations(newTestScope(t), f.api())
	require.NoError(t, i.Mount())

	f.handle(http.MethodGet, connectionsPath, http.StatusServiceUnavailable, ``)
	require.NoError(t, i.Load())

	conns := i.Connections().Data
	assert.Equal(t, degraded.Cached, conns.Source)
	require.Len(t, conns.Value, 1)
	assert.Equal(t, api.ID("9"), conns.Value[0].ID)
}

func TestIntegrationsConnectGoogleDriveAddsState(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/api/integrations/google-drive/auth-url/", http.StatusOK,
		`{"auth_url":"https://accounts.example.com/o/oauth2/auth?client_id=abc"}`)
	i := NewIntegrations(newTestScope(t), f.api())

	raw, err := i.Connect(GoogleDrive)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "abc", u.Query().Get("client_id"))
	assert.NotEmpty(t, u.Query().Get("state"))
	assert.Zero(t, f.count(http.MethodGet, connectionsPath), "oauth flow does not reload")
}

func TestWithState(t *testing.T) {
	got, err := withState(&api.AuthURL{AuthURL: "https://x.example/auth?state=keep"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/auth?state=keep", got)

	got, err = withState(&api.AuthURL{AuthURL: "https://x.example/auth", State: "srv"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/auth?state=srv", got)

	_, err = withState(&api.AuthURL{AuthURL: "://bad"})
	assert.Error(t, err)
}

func TestIntegrationsAuthorizeURL(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/api/integrations/oauth/discord/auth-url/", http.StatusOK,
		`{"auth_url":"https://discord.example/oauth2/authorize","state":"s1"}`)
	i := NewIntegrations(newTestScope(t), f.api())

	got, err := i.AuthorizeURL("discord")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.example/oauth2/authorize?state=s1", got)
}

func TestIntegrationsMutationsRefetch(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, connectionsPath, http.StatusOK, `[]`)
	f.handle(http.MethodGet, typesPath, http.StatusOK, `[]`)
	f.handle(http.MethodPost, "/api/integrations/notion/connect/", http.StatusOK, `{"id":"n1","type":"notion","name":"Notion","status":"connected"}`)
	f.handle(http.MethodPost, "/api/integrations/connections/n1/disconnect/", http.StatusOK, `{"message":"ok"}`)
	f.handle(http.MethodPost, "/api/integrations/test/", http.StatusOK, `{"success":true,"latency_ms":12}`)
	i := NewIntegrations(newTestScope(t), f.api())

	authURL, err := i.Connect("notion")
	require.NoError(t, err)
	assert.Empty(t, authURL)
	assert.Equal(t, 1, f.count(http.MethodGet, connectionsPath))

	require.NoError(t, i.Disconnect("n1"))
	assert.Equal(t, 2, f.count(http.MethodGet, connectionsPath))

	result, err := i.Test("n1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.JSONEq(t, `{"connection_id":"n1"}`, f.lastRequest(http.MethodPost, "/api/integrations/test/").Body)
	assert.Equal(t, 3, f.count(http.MethodGet, connectionsPath))
}

func TestIntegrationsMutationErrorReturned(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodPost, "/api/integrations/connections/n1/disconnect/", http.StatusForbidden, `{"detail":"not yours"}`)
	i := NewIntegrations(newTestScope(t), f.api())

	require.EqualError(t, i.Disconnect("n1"), "not yours")
	assert.Zero(t, f.count(http.MethodGet, connectionsPath))
}

func TestIntegrationsFilteredViews(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, connectionsPath, http.StatusInternalServerError, ``)
	f.handle(http.MethodGet, typesPath, http.StatusInternalServerError, ``)
	i := NewIntegrations(newTestScope(t), f.api())
	require.NoError(t, i.Mount())

	available := i.Available(views.IntegrationFilter{Category: "social"})
	require.Len(t, available, 1)
	assert.Equal(t, "discord", available[0].ID)

	assert.Len(t, i.Connected(""), 2)
	assert.Len(t, i.Connected("drive"), 1)
}
