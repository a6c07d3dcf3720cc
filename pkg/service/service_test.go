package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/credentials"
	"github.com/watchparty/cli/pkg/degraded"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/prompter"
)

var fixedNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

type route struct {
	status int
	body   string
}

// backend serves canned responses keyed by "METHOD /path"
type backend struct {
	mu     sync.Mutex
	routes map[string]route
	hits   map[string]int
	bodies map[string]string
	srv    *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{
		routes: make(map[string]route),
		hits:   make(map[string]int),
		bodies: make(map[string]string),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.hits[key]++
		b.bodies[key] = string(body)
		rt, ok := b.routes[key]
		b.mu.Unlock()

		if !ok {
			rt = route{status: http.StatusNotFound, body: `{"detail":"Not found."}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) handle(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = route{status: status, body: body}
}

func (b *backend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

func (b *backend) body(method, path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[method+" "+path]
}

type memoryStore struct {
	creds *credentials.Credentials
}

func (m *memoryStore) Load() (*credentials.Credentials, error) { return m.creds, nil }

func (m *memoryStore) Save(c *credentials.Credentials) error {
	m.creds = c
	return nil
}

func (m *memoryStore) Clear() error {
	m.creds = nil
	return nil
}

type testEnv struct {
	*Env
	out   *bytes.Buffer
	store *memoryStore
}

// newTestEnv wires an Env to b. input is what the prompter reads.
func newTestEnv(t *testing.T, b *backend, format output.OutputFormat, input string) *testEnv {
	t.Helper()
	c := client.New(client.Options{
		BackendURL:  b.srv.URL,
		FrontendURL: b.srv.URL + "/api",
		Timeout:     5 * time.Second,
		Credentials: credentials.Static("tok"),
	})
	buf := &bytes.Buffer{}
	store := &memoryStore{}
	return &testEnv{
		Env: &Env{
			API:    api.New(c, degraded.Policy{Cache: degraded.NewMemory()}),
			Out:    output.New(buf, format),
			Prompt: prompter.New(strings.NewReader(input), io.Discard),
			Store:  store,
			Now:    func() time.Time { return fixedNow },
		},
		out:   buf,
		store: store,
	}
}

func TestAuthLoginSavesCredentials(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/auth/login/", http.StatusOK,
		`{"success":true,"access_token":"acc","refresh_token":"ref","user":{"id":7,"username":"ana","email":"ana@example.com","is_staff":true}}`)
	env := newTestEnv(t, b, output.FormatText, "")

	err := NewAuthService(env.Env).Login(t.Context(), "ana@example.com", "secret")
	require.NoError(t, err)

	require.NotNil(t, env.store.creds)
	assert.Equal(t, "acc", env.store.creds.AccessToken)
	assert.Equal(t, "ref", env.store.creds.RefreshToken)
	assert.Equal(t, "7", env.store.creds.UserID)
	assert.True(t, env.store.creds.IsStaff)
	assert.Contains(t, env.out.String(), "Logged in as ana")
	assert.Contains(t, b.body(http.MethodPost, "/auth/login/"), `"email":"ana@example.com"`)
}

func TestAuthLoginPromptsForMissingFields(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/auth/login/", http.StatusOK, `{"access":"acc","refresh":"ref"}`)
	env := newTestEnv(t, b, output.FormatText, "ana@example.com\nsecret\n")

	require.NoError(t, NewAuthService(env.Env).Login(t.Context(), "", ""))
	assert.Equal(t, "acc", env.store.creds.AccessToken)
	assert.Contains(t, b.body(http.MethodPost, "/auth/login/"), `"password":"secret"`)
}

func TestAuthLoginRejectedKeepsStore(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/auth/login/", http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
	env := newTestEnv(t, b, output.FormatText, "")

	err := NewAuthService(env.Env).Login(t.Context(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Nil(t, env.store.creds)
}

func TestAuthLogoutClearsCredentials(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/v2/auth/logout/", http.StatusOK, `{}`)
	env := newTestEnv(t, b, output.FormatText, "")
	env.store.creds = &credentials.Credentials{AccessToken: "acc", RefreshToken: "ref"}

	require.NoError(t, NewAuthService(env.Env).Logout(t.Context()))
	assert.Nil(t, env.store.creds)
	assert.Equal(t, 1, b.count(http.MethodPost, "/v2/auth/logout/"))
}

func TestAuthLogoutServerFailureStillClears(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/v2/auth/logout/", http.StatusInternalServerError, `{}`)
	env := newTestEnv(t, b, output.FormatText, "")
	env.store.creds = &credentials.Credentials{AccessToken: "acc", RefreshToken: "ref"}

	require.NoError(t, NewAuthService(env.Env).Logout(t.Context()))
	assert.Nil(t, env.store.creds)
}

const partiesBody = `{"count":2,"results":[
	{"id":"p1","title":"Movie Night","status":"live","visibility":"public","participant_count":4,"created_at":"2025-09-30T20:00:00Z"},
	{"id":"p2","title":"Anime Club","status":"scheduled","visibility":"friends","participant_count":1,"created_at":"2025-09-01T20:00:00Z"}
]}`

func TestPartyListText(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/parties/", http.StatusOK, partiesBody)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewPartyService(env.Env).List(t.Context(), PartyListParams{}))
	out := env.out.String()
	assert.Contains(t, out, "Parties (2)")
	assert.Contains(t, out, "Movie Night")
	assert.Contains(t, out, "Anime Club")
}

func TestPartyListJSON(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/parties/", http.StatusOK, partiesBody)
	env := newTestEnv(t, b, output.FormatJSON, "")

	require.NoError(t, NewPartyService(env.Env).List(t.Context(), PartyListParams{}))
	out := strings.TrimSpace(env.out.String())
	assert.True(t, strings.HasPrefix(out, "["), out)
	assert.Contains(t, out, `"Movie Night"`)
}

func TestPartyListSearchUsesSearchEndpoint(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/parties/search/", http.StatusOK, `{"results":[]}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewPartyService(env.Env).List(t.Context(), PartyListParams{Search: "zzz"}))
	assert.Equal(t, 1, b.count(http.MethodGet, "/v2/parties/search/"))
	assert.Contains(t, env.out.String(), `No parties match "zzz"`)
}

func TestPartyDeleteConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		force     bool
		wantCalls int
	}{
		{"declined", "n\n", false, 0},
		{"confirmed", "y\n", false, 1},
		{"forced", "", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			b.handle(http.MethodDelete, "/v2/parties/p1/", http.StatusNoContent, "")
			env := newTestEnv(t, b, output.FormatText, tt.input)

			require.NoError(t, NewPartyService(env.Env).Delete(t.Context(), "p1", tt.force))
			assert.Equal(t, tt.wantCalls, b.count(http.MethodDelete, "/v2/parties/p1/"))
			if tt.wantCalls == 0 {
				assert.Contains(t, env.out.String(), "Cancelled.")
			}
		})
	}
}

func TestPartyControlPosition(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		position float64
		want     string
	}{
		{"seek to start", "seek", 0, `{"action":"seek","timestamp":0}`},
		{"seek", "seek", 90.5, `{"action":"seek","timestamp":90.5}`},
		{"play without position", "play", -1, `{"action":"play"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			b.handle(http.MethodPost, "/v2/parties/p1/control/", http.StatusOK, `{"is_playing":true,"current_time":0}`)
			env := newTestEnv(t, b, output.FormatText, "")

			require.NoError(t, NewPartyService(env.Env).Control(t.Context(), "p1", tt.action, tt.position))
			assert.JSONEq(t, tt.want, b.body(http.MethodPost, "/v2/parties/p1/control/"))
		})
	}
}

func TestPartyControlRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t, newBackend(t), output.FormatText, "")
	err := NewPartyService(env.Env).Control(t.Context(), "p1", "rewind", 0)

	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)
}

func TestSearchValidation(t *testing.T) {
	env := newTestEnv(t, newBackend(t), output.FormatText, "")
	svc := NewSearchService(env.Env)

	assert.Error(t, svc.Search(t.Context(), "  ", ""))
	assert.Error(t, svc.Search(t.Context(), "matrix", "groups"))
}

func TestSearchPrintsSections(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/search/", http.StatusOK,
		`{"query":"night","parties":[{"id":"p1","title":"Movie Night"}],"videos":[],"users":[],"total_results":1}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewSearchService(env.Env).Search(t.Context(), "night", ""))
	assert.Contains(t, env.out.String(), "Movie Night")
}

func TestSearchNoResults(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/search/", http.StatusOK, `{"query":"x","parties":[],"videos":[],"users":[]}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewSearchService(env.Env).Search(t.Context(), "x", "all"))
	assert.Contains(t, env.out.String(), `No results for "x".`)
}

func TestNotificationMarkAllReadDeclined(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/v2/notifications/mark-all-read/", http.StatusOK, `{"message":"ok"}`)
	env := newTestEnv(t, b, output.FormatText, "n\n")

	require.NoError(t, NewNotificationService(env.Env).MarkAllRead(t.Context(), false))
	assert.Zero(t, b.count(http.MethodPost, "/v2/notifications/mark-all-read/"))
}

func TestNotificationUnreadCountJSON(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/notifications/unread-count/", http.StatusOK, `{"count":3}`)
	env := newTestEnv(t, b, output.FormatJSON, "")

	require.NoError(t, NewNotificationService(env.Env).UnreadCount(t.Context()))
	assert.Contains(t, env.out.String(), "3")
}

func TestIntegrationConnectGoogleDrivePrintsURL(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/api/integrations/connections/", http.StatusOK, `{"results":[]}`)
	b.handle(http.MethodGet, "/api/integrations/types/", http.StatusOK, `{"results":[]}`)
	b.handle(http.MethodGet, "/api/integrations/google-drive/auth-url/", http.StatusOK,
		`{"auth_url":"https://accounts.example.com/o/oauth2/auth?client_id=x&state=abc"}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewIntegrationService(env.Env).Connect(t.Context(), "google-drive"))
	assert.Contains(t, env.out.String(), "https://accounts.example.com/o/oauth2/auth?client_id=x&state=abc")
}

func TestIntegrationListDegradedNotice(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/api/integrations/connections/", http.StatusServiceUnavailable, `{}`)
	b.handle(http.MethodGet, "/api/integrations/types/", http.StatusServiceUnavailable, `{}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewIntegrationService(env.Env).List(t.Context(), ""))
	assert.Contains(t, env.out.String(), "showing sample data")
}

func TestAdminRequiresStaff(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/admin/system-stats/", http.StatusOK, `{}`)
	env := newTestEnv(t, b, output.FormatText, "")
	env.store.creds = &credentials.Credentials{AccessToken: "acc", UserID: "7", IsStaff: false}

	err := NewAdminService(env.Env).Stats(t.Context())
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeForbidden, cliErr.Type)
	assert.Zero(t, b.count(http.MethodGet, "/v2/admin/system-stats/"))
}

func TestChatCreatePollNeedsTwoOptions(t *testing.T) {
	env := newTestEnv(t, newBackend(t), output.FormatText, "")
	err := NewChatService(env.Env).CreatePoll(t.Context(), "p1", api.CreatePollRequest{Question: "Next?", Options: []string{"A"}})
	assert.Error(t, err)
}

func TestEventCreateValidatesTimes(t *testing.T) {
	env := newTestEnv(t, newBackend(t), output.FormatText, "")
	svc := NewEventService(env.Env)

	assert.Error(t, svc.Create(t.Context(), api.CreateEventRequest{Title: "x", StartTime: "tomorrow"}))
	assert.Error(t, svc.Create(t.Context(), api.CreateEventRequest{
		Title: "x", StartTime: "2025-10-02T20:00:00Z", EndTime: "2025-10-02T19:00:00Z",
	}))
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"90", 90, true},
		{"1:30", 90, true},
		{"1:00:05", 3605, true},
		{"-3", 0, false},
		{"a:b", 0, false},
	}
	for _, tt := range tests {
		got, err := parsePosition(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "s", pluralize(0))
	assert.Equal(t, "", pluralize(1))
	assert.Equal(t, "s", pluralize(2))
}

func TestConfirmForceSkipsPrompt(t *testing.T) {
	env := newTestEnv(t, newBackend(t), output.FormatText, "")
	ok, err := env.confirm(true, "Delete?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCallWithoutRecoveryRunsOnce(t *testing.T) {
	env := newTestEnv(t, newBackend(t), output.FormatText, "")
	calls := 0
	err := env.call(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAuthSessionFromProxy(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/api/auth/session", http.StatusOK,
		`{"authenticated":true,"user":{"id":7,"username":"ana","email":"ana@example.com"}}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewAuthService(env.Env).Session(t.Context()))
	assert.Contains(t, env.out.String(), "ana")
}

func TestAuthSessionAnonymous(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/api/auth/session", http.StatusOK, `{"authenticated":false}`)
	env := newTestEnv(t, b, output.FormatText, "")

	require.NoError(t, NewAuthService(env.Env).Session(t.Context()))
	assert.Contains(t, env.out.String(), "No proxy session")
}

func TestAnalyticsPartyStats(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/v2/analytics/party-stats/p1/", http.StatusOK, `{"total_viewers":12,"peak_viewers":9}`)
	env := newTestEnv(t, b, output.FormatJSON, "")

	require.NoError(t, NewAnalyticsService(env.Env).Party(t.Context(), "p1"))
	assert.Contains(t, env.out.String(), `"peak_viewers": 9`)
	assert.Equal(t, 1, b.count(http.MethodGet, "/v2/analytics/party-stats/p1/"))
}
