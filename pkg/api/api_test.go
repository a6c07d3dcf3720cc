package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/credentials"
	"github.com/watchparty/cli/pkg/degraded"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

func newTestAPI(t *testing.T, status int, body string) (*API, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(data),
			Auth:   r.Header.Get("Authorization"),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c := client.New(client.Options{
		BackendURL:  srv.URL,
		FrontendURL: srv.URL + "/api",
		Timeout:     5 * time.Second,
		Credentials: credentials.Static("tok"),
	})
	return New(c, degraded.Policy{Cache: degraded.NewMemory()}), &calls
}

func TestPageDecoding(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantIDs     []ID
		wantCount   int
		wantResults bool
	}{
		{"envelope", `{"results":[{"id":"a"},{"id":"b"}],"count":12,"next":"http://x/?page=2"}`, []ID{"a", "b"}, 12, true},
		{"empty object", `{}`, []ID{}, 0, false},
		{"null results", `{"results":null,"count":3}`, []ID{}, 3, false},
		{"bare array", `[{"id":"a"},{"id":7}]`, []ID{"a", "7"}, 2, true},
		{"empty array", `[]`, []ID{}, 0, true},
		{"count defaults to len", `{"results":[{"id":"a"}]}`, []ID{"a"}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page Page[Party]
			require.NoError(t, client.Decode([]byte(tt.body), &page))

			require.NotNil(t, page.Results)
			ids := make([]ID, 0, len(page.Results))
			for _, p := range page.Results {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantCount, page.Count)
			assert.Equal(t, tt.wantResults, page.HasResults())
		})
	}
}

func TestPageNextPrevious(t *testing.T) {
	var page Page[Party]
	require.NoError(t, client.Decode([]byte(`{"results":[],"next":"n","previous":null}`), &page))
	assert.True(t, page.HasNext())
	assert.Equal(t, "", page.Previous)
}

func TestPageValidatesItems(t *testing.T) {
	var page Page[Party]
	err := client.Decode([]byte(`{"results":[{"id":"a","status":"exploded"}]}`), &page)
	assert.Error(t, err)
}

func TestIDAcceptsNumbers(t *testing.T) {
	var u User
	require.NoError(t, client.Decode([]byte(`{"id":42,"username":"alice"}`), &u))
	assert.Equal(t, ID("42"), u.ID)

	assert.Error(t, client.Decode([]byte(`{"id":true}`), &u))
}

func TestPartiesControlSendsZeroPosition(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusOK, `{"is_playing":false,"current_time":0}`)
	start := 0.0

	_, err := a.Parties.Control(t.Context(), "p1", VideoControl{Action: "seek", Timestamp: &start})
	require.NoError(t, err)
	_, err = a.Parties.Control(t.Context(), "p1", VideoControl{Action: "pause"})
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/v2/parties/p1/control/", (*calls)[0].Path)
	assert.JSONEq(t, `{"action":"seek","timestamp":0}`, (*calls)[0].Body)
	assert.JSONEq(t, `{"action":"pause"}`, (*calls)[1].Body)
}

// Request bodies are checked by the services that build them; only decoded
// responses go through client.Validate.
func TestRequestTypesCarryNoValidateTags(t *testing.T) {
	for _, v := range []interface{}{
		VideoControl{}, ExportRequest{}, CreatePartyRequest{}, CreateVideoRequest{},
		RegisterRequest{}, ProfileUpdate{}, CreatePollRequest{}, CreateTicketRequest{},
		CreateEventRequest{}, CreateGroupRequest{},
	} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			_, ok := typ.Field(i).Tag.Lookup("validate")
			assert.False(t, ok, "%s.%s", typ.Name(), typ.Field(i).Name)
		}
	}
}

func TestPartiesListQuery(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusOK, `{"results":[],"count":0}`)

	_, err := a.Parties.List(context.Background(), PartyListOptions{
		ListOptions: ListOptions{Page: 1},
		Status:      PartyLive,
	})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/v2/parties/", call.Path)
	assert.Equal(t, "page=1&status=live", call.Query)
	assert.Equal(t, "Bearer tok", call.Auth)
}

func TestPartiesCreateUsesFrontend(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusCreated, `{"id":"p1","title":"Movie night","visibility":"public"}`)

	party, err := a.Parties.Create(context.Background(), CreatePartyRequest{
		Title:      "Movie night",
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	assert.Equal(t, ID("p1"), party.ID)
	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPost, (*calls)[0].Method)
	assert.Equal(t, "/api/parties", (*calls)[0].Path)
	assert.JSONEq(t, `{"title":"Movie night","visibility":"public"}`, (*calls)[0].Body)
}

func TestPartyNotFound(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusNotFound, `{"success":false,"error":"not_found","message":"Party not found"}`)

	_, err := a.Parties.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, "Party not found", err.Error())
	assert.True(t, client.IsNotFound(err))
}

func TestLoginIsUnversioned(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusOK, `{"access":"a1","refresh":"r1","user":{"id":1,"username":"alice"}}`)

	resp, err := a.Auth.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	access, refresh := resp.Tokens()
	assert.Equal(t, "a1", access)
	assert.Equal(t, "r1", refresh)
	assert.Equal(t, "/auth/login/", (*calls)[0].Path)
	assert.JSONEq(t, `{"email":"alice@example.com","password":"secret"}`, (*calls)[0].Body)
}

func TestRegisterFillsConfirmation(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusCreated, `{"success":true}`)

	_, err := a.Auth.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "/auth/register/", (*calls)[0].Path)
	assert.JSONEq(t, `{"email":"a@b.c","password":"pw","confirm_password":"pw"}`, (*calls)[0].Body)
}

func TestInvalidResponseIsRejected(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusOK, `{"id":"v1","title":"clip","upload_status":"teleporting"}`)

	_, err := a.Videos.Get(context.Background(), "v1")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.CodeInvalidResponse, apiErr.Code)
}

func TestNotificationsUnreadFilter(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusOK, `[]`)

	_, err := a.Notifications.List(context.Background(), NotificationListOptions{UnreadOnly: true})
	require.NoError(t, err)
	_, err = a.Notifications.List(context.Background(), NotificationListOptions{})
	require.NoError(t, err)

	assert.Equal(t, "is_read=false", (*calls)[0].Query)
	assert.Equal(t, "", (*calls)[1].Query)
}

func TestUnreadCount(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusOK, `{"count":4}`)

	n, err := a.Notifications.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestIntegrationsFallbackOnError(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusInternalServerError, `<html>oops</html>`)

	res, err := a.Integrations.ConnectionsWithFallback(context.Background())

	require.NoError(t, err)
	assert.Equal(t, degraded.Sample, res.Source)
	assert.Equal(t, SampleIntegrations(), res.Value)
	assert.Equal(t, "HTTP 500: Internal Server Error", res.Err.Error())
}

func TestIntegrationsFallbackOnMissingResults(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusOK, `{}`)

	res, err := a.Integrations.TypesWithFallback(context.Background())

	require.NoError(t, err)
	assert.Equal(t, degraded.Sample, res.Source)
	assert.Len(t, res.Value, 6)
	assert.ErrorIs(t, res.Err, ErrNoResults)
}

func TestIntegrationsLive(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusOK, `{"results":[{"id":"9","type":"discord","name":"Discord","status":"pending"}]}`)

	res, err := a.Integrations.ConnectionsWithFallback(context.Background())

	require.NoError(t, err)
	assert.Equal(t, degraded.Live, res.Source)
	require.Len(t, res.Value, 1)
	assert.Equal(t, IntegrationPending, res.Value[0].Status)
}

func TestIntegrationsFallbackDisabled(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusBadGateway, ``)
	a.Integrations.policy = degraded.Policy{Disabled: true}

	_, err := a.Integrations.ConnectionsWithFallback(context.Background())

	assert.EqualError(t, err, "HTTP 502: Bad Gateway")
}

func TestSampleIntegrations(t *testing.T) {
	samples := SampleIntegrations()
	require.Len(t, samples, 2)

	assert.Equal(t, "google-drive", samples[0].Type)
	assert.Equal(t, "user@gmail.com", samples[0].AccountInfo.Email)
	assert.Equal(t, "2025-09-15T10:00:00Z", samples[0].ConnectedAt)
	assert.Equal(t, "musiclover123", samples[1].AccountInfo.Username)
	assert.Equal(t, []string{"Music Sync", "Playlist Sharing"}, samples[1].Features)

	samples[0].Name = "changed"
	assert.Equal(t, "Google Drive", SampleIntegrations()[0].Name)

	for _, s := range append(SampleIntegrations(), Integration{}) {
		assert.NoError(t, client.Validate(s))
	}
	assert.NoError(t, client.Validate(SampleIntegrationTypes()))
}

func TestStatsAccessors(t *testing.T) {
	var s Stats
	require.NoError(t, client.Decode([]byte(`{"total_parties":3,"watch_time":"90","rate":0.5}`), &s))

	assert.Equal(t, 3, s.Int("total_parties"))
	assert.Equal(t, 90, s.Int("watch_time"))
	assert.Equal(t, 0.5, s.Float("rate"))
	assert.Equal(t, 0, s.Int("missing"))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FullName: "Ada Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada", Username: "ada"}).DisplayName())
	assert.Equal(t, "ada", (&User{Username: "ada"}).DisplayName())

	var nilUser *User
	assert.Equal(t, "", nilUser.DisplayName())
}

func TestModulePaths(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(a *API) error
		want string
	}{
		{"profile", func(a *API) error { _, err := a.Auth.Profile(ctx); return err }, "GET /v2/auth/profile/"},
		{"join", func(a *API) error { _, err := a.Parties.Join(ctx, "p1"); return err }, "POST /v2/parties/p1/join/"},
		{"public by code", func(a *API) error { _, err := a.Parties.PublicByCode(ctx, "ABC"); return err }, "GET /v2/parties/public/ABC/"},
		{"chat send", func(a *API) error { _, err := a.Chat.Send(ctx, "p1", "hi"); return err }, "POST /v2/chat/p1/messages/send/"},
		{"user stats", func(a *API) error { _, err := a.Analytics.UserStats(ctx); return err }, "GET /v2/analytics/user-stats/"},
		{"realtime", func(a *API) error { _, err := a.Analytics.RealTime(ctx); return err }, "GET /v2/analytics/real-time/"},
		{"dashboard", func(a *API) error { _, err := a.Dashboard.Stats(ctx); return err }, "GET /v2/analytics/dashboard/"},
		{"disconnect", func(a *API) error { _, err := a.Integrations.Disconnect(ctx, "c1"); return err }, "POST /api/integrations/connections/c1/disconnect/"},
		{"test connection", func(a *API) error { _, err := a.Integrations.Test(ctx, "c1"); return err }, "POST /api/integrations/test/"},
		{"join group", func(a *API) error { _, err := a.Social.JoinGroup(ctx, "g1"); return err }, "POST /api/social/groups/g1/join/"},
		{"friends", func(a *API) error { _, err := a.Social.Friends(ctx); return err }, "GET /api/users/friends/"},
		{"tickets", func(a *API) error { _, err := a.Support.Tickets(ctx, TicketListOptions{}); return err }, "GET /v2/support/tickets/"},
		{"vote faq", func(a *API) error { _, err := a.Support.VoteFAQ(ctx, "f1", true); return err }, "POST /v2/support/faq/f1/vote/"},
		{"mark read", func(a *API) error { _, err := a.Notifications.MarkRead(ctx, "n1"); return err }, "POST /v2/notifications/n1/mark-read/"},
		{"events", func(a *API) error { _, err := a.Events.List(ctx, EventListOptions{}); return err }, "GET /api/events/"},
		{"conversations", func(a *API) error { _, err := a.Messaging.Conversations(ctx, ListOptions{}); return err }, "GET /api/messaging/conversations/"},
		{"plans", func(a *API) error { _, err := a.Billing.Plans(ctx); return err }, "GET /v2/billing/plans/"},
		{"store", func(a *API) error { _, err := a.Store.Items(ctx, "", ListOptions{}); return err }, "GET /v2/store/items/"},
		{"polls", func(a *API) error { _, err := a.Interactive.Polls(ctx, "p1"); return err }, "GET /v2/interactive/parties/p1/polls/"},
		{"search", func(a *API) error { _, err := a.Search.Search(ctx, "x", SearchOptions{}); return err }, "GET /v2/search/"},
		{"admin health", func(a *API) error { _, err := a.Admin.ServerHealth(ctx); return err }, "GET /v2/admin/health/"},
		{"user", func(a *API) error { _, err := a.Users.Get(ctx, "u1"); return err }, "GET /v2/users/u1/"},
		{"video", func(a *API) error { _, err := a.Videos.Get(ctx, "v1"); return err }, "GET /v2/videos/v1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, calls := newTestAPI(t, http.StatusOK, `{}`)
			require.NoError(t, tt.call(a))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0].Method+" "+(*calls)[0].Path)
		})
	}
}

func TestAggregateVerbShortcuts(t *testing.T) {
	a, calls := newTestAPI(t, http.StatusOK, `{"ok":true}`)

	var out map[string]interface{}
	require.NoError(t, a.Get(context.Background(), "/v2/anything/", client.Params{"x": nil, "y": 2}, &out))

	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "y=2", (*calls)[0].Query)
}
