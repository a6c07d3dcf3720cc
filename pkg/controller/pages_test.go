package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/state"
)

func TestSocialTabs(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/api/social/groups/", http.StatusOK, `{"results":[{"id":"g1","name":"Horror fans","member_count":12,"is_public":true}]}`)
	f.handle(http.MethodGet, "/api/users/friends/", http.StatusOK, `[{"id":"u1","username":"bob"}]`)
	s := NewSocial(newTestScope(t), f.api())

	require.NoError(t, s.Mount())
	require.Len(t, s.Groups().Data, 1)
	assert.Equal(t, state.Idle, s.Friends().Status)

	require.NoError(t, s.SetTab(TabFriends))
	require.Len(t, s.Friends().Data, 1)
	assert.Equal(t, "bob", s.Friends().Data[0].Username)

	require.NoError(t, s.SetTab(TabDiscover))
	assert.Equal(t, 2, f.count(http.MethodGet, "/api/social/groups/"))

	assert.Error(t, s.SetTab("feed"))
	assert.Equal(t, TabDiscover, s.Tab())
}

func TestSocialMutationsRefetch(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/api/social/groups/", http.StatusOK, `[]`)
	f.handle(http.MethodPost, "/api/social/groups/g1/join/", http.StatusOK, `{"message":"joined"}`)
	f.handle(http.MethodPost, "/api/social/groups/g1/leave/", http.StatusOK, `{"message":"left"}`)
	f.handle(http.MethodPost, "/api/users/friends/request/", http.StatusCreated, `{"message":"sent"}`)
	s := NewSocial(newTestScope(t), f.api())

	require.NoError(t, s.JoinGroup("g1"))
	require.NoError(t, s.LeaveGroup("g1"))
	require.NoError(t, s.SendFriendRequest("u7"))

	assert.Equal(t, 3, f.count(http.MethodGet, "/api/social/groups/"))
	assert.JSONEq(t, `{"user_id":"u7"}`, f.lastRequest(http.MethodPost, "/api/users/friends/request/").Body)
}

func TestSocialLoadError(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/api/social/groups/", http.StatusInternalServerError, `{"message":"Failed to load social data"}`)
	s := NewSocial(newTestScope(t), f.api())

	require.Error(t, s.Mount())
	snap := s.Groups()
	assert.Equal(t, state.Error, snap.Status)
	assert.EqualError(t, snap.Err, "Failed to load social data")
}

func TestSupportLoadAndCreateTicket(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/v2/support/tickets/", http.StatusOK, `{"results":[{"id":"t1","subject":"Video stutters","status":"open"}]}`)
	f.handle(http.MethodGet, "/v2/support/faq/", http.StatusOK, `[{"id":"f1","question":"How?","answer":"Like this"}]`)
	f.handle(http.MethodPost, "/v2/support/tickets/", http.StatusCreated, `{"id":"t2","subject":"Sync","status":"open"}`)
	s := NewSupport(newTestScope(t), f.api())

	require.NoError(t, s.Mount())
	data := s.Data().Data
	require.Len(t, data.Tickets, 1)
	require.Len(t, data.FAQs, 1)

	ticket, err := s.CreateTicket(api.CreateTicketRequest{Subject: "Sync", Description: "Audio drifts", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, api.ID("t2"), ticket.ID)
	assert.Equal(t, 2, f.count(http.MethodGet, "/v2/support/tickets/"))
}

func TestSupportValidation(t *testing.T) {
	f := newFakeBackend(t)
	s := NewSupport(newTestScope(t), f.api())

	_, err := s.CreateTicket(api.CreateTicketRequest{Description: "no subject"})
	assert.Error(t, err)
	_, err = s.CreateTicket(api.CreateTicketRequest{Subject: "no description"})
	assert.Error(t, err)
	assert.Error(t, s.AddMessage("t1", " "))
	assert.Zero(t, f.totalHits())
}

func TestSupportVoteFAQRefetches(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/v2/support/tickets/", http.StatusOK, `[]`)
	f.handle(http.MethodGet, "/v2/support/faq/", http.StatusOK, `[]`)
	f.handle(http.MethodPost, "/v2/support/faq/f1/vote/", http.StatusOK, `{"message":"thanks"}`)
	s := NewSupport(newTestScope(t), f.api())

	require.NoError(t, s.VoteFAQ("f1", true))
	assert.Equal(t, 1, f.count(http.MethodGet, "/v2/support/faq/"))
}

func TestPublicPartyLoad(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"detail":"Not found."}`, ErrPartyNotFound},
		{"private", http.StatusOK, `{"id":"p1","title":"Secret","settings":{"is_public":false,"allow_guest_chat":true}}`, ErrPartyPrivate},
		{"no settings", http.StatusOK, `{"id":"p1","title":"Bare"}`, ErrPartyPrivate},
		{"guests allowed", http.StatusOK, `{"id":"p1","title":"Open","settings":{"is_public":true,"allow_guest_chat":true}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeBackend(t)
			f.handle(http.MethodGet, "/v2/parties/public/ABC123/", tt.status, tt.body)
			p := NewPublicParty(newTestScope(t), f.api(), "ABC123")

			err := p.Mount()
			snap := p.Party()
			assert.False(t, snap.IsLoading())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, state.Error, snap.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Open", snap.Data.Title)
		})
	}
}

func TestPublicPartyJoin(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/v2/parties/public/ABC123/", http.StatusOK, `{"id":"p1","title":"Open","settings":{"is_public":true,"allow_guest_chat":true}}`)
	p := NewPublicParty(newTestScope(t), f.api(), "ABC123")

	assert.ErrorIs(t, p.Join("Sam"), ErrPartyNotFound, "party not loaded yet")
	require.NoError(t, p.Mount())

	assert.ErrorIs(t, p.Join("  "), ErrGuestNameEmpty)
	assert.ErrorIs(t, p.Join("S"), ErrGuestNameShort)
	require.NoError(t, p.Join(" Sam "))
	assert.Equal(t, "Sam", p.Guest())
}
