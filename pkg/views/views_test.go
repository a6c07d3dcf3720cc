package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/watchparty/cli/pkg/api"
)

var now = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func ids(parties []api.Party) []api.ID {
	out := make([]api.ID, 0, len(parties))
	for _, p := range parties {
		out = append(out, p.ID)
	}
	return out
}

func sampleParties() []api.Party {
	return []api.Party{
		{ID: "a", Title: "Zombie night", CreatedAt: "2025-09-30T10:00:00Z", ParticipantCount: 3, Visibility: api.VisibilityPublic, ScheduledStart: "2025-10-03T20:00:00Z"},
		{ID: "b", Title: "anime marathon", CreatedAt: "2025-10-01T09:00:00.123456Z", ParticipantCount: 25, Visibility: api.VisibilityFriends},
		{ID: "c", Title: "Movie club", CreatedAt: "2025-09-01", ParticipantCount: 11, Visibility: api.VisibilityPublic, ScheduledStart: "2025-10-02T20:00:00Z", Status: api.PartyLive},
	}
}

func TestSortParties(t *testing.T) {
	tests := []struct {
		mode string
		want []api.ID
	}{
		{SortRecent, []api.ID{"b", "a", "c"}},
		{SortPopular, []api.ID{"b", "c", "a"}},
		{SortScheduled, []api.ID{"c", "a", "b"}},
		{SortName, []api.ID{"b", "c", "a"}},
		{"unknown", []api.ID{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortParties(sampleParties(), tt.mode)))
		})
	}
}

func TestSortPartiesDoesNotMutateInput(t *testing.T) {
	in := sampleParties()
	_ = SortParties(in, SortPopular)
	assert.Equal(t, []api.ID{"a", "b", "c"}, ids(in))
}

func TestSortPartiesStableOnTies(t *testing.T) {
	in := []api.Party{{ID: "1", ParticipantCount: 5}, {ID: "2", ParticipantCount: 5}, {ID: "3", ParticipantCount: 9}}
	assert.Equal(t, []api.ID{"3", "1", "2"}, ids(SortParties(in, SortPopular)))
}

func TestFilterParties(t *testing.T) {
	parties := sampleParties()
	parties[0].Host = &api.User{Username: "ghoul"}

	assert.Equal(t, []api.ID{"a"}, ids(FilterParties(parties, PartyFilter{Query: "GHOUL"})))
	assert.Equal(t, []api.ID{"c"}, ids(FilterParties(parties, PartyFilter{Query: "club"})))
	assert.Equal(t, []api.ID{"c"}, ids(FilterParties(parties, PartyFilter{Status: api.PartyLive})))
	assert.Equal(t, []api.ID{"a", "c"}, ids(FilterParties(parties, PartyFilter{Visibility: api.VisibilityPublic})))
	assert.Len(t, FilterParties(parties, PartyFilter{}), 3)
	assert.Empty(t, FilterParties(nil, PartyFilter{Query: "x"}))
}

func TestPartyBadges(t *testing.T) {
	b := PartyBadges(sampleParties(), now)

	assert.Equal(t, Badges{All: 3, Public: 2, Recent: 1, Trending: 2}, b)
}

func TestPartyBadgesTrendingIsStrict(t *testing.T) {
	b := PartyBadges([]api.Party{{ParticipantCount: 10}, {ParticipantCount: 11}}, now)
	assert.Equal(t, 1, b.Trending)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2025-10-01T12:00:00Z", "2025-10-01T12:00:00.5+02:00", "2025-10-01T12:00:00.123456", "2025-10-01"} {
		_, ok := ParseTime(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseTime("yesterday")
	assert.False(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
}

func TestCompactNumber(t *testing.T) {
	tests := map[int]string{
		0:         "0",
		999:       "999",
		1000:      "1.0K",
		1234:      "1.2K",
		999999:    "1000.0K",
		1_000_000: "1.0M",
		3_400_000: "3.4M",
	}
	for in, want := range tests {
		assert.Equal(t, want, CompactNumber(in), "CompactNumber(%d)", in)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "12.3%", Percentage(123, 1000))
	assert.Equal(t, "100.0%", Percentage(5, 5))
	assert.Equal(t, "0.0%", Percentage(5, 0))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Unknown"},
		{-3, "Unknown"},
		{5, "0:05"},
		{65, "1:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{7384.9, "2:03:04"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), "FormatDuration(%v)", tt.in)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Unknown size"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
		{2048 * 1024 * 1024 * 1024, "2048.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.in), "FormatFileSize(%d)", tt.in)
	}
}

func TestIsNewUser(t *testing.T) {
	assert.True(t, IsNewUser(&api.User{DateJoined: "2025-09-28T12:00:00Z"}, now))
	assert.True(t, IsNewUser(&api.User{DateJoined: "2025-09-23T13:00:00Z"}, now))
	assert.False(t, IsNewUser(&api.User{DateJoined: "2025-09-20T12:00:00Z"}, now))
	assert.True(t, IsNewUser(&api.User{CreatedAt: "2025-09-30"}, now))
	assert.False(t, IsNewUser(&api.User{}, now))
	assert.False(t, IsNewUser(nil, now))
}

func TestSortVideos(t *testing.T) {
	videos := []api.Video{
		{ID: "1", Title: "beta", ViewCount: 5, CreatedAt: "2025-09-01T00:00:00Z"},
		{ID: "2", Title: "Alpha", ViewCount: 50, CreatedAt: "2025-08-01T00:00:00Z"},
		{ID: "3", Title: "gamma", ViewCount: 1, CreatedAt: "2025-09-15T00:00:00Z"},
	}
	videoIDs := func(vs []api.Video) []api.ID {
		out := []api.ID{}
		for _, v := range vs {
			out = append(out, v.ID)
		}
		return out
	}

	assert.Equal(t, []api.ID{"2", "1", "3"}, videoIDs(SortVideos(videos, SortPopular)))
	assert.Equal(t, []api.ID{"2", "1", "3"}, videoIDs(SortVideos(videos, SortName)))
	assert.Equal(t, []api.ID{"3", "1", "2"}, videoIDs(SortVideos(videos, SortRecent)))
}

func TestFilterIntegrationTypes(t *testing.T) {
	types := api.SampleIntegrationTypes()
	connected := api.SampleIntegrations()

	social := FilterIntegrationTypes(types, connected, IntegrationFilter{Category: "social"})
	assert.Len(t, social, 2)

	available := FilterIntegrationTypes(types, connected, IntegrationFilter{AvailableOnly: true})
	assert.Len(t, available, 4)
	for _, ty := range available {
		assert.NotContains(t, []string{"google-drive", "spotify"}, ty.ID)
	}

	byText := FilterIntegrationTypes(types, connected, IntegrationFilter{Query: "WATCHLISTS", Category: CategoryAll})
	assert.Len(t, byText, 1)
	assert.Equal(t, "trello", byText[0].ID)
}

func TestConnectedIntegrations(t *testing.T) {
	list := append(api.SampleIntegrations(), api.Integration{ID: "3", Type: "discord", Name: "Discord", Status: api.IntegrationPending})

	assert.Len(t, ConnectedIntegrations(list, ""), 2)
	got := ConnectedIntegrations(list, "spot")
	assert.Len(t, got, 1)
	assert.Equal(t, "Spotify", got[0].Name)
}
