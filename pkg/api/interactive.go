package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// InteractiveAPI covers in-party polls, reactions and playback sync
type InteractiveAPI struct {
	c *client.Client
}

func interactivePath(partyID, rest string) string {
	return fmt.Sprintf("/v2/interactive/parties/%s/%s", url.PathEscape(partyID), rest)
}

// Polls lists the party's polls
func (i *InteractiveAPI) Polls(ctx context.Context, partyID string) (*Page[Poll], error) {
	logger.Debug("Fetching polls", "party_id", partyID)
	return get[Page[Poll]](ctx, i.c, interactivePath(partyID, "polls/"), nil)
}

// CreatePoll starts a poll in the party
func (i *InteractiveAPI) CreatePoll(ctx context.Context, partyID string, req CreatePollRequest) (*Poll, error) {
	logger.Debug("Creating poll", "party_id", partyID, "options", len(req.Options))
	return send[Poll](ctx, i.c, http.MethodPost, interactivePath(partyID, "polls/create/"), req)
}

// Vote casts a vote on a poll option
func (i *InteractiveAPI) Vote(ctx context.Context, pollID, optionID string) (*Poll, error) {
	logger.Debug("Voting", "poll_id", pollID, "option_id", optionID)
	return send[Poll](ctx, i.c, http.MethodPost,
		fmt.Sprintf("/v2/interactive/polls/%s/respond/", url.PathEscape(pollID)),
		map[string]string{"option_id": optionID})
}

// Reactions lists recent reactions in the party
func (i *InteractiveAPI) Reactions(ctx context.Context, partyID string) (*Page[Reaction], error) {
	logger.Debug("Fetching reactions", "party_id", partyID)
	return get[Page[Reaction]](ctx, i.c, interactivePath(partyID, "reactions/"), nil)
}

// React sends a reaction at a video timestamp in seconds
func (i *InteractiveAPI) React(ctx context.Context, partyID, emoji string, videoTimestamp float64) (*Reaction, error) {
	logger.Debug("Sending reaction", "party_id", partyID, "emoji", emoji)
	return send[Reaction](ctx, i.c, http.MethodPost, interactivePath(partyID, "reactions/create/"), Reaction{
		Emoji:     emoji,
		Timestamp: videoTimestamp,
	})
}

// SyncState returns the party's authoritative playback state
func (i *InteractiveAPI) SyncState(ctx context.Context, partyID string) (*SyncState, error) {
	logger.Debug("Fetching sync state", "party_id", partyID)
	return get[SyncState](ctx, i.c, fmt.Sprintf("/v2/parties/%s/sync_state/", url.PathEscape(partyID)), nil)
}
