package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// PartiesAPI covers watch parties, their participants and invitations
type PartiesAPI struct {
	c *client.Client
}

// PartyListOptions filters a party listing. Zero fields are omitted.
type PartyListOptions struct {
	ListOptions
	Search     string
	Status     PartyStatus
	Visibility Visibility
	Host       string
	IsPublic   *bool
	Ordering   string
}

func (o PartyListOptions) params() client.Params {
	return merge(o.ListOptions.params(), client.Params{
		"search":     client.NonZero(o.Search),
		"status":     client.NonZero(string(o.Status)),
		"visibility": client.NonZero(string(o.Visibility)),
		"host":       client.NonZero(o.Host),
		"is_public":  o.IsPublic,
		"ordering":   client.NonZero(o.Ordering),
	})
}

func partyPath(id string, rest string) string {
	return fmt.Sprintf("/v2/parties/%s/%s", url.PathEscape(id), rest)
}

// List returns the parties visible to the user
func (p *PartiesAPI) List(ctx context.Context, opts PartyListOptions) (*Page[Party], error) {
	logger.Debug("Fetching parties", "page", opts.Page, "status", opts.Status)
	return get[Page[Party]](ctx, p.c, "/v2/parties/", opts.params())
}

// Get returns one party
func (p *PartiesAPI) Get(ctx context.Context, id string) (*Party, error) {
	logger.Debug("Fetching party", "party_id", id)
	return get[Party](ctx, p.c, partyPath(id, ""), nil)
}

// Create creates a party through the same-origin proxy, which attaches the
// session cookie
func (p *PartiesAPI) Create(ctx context.Context, req CreatePartyRequest) (*Party, error) {
	logger.Debug("Creating party", "title", req.Title)
	return do[Party](ctx, p.c, client.Request{
		Method:   http.MethodPost,
		Endpoint: "/parties",
		Body:     req,
		Target:   client.Frontend,
	})
}

// Update patches a party the user hosts
func (p *PartiesAPI) Update(ctx context.Context, id string, req UpdatePartyRequest) (*Party, error) {
	logger.Debug("Updating party", "party_id", id)
	return send[Party](ctx, p.c, http.MethodPatch, partyPath(id, ""), req)
}

// Delete removes a party the user hosts
func (p *PartiesAPI) Delete(ctx context.Context, id string) error {
	logger.Debug("Deleting party", "party_id", id)
	return p.c.Delete(ctx, partyPath(id, ""), nil)
}

// Recent returns the user's most recent parties
func (p *PartiesAPI) Recent(ctx context.Context, opts ListOptions) (*Page[Party], error) {
	logger.Debug("Fetching recent parties")
	return get[Page[Party]](ctx, p.c, "/v2/parties/recent/", opts.params())
}

// Public returns parties anyone can join
func (p *PartiesAPI) Public(ctx context.Context, opts ListOptions) (*Page[Party], error) {
	logger.Debug("Fetching public parties")
	return get[Page[Party]](ctx, p.c, "/v2/parties/public/", opts.params())
}

// PublicByCode returns a public party by its room code. No login required.
func (p *PartiesAPI) PublicByCode(ctx context.Context, code string) (*Party, error) {
	logger.Debug("Fetching public party", "code", code)
	return get[Party](ctx, p.c, fmt.Sprintf("/v2/parties/public/%s/", url.PathEscape(code)), nil)
}

// Trending returns the currently most active parties
func (p *PartiesAPI) Trending(ctx context.Context, limit int) (*Page[Party], error) {
	logger.Debug("Fetching trending parties", "limit", limit)
	return get[Page[Party]](ctx, p.c, "/v2/parties/trending/", client.Params{"limit": client.NonZero(limit)})
}

// Recommendations returns parties suggested for the user
func (p *PartiesAPI) Recommendations(ctx context.Context, limit int) (*Page[Party], error) {
	logger.Debug("Fetching party recommendations", "limit", limit)
	return get[Page[Party]](ctx, p.c, "/v2/parties/recommendations/", client.Params{"limit": client.NonZero(limit)})
}

// Search finds parties by text
func (p *PartiesAPI) Search(ctx context.Context, query string, opts ListOptions) (*Page[Party], error) {
	logger.Debug("Searching parties", "query", query)
	return get[Page[Party]](ctx, p.c, "/v2/parties/search/", merge(opts.params(), client.Params{"q": query}))
}

// Join adds the user to a party
func (p *PartiesAPI) Join(ctx context.Context, id string) (*JoinResponse, error) {
	logger.Debug("Joining party", "party_id", id)
	return send[JoinResponse](ctx, p.c, http.MethodPost, partyPath(id, "join/"), nil)
}

// Leave removes the user from a party
func (p *PartiesAPI) Leave(ctx context.Context, id string) (*Message, error) {
	logger.Debug("Leaving party", "party_id", id)
	return send[Message](ctx, p.c, http.MethodPost, partyPath(id, "leave/"), nil)
}

// JoinByCode joins the party with the given room code
func (p *PartiesAPI) JoinByCode(ctx context.Context, code string) (*JoinResponse, error) {
	logger.Debug("Joining party by code", "code", code)
	return send[JoinResponse](ctx, p.c, http.MethodPost, "/v2/parties/join-by-code/", map[string]string{"room_code": code})
}

// JoinByInvite joins through an invite code
func (p *PartiesAPI) JoinByInvite(ctx context.Context, inviteCode string) (*JoinResponse, error) {
	logger.Debug("Joining party by invite")
	return send[JoinResponse](ctx, p.c, http.MethodPost, "/v2/parties/join-by-invite/", map[string]string{"invite_code": inviteCode})
}

// Start moves a scheduled party to live
func (p *PartiesAPI) Start(ctx context.Context, id string) (*Party, error) {
	logger.Debug("Starting party", "party_id", id)
	return send[Party](ctx, p.c, http.MethodPost, partyPath(id, "start/"), nil)
}

// Control sends a playback command to every participant
func (p *PartiesAPI) Control(ctx context.Context, id string, ctrl VideoControl) (*SyncState, error) {
	logger.Debug("Sending party control", "party_id", id, "action", ctrl.Action)
	return send[SyncState](ctx, p.c, http.MethodPost, partyPath(id, "control/"), ctrl)
}

// SelectVideo attaches a video to the party
func (p *PartiesAPI) SelectVideo(ctx context.Context, id, videoID string) (*Party, error) {
	logger.Debug("Selecting party video", "party_id", id, "video_id", videoID)
	return send[Party](ctx, p.c, http.MethodPost, partyPath(id, "select_video/"), map[string]string{"video_id": videoID})
}

// Participants lists the party's participants
func (p *PartiesAPI) Participants(ctx context.Context, id string) (*Page[Participant], error) {
	logger.Debug("Fetching participants", "party_id", id)
	return get[Page[Participant]](ctx, p.c, partyPath(id, "participants/"), nil)
}

// Invite sends an invitation to a user
func (p *PartiesAPI) Invite(ctx context.Context, id, userID, message string) (*Message, error) {
	logger.Debug("Inviting user", "party_id", id, "user_id", userID)
	body := map[string]string{"user_id": userID}
	if message != "" {
		body["message"] = message
	}
	return send[Message](ctx, p.c, http.MethodPost, partyPath(id, "invite/"), body)
}

// GenerateInvite creates a shareable invite link
func (p *PartiesAPI) GenerateInvite(ctx context.Context, id string, expiresHours int) (*InviteLink, error) {
	logger.Debug("Generating invite", "party_id", id)
	var body interface{}
	if expiresHours > 0 {
		body = map[string]int{"expires_hours": expiresHours}
	}
	return send[InviteLink](ctx, p.c, http.MethodPost, partyPath(id, "generate_invite/"), body)
}

// Analytics returns per-party statistics
func (p *PartiesAPI) Analytics(ctx context.Context, id string) (*Stats, error) {
	logger.Debug("Fetching party analytics", "party_id", id)
	return get[Stats](ctx, p.c, partyPath(id, "analytics/"), nil)
}

// Report flags a party for moderation
func (p *PartiesAPI) Report(ctx context.Context, id, reason, description string) (*Message, error) {
	logger.Debug("Reporting party", "party_id", id, "reason", reason)
	return send[Message](ctx, p.c, http.MethodPost, partyPath(id, "report/"), map[string]string{
		"reason":      reason,
		"description": description,
	})
}

// Invitations lists invitations addressed to the user
func (p *PartiesAPI) Invitations(ctx context.Context, opts ListOptions) (*Page[Invitation], error) {
	logger.Debug("Fetching invitations")
	return get[Page[Invitation]](ctx, p.c, "/v2/parties/invitations/", opts.params())
}

// AcceptInvitation accepts an invitation
func (p *PartiesAPI) AcceptInvitation(ctx context.Context, invitationID string) (*Message, error) {
	logger.Debug("Accepting invitation", "invitation_id", invitationID)
	return send[Message](ctx, p.c, http.MethodPost,
		fmt.Sprintf("/v2/parties/invitations/%s/accept/", url.PathEscape(invitationID)), nil)
}

// DeclineInvitation declines an invitation
func (p *PartiesAPI) DeclineInvitation(ctx context.Context, invitationID string) (*Message, error) {
	logger.Debug("Declining invitation", "invitation_id", invitationID)
	return send[Message](ctx, p.c, http.MethodPost,
		fmt.Sprintf("/v2/parties/invitations/%s/decline/", url.PathEscape(invitationID)), nil)
}
