package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/views"
)

// PartyService browses, creates and runs watch parties
type PartyService struct {
	env *Env
}

// NewPartyService creates a new party service
func NewPartyService(env *Env) *PartyService {
	return &PartyService{env: env}
}

// PartyListParams selects which parties to list. A search takes precedence
// over the filter.
type PartyListParams struct {
	Filter string
	Search string
	Sort   string
}

// List shows parties for a filter tab or search
func (s *PartyService) List(ctx context.Context, p PartyListParams) error {
	logger.Debug("Listing parties", "filter", p.Filter, "search", p.Search)

	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	parties := controller.NewParties(scope, s.env.API, s.env.options()...)

	err := s.env.call(ctx, func(context.Context) error {
		if strings.TrimSpace(p.Search) != "" {
			return parties.SetSearch(p.Search)
		}
		filter := p.Filter
		if filter == "" {
			filter = controller.FilterAll
		}
		return parties.SetFilter(filter)
	})
	if err != nil {
		return fmt.Errorf("failed to list parties: %w", err)
	}

	if info := parties.Info(); info != "" {
		s.env.Out.Info("%s", info)
		return nil
	}

	sorted := parties.Sorted(p.Sort)
	if err := s.env.Out.PrintList("Parties", sorted, formatter.Parties(sorted), parties.EmptyMessage()); err != nil {
		return err
	}
	if b := parties.Badges(); b.All > 0 {
		s.env.Out.Info("\n%d public, %d recent, %d trending", b.Public, b.Recent, b.Trending)
	}
	return nil
}

// Show prints one party
func (s *PartyService) Show(ctx context.Context, id string) error {
	var party *api.Party
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		party, err = s.env.API.Parties.Get(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get party: %w", err)
	}
	return s.env.Out.PrintRecord(party.Title, party, formatter.Party(party))
}

// Create creates a party
func (s *PartyService) Create(ctx context.Context, req api.CreatePartyRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return clierrors.ValidationError("title", "party name is required")
	}
	switch req.Visibility {
	case "":
		req.Visibility = api.VisibilityPublic
	case api.VisibilityPublic, api.VisibilityFriends, api.VisibilityPrivate:
	default:
		return clierrors.ValidationError("visibility", "must be one of public, friends, private")
	}

	var party *api.Party
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		party, err = s.env.API.Parties.Create(ctx, req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}

	s.env.Out.Success("Party created: %s", party.Title)
	return s.env.Out.PrintRecord(party.Title, party, formatter.Party(party))
}

// QuickCreate creates a public party from just a title, the way the
// dashboard does
func (s *PartyService) QuickCreate(ctx context.Context, title string) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	dash := controller.NewDashboard(scope, s.env.API, s.env.options()...)

	var party *api.Party
	err := s.env.call(ctx, func(context.Context) error {
		var err error
		party, err = dash.CreateQuickParty(title)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}
	s.env.Out.Success("Party created: %s", party.Title)
	if party.RoomCode != "" {
		s.env.Out.Info("Share room code %s to invite friends", party.RoomCode)
	}
	return nil
}

// Join joins a party by ID, room code or invite code
func (s *PartyService) Join(ctx context.Context, id, code, invite string) error {
	var resp *api.JoinResponse
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		switch {
		case code != "":
			resp, err = s.env.API.Parties.JoinByCode(ctx, code)
		case invite != "":
			resp, err = s.env.API.Parties.JoinByInvite(ctx, invite)
		case id != "":
			resp, err = s.env.API.Parties.Join(ctx, id)
		default:
			return clierrors.ValidationError("party", "an ID, room code or invite code is required")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to join party: %w", err)
	}

	title := id
	if resp.Party != nil {
		title = resp.Party.Title
	}
	s.env.Out.Success("Joined %s", title)
	if resp.Message != "" {
		s.env.Out.Info("%s", resp.Message)
	}
	return nil
}

// Leave leaves a party
func (s *PartyService) Leave(ctx context.Context, id string) error {
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Parties.Leave(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to leave party: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Left party."))
	return nil
}

// Delete deletes a party after confirmation
func (s *PartyService) Delete(ctx context.Context, id string, force bool) error {
	ok, err := s.env.confirm(force, "Delete party %s?", id)
	if err != nil || !ok {
		return err
	}

	err = s.env.call(ctx, func(ctx context.Context) error {
		return s.env.API.Parties.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}
	s.env.Out.Success("Party deleted.")
	return nil
}

// Start starts a scheduled party
func (s *PartyService) Start(ctx context.Context, id string) error {
	var party *api.Party
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		party, err = s.env.API.Parties.Start(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to start party: %w", err)
	}
	s.env.Out.Success("%s is live.", party.Title)
	return nil
}

// Control sends a playback command as host
func (s *PartyService) Control(ctx context.Context, id, action string, position float64) error {
	switch action {
	case "play", "pause", "seek", "stop":
	default:
		return clierrors.ValidationError("action", "must be one of play, pause, seek, stop")
	}
	ctrl := api.VideoControl{Action: action}
	// a negative position means "no position"
	if position >= 0 {
		ctrl.Timestamp = &position
	}

	var st *api.SyncState
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		st, err = s.env.API.Parties.Control(ctx, id, ctrl)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to control playback: %w", err)
	}
	return s.env.Out.PrintRecord("Playback", st, syncFields(st))
}

// Sync shows the authoritative playback position
func (s *PartyService) Sync(ctx context.Context, id string) error {
	var st *api.SyncState
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		st, err = s.env.API.Interactive.SyncState(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get sync state: %w", err)
	}
	return s.env.Out.PrintRecord("Playback", st, syncFields(st))
}

func syncFields(st *api.SyncState) []output.Field {
	return []output.Field{
		{Key: "Playing", Value: st.IsPlaying},
		{Key: "Position", Value: views.FormatDuration(st.CurrentTime)},
		{Key: "Updated", Value: formatter.Timestamp(st.LastUpdated)},
		{Key: "By", Value: st.UpdatedBy},
	}
}

// SelectVideo sets the party's video
func (s *PartyService) SelectVideo(ctx context.Context, id, videoID string) error {
	var party *api.Party
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		party, err = s.env.API.Parties.SelectVideo(ctx, id, videoID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to select video: %w", err)
	}
	s.env.Out.Success("Video selected for %s", party.Title)
	return nil
}

// Participants lists who is in a party
func (s *PartyService) Participants(ctx context.Context, id string) error {
	var page *api.Page[api.Participant]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Parties.Participants(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}
	return s.env.Out.PrintList("Participants", page.Results, formatter.Participants(page.Results), "No participants yet.")
}

// Invite invites a user, or with an empty userID generates a shareable
// invite link valid for hours
func (s *PartyService) Invite(ctx context.Context, id, userID, message string, hours int) error {
	if userID != "" {
		var msg *api.Message
		err := s.env.call(ctx, func(ctx context.Context) error {
			var err error
			msg, err = s.env.API.Parties.Invite(ctx, id, userID, message)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to invite user: %w", err)
		}
		s.env.Out.Success("%s", messageOr(msg, "Invitation sent."))
		return nil
	}

	var link *api.InviteLink
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		link, err = s.env.API.Parties.GenerateInvite(ctx, id, hours)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to generate invite: %w", err)
	}
	return s.env.Out.PrintRecord("Invite", link, []output.Field{
		{Key: "Code", Value: link.InviteCode},
		{Key: "URL", Value: link.InviteURL},
		{Key: "Expires", Value: formatter.Timestamp(link.ExpiresAt)},
	})
}

// Invitations lists pending party invitations
func (s *PartyService) Invitations(ctx context.Context) error {
	var page *api.Page[api.Invitation]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Parties.Invitations(ctx, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list invitations: %w", err)
	}
	return s.env.Out.PrintList("Invitations", page.Results, formatter.Invitations(page.Results), "No pending invitations.")
}

// RespondInvitation accepts or declines an invitation
func (s *PartyService) RespondInvitation(ctx context.Context, invitationID string, accept bool) error {
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		if accept {
			msg, err = s.env.API.Parties.AcceptInvitation(ctx, invitationID)
		} else {
			msg, err = s.env.API.Parties.DeclineInvitation(ctx, invitationID)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to respond to invitation: %w", err)
	}
	if accept {
		s.env.Out.Success("%s", messageOr(msg, "Invitation accepted."))
	} else {
		s.env.Out.Success("%s", messageOr(msg, "Invitation declined."))
	}
	return nil
}

// Recommended lists parties suggested for the user
func (s *PartyService) Recommended(ctx context.Context, limit int) error {
	var page *api.Page[api.Party]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Parties.Recommendations(ctx, limit)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get recommendations: %w", err)
	}
	return s.env.Out.PrintList("Recommended", page.Results, formatter.Parties(page.Results), "No recommendations yet.")
}

// Analytics shows a party's stats
func (s *PartyService) Analytics(ctx context.Context, id string) error {
	var stats *api.Stats
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.env.API.Parties.Analytics(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get party analytics: %w", err)
	}
	return s.env.Out.PrintRecord("Party analytics", stats, formatter.Stats(*stats, formatter.StatKeys(*stats)))
}

// Report flags a party for moderation
func (s *PartyService) Report(ctx context.Context, id, reason, description string) error {
	if strings.TrimSpace(reason) == "" {
		return clierrors.ValidationError("reason", "is required")
	}
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Parties.Report(ctx, id, reason, description)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to report party: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Report submitted."))
	return nil
}

// Public shows a party reachable by room code without signing in
func (s *PartyService) Public(ctx context.Context, code string) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	party := controller.NewPublicParty(scope, s.env.API, code)

	if err := party.Load(); err != nil {
		return err
	}
	snap := party.Party()
	return s.env.Out.PrintRecord(snap.Data.Title, snap.Data, formatter.Party(snap.Data))
}

// GuestJoin joins a public party as a named guest. A blank name is
// prompted for.
func (s *PartyService) GuestJoin(ctx context.Context, code, name string) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	party := controller.NewPublicParty(scope, s.env.API, code)

	if err := party.Load(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		var err error
		if name, err = s.env.Prompt.String("Your name: "); err != nil {
			return err
		}
	}
	if err := party.Join(name); err != nil {
		return err
	}

	snap := party.Party()
	s.env.Out.Success("Joined %s as %s", snap.Data.Title, party.Guest())
	return nil
}
