package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/views"
)

// ChatService reads and moderates party chat, and runs polls and reactions
type ChatService struct {
	env *Env
}

// NewChatService creates a new chat service
func NewChatService(env *Env) *ChatService {
	return &ChatService{env: env}
}

// History shows recent chat messages of a party
func (s *ChatService) History(ctx context.Context, partyID string, limit int) error {
	var page *api.Page[api.ChatMessage]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Chat.Messages(ctx, partyID, api.ListOptions{PageSize: limit})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get chat history: %w", err)
	}
	return s.env.Out.PrintList("Chat", page.Results, formatter.ChatMessages(page.Results), "No messages yet.")
}

// Send posts a chat message over HTTP
func (s *ChatService) Send(ctx context.Context, partyID, message string) error {
	if strings.TrimSpace(message) == "" {
		return clierrors.ValidationError("message", "cannot be empty")
	}
	err := s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Chat.Send(ctx, partyID, message)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	s.env.Out.Success("Sent.")
	return nil
}

// Users lists who is in the chat right now
func (s *ChatService) Users(ctx context.Context, partyID string) error {
	var page *api.Page[api.ChatUser]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Chat.ActiveUsers(ctx, partyID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list chat users: %w", err)
	}

	t := output.Table{Headers: []string{"ID", "USERNAME", "TYPING"}}
	for _, u := range page.Results {
		typing := ""
		if u.IsTyping {
			typing = "..."
		}
		t.Rows = append(t.Rows, []string{string(u.ID), u.Username, typing})
	}
	return s.env.Out.PrintList("In chat", page.Results, t, "Nobody is chatting.")
}

// Moderate kicks, bans or unbans a user. Bans last hours, 0 for permanent.
func (s *ChatService) Moderate(ctx context.Context, partyID, userID, action, reason string, hours int, force bool) error {
	switch action {
	case "kick", "unban":
	case "ban":
		ok, err := s.env.confirm(force, "Ban %s from this party's chat?", userID)
		if err != nil || !ok {
			return err
		}
	default:
		return clierrors.ValidationError("action", "must be one of kick, ban, unban")
	}

	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		switch action {
		case "kick":
			msg, err = s.env.API.Chat.Kick(ctx, partyID, userID, reason)
		case "ban":
			msg, err = s.env.API.Chat.Ban(ctx, partyID, userID, reason, hours)
		default:
			msg, err = s.env.API.Chat.Unban(ctx, partyID, userID)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to %s user: %w", action, err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Done."))
	return nil
}

// Banned lists users banned from a party's chat
func (s *ChatService) Banned(ctx context.Context, partyID string) error {
	var page *api.Page[api.User]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Chat.Banned(ctx, partyID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list banned users: %w", err)
	}
	return s.env.Out.PrintList("Banned", page.Results, formatter.Users(page.Results), "No banned users.")
}

// ModerationLog lists moderation actions taken in a party
func (s *ChatService) ModerationLog(ctx context.Context, partyID string) error {
	var page *api.Page[api.ModerationAction]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Chat.ModerationHistory(ctx, partyID, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get moderation history: %w", err)
	}

	t := output.Table{Headers: []string{"WHEN", "ACTION", "BY", "USER", "REASON"}}
	for _, a := range page.Results {
		t.Rows = append(t.Rows, []string{
			formatter.Timestamp(a.CreatedAt),
			a.Action,
			formatter.UserName(a.Moderator),
			formatter.UserName(a.Target),
			formatter.Truncate(a.Reason, 40),
		})
	}
	return s.env.Out.PrintList("Moderation", page.Results, t, "No moderation actions.")
}

// Clear deletes every chat message of a party after confirmation
func (s *ChatService) Clear(ctx context.Context, partyID string, force bool) error {
	ok, err := s.env.confirm(force, "Clear all chat messages?")
	if err != nil || !ok {
		return err
	}
	err = s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Chat.Clear(ctx, partyID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear chat: %w", err)
	}
	s.env.Out.Success("Chat cleared.")
	return nil
}

// Emojis lists the emoji available in chat
func (s *ChatService) Emojis(ctx context.Context) error {
	var page *api.Page[api.Emoji]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Chat.Emojis(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list emojis: %w", err)
	}

	t := output.Table{Headers: []string{"CODE", "NAME", "CATEGORY"}}
	for _, e := range page.Results {
		t.Rows = append(t.Rows, []string{e.Code, e.Name, e.Category})
	}
	return s.env.Out.PrintList("Emoji", page.Results, t, "No emoji.")
}

// Polls lists a party's polls with their results
func (s *ChatService) Polls(ctx context.Context, partyID string) error {
	var page *api.Page[api.Poll]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Interactive.Polls(ctx, partyID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list polls: %w", err)
	}

	if s.env.Out.Format == output.FormatJSON || len(page.Results) == 0 {
		return s.env.Out.PrintList("Polls", page.Results, output.Table{}, "No polls.")
	}
	for i, p := range page.Results {
		if i > 0 {
			fmt.Fprintln(s.env.Out.Out)
		}
		s.printPoll(&p)
	}
	return nil
}

func (s *ChatService) printPoll(p *api.Poll) {
	state := "closed"
	if p.IsActive {
		state = "open"
	}
	fmt.Fprintf(s.env.Out.Out, "%s [%s] %s\n", p.ID, state, p.Question)
	for _, o := range p.Options {
		fmt.Fprintf(s.env.Out.Out, "  %-4s %-32s %3d  %s\n", o.ID, o.Text, o.Votes, views.Percentage(float64(o.Votes), float64(p.TotalVotes)))
	}
}

// CreatePoll starts a poll with at least two options
func (s *ChatService) CreatePoll(ctx context.Context, partyID string, req api.CreatePollRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return clierrors.ValidationError("question", "is required")
	}
	if len(req.Options) < 2 {
		return clierrors.ValidationError("options", "at least two are required")
	}

	var poll *api.Poll
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		poll, err = s.env.API.Interactive.CreatePoll(ctx, partyID, req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	s.env.Out.Success("Poll %s started.", poll.ID)
	return nil
}

// Vote votes in a poll and shows the updated results
func (s *ChatService) Vote(ctx context.Context, pollID, optionID string) error {
	var poll *api.Poll
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		poll, err = s.env.API.Interactive.Vote(ctx, pollID, optionID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to vote: %w", err)
	}
	if s.env.Out.Format == output.FormatJSON {
		return s.env.Out.JSON(poll)
	}
	s.printPoll(poll)
	return nil
}

// React sends an emoji reaction pinned to a video position in seconds
func (s *ChatService) React(ctx context.Context, partyID, emoji string, position float64) error {
	if emoji == "" {
		return clierrors.ValidationError("emoji", "is required")
	}
	err := s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Interactive.React(ctx, partyID, emoji, position)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to react: %w", err)
	}
	s.env.Out.Success("Reacted %s at %s", emoji, views.FormatDuration(position))
	return nil
}

// Reactions lists recent reactions in a party
func (s *ChatService) Reactions(ctx context.Context, partyID string) error {
	var page *api.Page[api.Reaction]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Interactive.Reactions(ctx, partyID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list reactions: %w", err)
	}

	t := output.Table{Headers: []string{"EMOJI", "USER", "AT"}}
	for _, r := range page.Results {
		t.Rows = append(t.Rows, []string{r.Emoji, formatter.UserName(r.User), views.FormatDuration(r.Timestamp)})
	}
	return s.env.Out.PrintList("Reactions", page.Results, t, "No reactions yet.")
}
