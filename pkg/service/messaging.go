package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
)

// MessagingService manages direct messaging operations
type MessagingService struct {
	env *Env
}

// NewMessagingService creates a new messaging service
func NewMessagingService(env *Env) *MessagingService {
	return &MessagingService{env: env}
}

// Conversations displays the user's message threads
func (s *MessagingService) Conversations(ctx context.Context, page int) error {
	logger.Debug("Listing conversations", "page", page)

	var res *api.Page[api.Conversation]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Messaging.Conversations(ctx, api.ListOptions{Page: page})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}
	return s.env.Out.PrintList("Conversations", res.Results, formatter.Conversations(res.Results), "No conversations found.")
}

// Read displays one conversation
func (s *MessagingService) Read(ctx context.Context, conversationID string) error {
	var res *api.Page[api.DirectMessage]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Messaging.Messages(ctx, conversationID, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}
	return s.env.Out.PrintList("Messages", res.Results, formatter.DirectMessages(res.Results), "No messages yet.")
}

// Send sends a message. A blank message is read from the prompt.
func (s *MessagingService) Send(ctx context.Context, conversationID, content string) error {
	if strings.TrimSpace(content) == "" {
		var err error
		if content, err = s.env.Prompt.Multiline("Message", 20); err != nil {
			return err
		}
	}
	if strings.TrimSpace(content) == "" {
		return clierrors.ValidationError("message", "cannot be empty")
	}

	err := s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Messaging.Send(ctx, conversationID, content)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	s.env.Out.Success("Message sent.")
	return nil
}
