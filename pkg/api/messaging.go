package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// MessagingAPI covers direct messages between users
type MessagingAPI struct {
	c *client.Client
}

// Conversations lists the user's conversations, most recent first
func (m *MessagingAPI) Conversations(ctx context.Context, opts ListOptions) (*Page[Conversation], error) {
	logger.Debug("Fetching conversations")
	return get[Page[Conversation]](ctx, m.c, "/api/messaging/conversations/", opts.params())
}

// Messages returns a page of one conversation
func (m *MessagingAPI) Messages(ctx context.Context, conversationID string, opts ListOptions) (*Page[DirectMessage], error) {
	logger.Debug("Fetching messages", "conversation_id", conversationID)
	return get[Page[DirectMessage]](ctx, m.c,
		fmt.Sprintf("/api/messaging/conversations/%s/messages/", url.PathEscape(conversationID)), opts.params())
}

// Send posts a message to a conversation
func (m *MessagingAPI) Send(ctx context.Context, conversationID, content string) (*DirectMessage, error) {
	logger.Debug("Sending message", "conversation_id", conversationID)
	return send[DirectMessage](ctx, m.c, http.MethodPost,
		fmt.Sprintf("/api/messaging/conversations/%s/messages/", url.PathEscape(conversationID)),
		map[string]string{"content": content})
}
