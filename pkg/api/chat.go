package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// ChatAPI covers party chat rooms and their moderation
type ChatAPI struct {
	c *client.Client
}

func chatPath(partyID, rest string) string {
	return fmt.Sprintf("/v2/chat/%s/%s", url.PathEscape(partyID), rest)
}

// Messages returns a page of chat history, newest last
func (ch *ChatAPI) Messages(ctx context.Context, partyID string, opts ListOptions) (*Page[ChatMessage], error) {
	logger.Debug("Fetching chat messages", "party_id", partyID, "page", opts.Page)
	return get[Page[ChatMessage]](ctx, ch.c, chatPath(partyID, "messages/"), opts.params())
}

// Send posts a chat message
func (ch *ChatAPI) Send(ctx context.Context, partyID, message string) (*ChatMessage, error) {
	logger.Debug("Sending chat message", "party_id", partyID)
	return send[ChatMessage](ctx, ch.c, http.MethodPost, chatPath(partyID, "messages/send/"), map[string]string{
		"message":      message,
		"message_type": "text",
	})
}

// Join enters the chat room
func (ch *ChatAPI) Join(ctx context.Context, partyID string) (*Message, error) {
	logger.Debug("Joining chat", "party_id", partyID)
	return send[Message](ctx, ch.c, http.MethodPost, chatPath(partyID, "join/"), nil)
}

// Leave exits the chat room
func (ch *ChatAPI) Leave(ctx context.Context, partyID string) (*Message, error) {
	logger.Debug("Leaving chat", "party_id", partyID)
	return send[Message](ctx, ch.c, http.MethodPost, chatPath(partyID, "leave/"), nil)
}

// ActiveUsers lists who is currently in the room
func (ch *ChatAPI) ActiveUsers(ctx context.Context, partyID string) (*Page[ChatUser], error) {
	logger.Debug("Fetching active chat users", "party_id", partyID)
	return get[Page[ChatUser]](ctx, ch.c, chatPath(partyID, "active-users/"), nil)
}

// Kick removes a user from the room
func (ch *ChatAPI) Kick(ctx context.Context, partyID, userID, reason string) (*Message, error) {
	logger.Debug("Kicking chat user", "party_id", partyID, "user_id", userID)
	return send[Message](ctx, ch.c, http.MethodPost, chatPath(partyID, "moderate/"), map[string]string{
		"action":  "kick",
		"user_id": userID,
		"reason":  reason,
	})
}

// Ban bans a user from the room. durationHours zero means permanent.
func (ch *ChatAPI) Ban(ctx context.Context, partyID, userID, reason string, durationHours int) (*Message, error) {
	logger.Debug("Banning chat user", "party_id", partyID, "user_id", userID)
	body := map[string]interface{}{
		"user_id": userID,
		"reason":  reason,
	}
	if durationHours > 0 {
		body["duration_hours"] = durationHours
	}
	return send[Message](ctx, ch.c, http.MethodPost, chatPath(partyID, "ban/"), body)
}

// Unban lifts a ban
func (ch *ChatAPI) Unban(ctx context.Context, partyID, userID string) (*Message, error) {
	logger.Debug("Unbanning chat user", "party_id", partyID, "user_id", userID)
	return send[Message](ctx, ch.c, http.MethodPost, chatPath(partyID, "unban/"), map[string]string{"user_id": userID})
}

// Banned lists banned users
func (ch *ChatAPI) Banned(ctx context.Context, partyID string) (*Page[User], error) {
	logger.Debug("Fetching banned users", "party_id", partyID)
	return get[Page[User]](ctx, ch.c, chatPath(partyID, "banned-users/"), nil)
}

// ModerationHistory lists moderation actions taken in the room
func (ch *ChatAPI) ModerationHistory(ctx context.Context, partyID string, opts ListOptions) (*Page[ModerationAction], error) {
	logger.Debug("Fetching moderation history", "party_id", partyID)
	return get[Page[ModerationAction]](ctx, ch.c, chatPath(partyID, "moderation-history/"), opts.params())
}

// Clear deletes every message in the room
func (ch *ChatAPI) Clear(ctx context.Context, partyID string) (*Message, error) {
	logger.Debug("Clearing chat", "party_id", partyID)
	return send[Message](ctx, ch.c, http.MethodPost, chatPath(partyID, "clear/"), nil)
}

// Emojis lists the emoji set available in chat
func (ch *ChatAPI) Emojis(ctx context.Context) (*Page[Emoji], error) {
	logger.Debug("Fetching emojis")
	return get[Page[Emoji]](ctx, ch.c, "/v2/chat/emojis/", nil)
}
