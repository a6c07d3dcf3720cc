package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// UsersAPI covers other users and the friend graph
type UsersAPI struct {
	c *client.Client
}

// Get returns a user's public profile
func (u *UsersAPI) Get(ctx context.Context, id string) (*User, error) {
	logger.Debug("Fetching user", "user_id", id)
	return get[User](ctx, u.c, fmt.Sprintf("/v2/users/%s/", url.PathEscape(id)), nil)
}

// Search finds users by name or username
func (u *UsersAPI) Search(ctx context.Context, query string, opts ListOptions) (*Page[User], error) {
	logger.Debug("Searching users", "query", query)
	return get[Page[User]](ctx, u.c, "/v2/users/search/", merge(opts.params(), client.Params{"q": query}))
}

// Friends lists the user's friends
func (u *UsersAPI) Friends(ctx context.Context, opts ListOptions) (*Page[User], error) {
	logger.Debug("Fetching friends")
	return get[Page[User]](ctx, u.c, "/v2/users/friends/", opts.params())
}

// FriendRequests lists pending friend requests
func (u *UsersAPI) FriendRequests(ctx context.Context) (*Page[FriendRequest], error) {
	logger.Debug("Fetching friend requests")
	return get[Page[FriendRequest]](ctx, u.c, "/v2/users/friends/requests/", nil)
}

// SendFriendRequest asks a user to become friends
func (u *UsersAPI) SendFriendRequest(ctx context.Context, userID, message string) (*FriendRequest, error) {
	logger.Debug("Sending friend request", "user_id", userID)
	body := map[string]string{"to_user_id": userID}
	if message != "" {
		body["message"] = message
	}
	return send[FriendRequest](ctx, u.c, http.MethodPost, "/v2/users/friends/request/", body)
}

// AcceptFriendRequest accepts a pending request
func (u *UsersAPI) AcceptFriendRequest(ctx context.Context, requestID string) (*Message, error) {
	logger.Debug("Accepting friend request", "request_id", requestID)
	return send[Message](ctx, u.c, http.MethodPost,
		fmt.Sprintf("/v2/users/friends/%s/accept/", url.PathEscape(requestID)), nil)
}

// DeclineFriendRequest declines a pending request
func (u *UsersAPI) DeclineFriendRequest(ctx context.Context, requestID string) (*Message, error) {
	logger.Debug("Declining friend request", "request_id", requestID)
	return send[Message](ctx, u.c, http.MethodPost,
		fmt.Sprintf("/v2/users/friends/%s/decline/", url.PathEscape(requestID)), nil)
}

// RemoveFriend ends a friendship
func (u *UsersAPI) RemoveFriend(ctx context.Context, userID string) error {
	logger.Debug("Removing friend", "user_id", userID)
	return u.c.Delete(ctx, fmt.Sprintf("/v2/users/%s/friends/remove/", url.PathEscape(userID)), nil)
}

// Block blocks a user
func (u *UsersAPI) Block(ctx context.Context, userID string) (*Message, error) {
	logger.Debug("Blocking user", "user_id", userID)
	return send[Message](ctx, u.c, http.MethodPost, "/v2/users/block/", map[string]string{"user_id": userID})
}

// Suggestions returns people the user may know
func (u *UsersAPI) Suggestions(ctx context.Context, limit int) (*Page[User], error) {
	logger.Debug("Fetching friend suggestions", "limit", limit)
	return get[Page[User]](ctx, u.c, "/v2/users/suggestions/", client.Params{"limit": client.NonZero(limit)})
}
