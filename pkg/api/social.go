package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// SocialAPI covers groups and the friends list used by the social page
type SocialAPI struct {
	c *client.Client
}

// Groups lists social groups
func (s *SocialAPI) Groups(ctx context.Context, search string, opts ListOptions) (*Page[Group], error) {
	logger.Debug("Fetching groups", "search", search)
	return get[Page[Group]](ctx, s.c, "/api/social/groups/", merge(opts.params(), client.Params{
		"search": client.NonZero(search),
	}))
}

// CreateGroup creates a group owned by the user
func (s *SocialAPI) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	logger.Debug("Creating group", "name", req.Name)
	return send[Group](ctx, s.c, http.MethodPost, "/api/social/groups/", req)
}

// JoinGroup joins a group
func (s *SocialAPI) JoinGroup(ctx context.Context, groupID string) (*Message, error) {
	logger.Debug("Joining group", "group_id", groupID)
	return send[Message](ctx, s.c, http.MethodPost,
		fmt.Sprintf("/api/social/groups/%s/join/", url.PathEscape(groupID)), nil)
}

// LeaveGroup leaves a group
func (s *SocialAPI) LeaveGroup(ctx context.Context, groupID string) (*Message, error) {
	logger.Debug("Leaving group", "group_id", groupID)
	return send[Message](ctx, s.c, http.MethodPost,
		fmt.Sprintf("/api/social/groups/%s/leave/", url.PathEscape(groupID)), nil)
}

// Friends lists the user's friends
func (s *SocialAPI) Friends(ctx context.Context) (*Page[User], error) {
	logger.Debug("Fetching friends")
	return get[Page[User]](ctx, s.c, "/api/users/friends/", nil)
}

// SendFriendRequest sends a friend request to a user
func (s *SocialAPI) SendFriendRequest(ctx context.Context, userID string) (*Message, error) {
	logger.Debug("Sending friend request", "user_id", userID)
	return send[Message](ctx, s.c, http.MethodPost, "/api/users/friends/request/", map[string]string{"user_id": userID})
}
