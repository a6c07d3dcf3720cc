package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
)

// SocialService covers friends, friend requests, groups and user lookup
type SocialService struct {
	env *Env
}

// NewSocialService creates a new social service
func NewSocialService(env *Env) *SocialService {
	return &SocialService{env: env}
}

func (s *SocialService) page(ctx context.Context, tab string) (*controller.Scope, *controller.Social, error) {
	scope := controller.NewScope(ctx)
	social := controller.NewSocial(scope, s.env.API)
	if err := s.env.call(ctx, func(context.Context) error { return social.SetTab(tab) }); err != nil {
		scope.Unmount()
		return nil, nil, err
	}
	return scope, social, nil
}

// Groups lists groups
func (s *SocialService) Groups(ctx context.Context) error {
	scope, social, err := s.page(ctx, controller.TabGroups)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	defer scope.Unmount()

	groups := social.Groups().Data
	return s.env.Out.PrintList("Groups", groups, formatter.Groups(groups), "No groups found.")
}

// SearchGroups lists groups matching query
func (s *SocialService) SearchGroups(ctx context.Context, query string) error {
	var page *api.Page[api.Group]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Social.Groups(ctx, query, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to search groups: %w", err)
	}
	return s.env.Out.PrintList("Groups", page.Results, formatter.Groups(page.Results), fmt.Sprintf("No groups match %q.", query))
}

// CreateGroup creates a group
func (s *SocialService) CreateGroup(ctx context.Context, req api.CreateGroupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return clierrors.ValidationError("name", "is required")
	}
	var group *api.Group
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		group, err = s.env.API.Social.CreateGroup(ctx, req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	s.env.Out.Success("Group created: %s (%s)", group.Name, group.ID)
	return nil
}

// JoinGroup joins a group
func (s *SocialService) JoinGroup(ctx context.Context, groupID string) error {
	scope, social, err := s.page(ctx, controller.TabGroups)
	if err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	defer scope.Unmount()

	if err := s.env.call(ctx, func(context.Context) error { return social.JoinGroup(groupID) }); err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	s.env.Out.Success("Joined group.")
	return nil
}

// LeaveGroup leaves a group
func (s *SocialService) LeaveGroup(ctx context.Context, groupID string) error {
	scope, social, err := s.page(ctx, controller.TabGroups)
	if err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}
	defer scope.Unmount()

	if err := s.env.call(ctx, func(context.Context) error { return social.LeaveGroup(groupID) }); err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}
	s.env.Out.Success("Left group.")
	return nil
}

// Friends lists the user's friends
func (s *SocialService) Friends(ctx context.Context) error {
	scope, social, err := s.page(ctx, controller.TabFriends)
	if err != nil {
		return fmt.Errorf("failed to list friends: %w", err)
	}
	defer scope.Unmount()

	friends := social.Friends().Data
	return s.env.Out.PrintList("Friends", friends, formatter.Users(friends), "No friends yet. Find people with 'watchparty social search'.")
}

// Requests lists incoming friend requests
func (s *SocialService) Requests(ctx context.Context) error {
	var page *api.Page[api.FriendRequest]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Users.FriendRequests(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list friend requests: %w", err)
	}
	return s.env.Out.PrintList("Friend requests", page.Results, formatter.FriendRequests(page.Results), "No pending friend requests.")
}

// AddFriend sends a friend request
func (s *SocialService) AddFriend(ctx context.Context, userID, message string) error {
	err := s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Users.SendFriendRequest(ctx, userID, message)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send friend request: %w", err)
	}
	s.env.Out.Success("Friend request sent.")
	return nil
}

// Respond accepts or declines a friend request
func (s *SocialService) Respond(ctx context.Context, requestID string, accept bool) error {
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		if accept {
			_, err = s.env.API.Users.AcceptFriendRequest(ctx, requestID)
		} else {
			_, err = s.env.API.Users.DeclineFriendRequest(ctx, requestID)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to respond to friend request: %w", err)
	}
	if accept {
		s.env.Out.Success("Friend request accepted.")
	} else {
		s.env.Out.Success("Friend request declined.")
	}
	return nil
}

// RemoveFriend unfriends a user after confirmation
func (s *SocialService) RemoveFriend(ctx context.Context, userID string, force bool) error {
	ok, err := s.env.confirm(force, "Remove %s from your friends?", userID)
	if err != nil || !ok {
		return err
	}
	err = s.env.call(ctx, func(ctx context.Context) error {
		return s.env.API.Users.RemoveFriend(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	s.env.Out.Success("Friend removed.")
	return nil
}

// Block blocks a user after confirmation
func (s *SocialService) Block(ctx context.Context, userID string, force bool) error {
	ok, err := s.env.confirm(force, "Block %s?", userID)
	if err != nil || !ok {
		return err
	}
	err = s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Users.Block(ctx, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	s.env.Out.Success("User blocked.")
	return nil
}

// Suggestions lists people the user may know
func (s *SocialService) Suggestions(ctx context.Context, limit int) error {
	var page *api.Page[api.User]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Users.Suggestions(ctx, limit)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get suggestions: %w", err)
	}
	return s.env.Out.PrintList("People you may know", page.Results, formatter.Users(page.Results), "No suggestions right now.")
}

// SearchUsers finds users by name
func (s *SocialService) SearchUsers(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return clierrors.ValidationError("query", "is required")
	}
	var page *api.Page[api.User]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Users.Search(ctx, query, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to search users: %w", err)
	}
	return s.env.Out.PrintList("Users", page.Results, formatter.Users(page.Results), fmt.Sprintf("No users match %q.", query))
}

// User shows a user's profile
func (s *SocialService) User(ctx context.Context, id string) error {
	var user *api.User
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.env.API.Users.Get(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	return s.env.Out.PrintRecord(user.DisplayName(), user, formatter.User(user))
}
