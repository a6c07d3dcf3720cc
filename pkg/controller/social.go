package controller

import (
	"context"
	"sync"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/state"
)

// Social tabs
const (
	TabGroups   = "groups"
	TabDiscover = "discover"
	TabFriends  = "friends"
)

// Social shows groups and friends. Only the active tab's list is loaded.
type Social struct {
	scope *Scope
	api   *api.API

	groups  state.Resource[[]api.Group]
	friends state.Resource[[]api.User]

	mu  sync.Mutex
	tab string
}

// NewSocial binds the social page to scope on the groups tab
func NewSocial(scope *Scope, a *api.API) *Social {
	return &Social{scope: scope, api: a, tab: TabGroups}
}

// Mount loads the active tab
func (s *Social) Mount() error {
	return s.Load()
}

// SetTab switches tabs and loads the new tab's list
func (s *Social) SetTab(tab string) error {
	switch tab {
	case TabGroups, TabDiscover, TabFriends:
	default:
		return clierrors.ValidationError("tab", "must be one of groups, discover, friends")
	}
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
	return s.Load()
}

// Tab returns the active tab
func (s *Social) Tab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// Load fetches the list behind the active tab
func (s *Social) Load() error {
	ctx := s.scope.Context()
	if s.Tab() == TabFriends {
		return track(ctx, &s.friends, func(ctx context.Context) ([]api.User, error) {
			page, err := s.api.Social.Friends(ctx)
			if err != nil {
				logger.Error("Failed to load friends", "error", err)
				return nil, err
			}
			return page.Results, nil
		})
	}
	return track(ctx, &s.groups, func(ctx context.Context) ([]api.Group, error) {
		page, err := s.api.Social.Groups(ctx, "", api.ListOptions{})
		if err != nil {
			logger.Error("Failed to load groups", "error", err)
			return nil, err
		}
		return page.Results, nil
	})
}

// JoinGroup joins a group and reloads
func (s *Social) JoinGroup(groupID string) error {
	return s.mutate(func(ctx context.Context) error {
		_, err := s.api.Social.JoinGroup(ctx, groupID)
		return err
	})
}

// LeaveGroup leaves a group and reloads
func (s *Social) LeaveGroup(groupID string) error {
	return s.mutate(func(ctx context.Context) error {
		_, err := s.api.Social.LeaveGroup(ctx, groupID)
		return err
	})
}

// SendFriendRequest sends a friend request and reloads
func (s *Social) SendFriendRequest(userID string) error {
	return s.mutate(func(ctx context.Context) error {
		_, err := s.api.Social.SendFriendRequest(ctx, userID)
		return err
	})
}

func (s *Social) mutate(fn func(ctx context.Context) error) error {
	ctx := s.scope.Context()
	if ctx.Err() != nil {
		return ErrUnmounted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	_ = s.Load()
	return nil
}

// Groups returns the groups state
func (s *Social) Groups() state.Snapshot[[]api.Group] {
	return s.groups.Snapshot()
}

// Friends returns the friends state
func (s *Social) Friends() state.Snapshot[[]api.User] {
	return s.friends.Snapshot()
}
