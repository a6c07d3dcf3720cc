package controller

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/state"
)

// NotificationsPageSize is how many notifications one load fetches
const NotificationsPageSize = 20

// NotificationsData is one load of the inbox
type NotificationsData struct {
	Items  []api.Notification
	Unread int
	Source degraded.Source
}

// Notifications polls the inbox and reports notifications that arrive
// between polls
type Notifications struct {
	scope *Scope
	api   *api.API
	opts  options

	inbox state.Resource[NotificationsData]

	mu         sync.Mutex
	unreadOnly bool
	seen       map[api.ID]struct{}
	primed     bool
	onNew      func([]api.Notification)
}

// NewNotifications binds the inbox to scope
func NewNotifications(scope *Scope, a *api.API, opts ...Option) *Notifications {
	return &Notifications{
		scope: scope,
		api:   a,
		opts:  newOptions(opts),
		seen:  make(map[api.ID]struct{}),
	}
}

// OnNew registers fn to receive unread notifications first seen by a poll.
// The initial load never triggers fn.
func (n *Notifications) OnNew(fn func([]api.Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onNew = fn
}

// SetUnreadOnly filters the inbox to unread notifications and reloads
func (n *Notifications) SetUnreadOnly(unreadOnly bool) error {
	n.mu.Lock()
	n.unreadOnly = unreadOnly
	n.mu.Unlock()
	return n.Load()
}

// Mount loads the inbox and polls it
func (n *Notifications) Mount() error {
	err := n.Load()
	n.scope.Every(n.opts.interval, func(ctx context.Context) {
		_ = n.load(ctx)
	})
	return err
}

// Load fetches the inbox and the unread count
func (n *Notifications) Load() error {
	return n.load(n.scope.Context())
}

func (n *Notifications) load(ctx context.Context) error {
	n.mu.Lock()
	unreadOnly := n.unreadOnly
	n.mu.Unlock()

	err := track(ctx, &n.inbox, func(ctx context.Context) (NotificationsData, error) {
		var data NotificationsData
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			res, err := n.api.Notifications.ListCached(gctx, api.NotificationListOptions{
				ListOptions: api.ListOptions{PageSize: NotificationsPageSize},
				UnreadOnly:  unreadOnly,
			})
			if err != nil {
				return err
			}
			data.Items = res.Value.Results
			data.Source = res.Source
			return nil
		})
		g.Go(func() error {
			count, err := n.api.Notifications.UnreadCount(gctx)
			data.Unread = count
			return err
		})

		if err := g.Wait(); err != nil {
			logger.Error("Failed to load notifications", "error", err)
			return NotificationsData{}, err
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	data, _ := n.inbox.Data()
	n.announce(data.Items)
	return nil
}

func (n *Notifications) announce(items []api.Notification) {
	n.mu.Lock()
	var fresh []api.Notification
	for _, item := range items {
		if _, ok := n.seen[item.ID]; ok {
			continue
		}
		n.seen[item.ID] = struct{}{}
		if n.primed && !item.IsRead {
			fresh = append(fresh, item)
		}
	}
	n.primed = true
	fn := n.onNew
	n.mu.Unlock()

	if fn != nil && len(fresh) > 0 {
		fn(fresh)
	}
}

// MarkRead marks one notification read and reloads
func (n *Notifications) MarkRead(id string) error {
	return n.mutate(func(ctx context.Context) error {
		_, err := n.api.Notifications.MarkRead(ctx, id)
		return err
	})
}

// MarkAllRead marks the whole inbox read and reloads
func (n *Notifications) MarkAllRead() error {
	return n.mutate(func(ctx context.Context) error {
		_, err := n.api.Notifications.MarkAllRead(ctx)
		return err
	})
}

// Delete removes one notification and reloads
func (n *Notifications) Delete(id string) error {
	return n.mutate(func(ctx context.Context) error {
		return n.api.Notifications.Delete(ctx, id)
	})
}

func (n *Notifications) mutate(fn func(ctx context.Context) error) error {
	ctx := n.scope.Context()
	if ctx.Err() != nil {
		return ErrUnmounted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	_ = n.Load()
	return nil
}

// Inbox returns the inbox state
func (n *Notifications) Inbox() state.Snapshot[NotificationsData] {
	return n.inbox.Snapshot()
}

// UnreadCount returns the last loaded unread count
func (n *Notifications) UnreadCount() int {
	data, _ := n.inbox.Data()
	return data.Unread
}
