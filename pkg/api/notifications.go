package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/logger"
)

// NotificationsAPI covers the user's notification inbox and preferences
type NotificationsAPI struct {
	c      *client.Client
	policy degraded.Policy
}

// NotificationListOptions filters the inbox
type NotificationListOptions struct {
	ListOptions
	UnreadOnly bool
	Type       string
}

// List returns a page of notifications, newest first
func (n *NotificationsAPI) List(ctx context.Context, opts NotificationListOptions) (*Page[Notification], error) {
	logger.Debug("Fetching notifications", "page", opts.Page, "unread_only", opts.UnreadOnly)
	return get[Page[Notification]](ctx, n.c, "/v2/notifications/", merge(opts.params(), client.Params{
		"is_read": unreadFilter(opts.UnreadOnly),
		"type":    client.NonZero(opts.Type),
	}))
}

func unreadFilter(unreadOnly bool) interface{} {
	if unreadOnly {
		return false
	}
	return nil
}

// ListCached returns notifications, or the last list seen when the
// service is unreachable
func (n *NotificationsAPI) ListCached(ctx context.Context, opts NotificationListOptions) (degraded.Result[Page[Notification]], error) {
	key := fmt.Sprintf("notifications:%d:%t", opts.Page, opts.UnreadOnly)
	return degraded.Fetch(ctx, n.policy, key, nil, func(ctx context.Context) (Page[Notification], error) {
		page, err := n.List(ctx, opts)
		if err != nil {
			return Page[Notification]{}, err
		}
		return *page, nil
	})
}

// UnreadCount returns the number of unread notifications
func (n *NotificationsAPI) UnreadCount(ctx context.Context) (int, error) {
	logger.Debug("Fetching unread notification count")
	resp, err := get[UnreadCount](ctx, n.c, "/v2/notifications/unread-count/", nil)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead marks one notification as read
func (n *NotificationsAPI) MarkRead(ctx context.Context, id string) (*Message, error) {
	logger.Debug("Marking notification read", "notification_id", id)
	return send[Message](ctx, n.c, http.MethodPost,
		fmt.Sprintf("/v2/notifications/%s/mark-read/", url.PathEscape(id)), nil)
}

// MarkAllRead marks every notification as read
func (n *NotificationsAPI) MarkAllRead(ctx context.Context) (*Message, error) {
	logger.Debug("Marking all notifications read")
	return send[Message](ctx, n.c, http.MethodPost, "/v2/notifications/mark-all-read/", nil)
}

// Delete removes a notification
func (n *NotificationsAPI) Delete(ctx context.Context, id string) error {
	logger.Debug("Deleting notification", "notification_id", id)
	return n.c.Delete(ctx, fmt.Sprintf("/v2/notifications/%s/", url.PathEscape(id)), nil)
}

// Settings returns notification preferences
func (n *NotificationsAPI) Settings(ctx context.Context) (*NotificationSettings, error) {
	logger.Debug("Fetching notification settings")
	return get[NotificationSettings](ctx, n.c, "/v2/notifications/settings/", nil)
}

// UpdateSettings replaces notification preferences
func (n *NotificationsAPI) UpdateSettings(ctx context.Context, settings NotificationSettings) (*NotificationSettings, error) {
	logger.Debug("Updating notification settings")
	return send[NotificationSettings](ctx, n.c, http.MethodPut, "/v2/notifications/settings/", settings)
}
