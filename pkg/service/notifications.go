package service

import (
	"context"
	"fmt"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/output"
)

// NotificationService provides notification-related operations
type NotificationService struct {
	env *Env
}

// NewNotificationService creates a new notification service
func NewNotificationService(env *Env) *NotificationService {
	return &NotificationService{env: env}
}

// List displays the inbox. When the service is down the last inbox seen is
// shown with a warning.
func (s *NotificationService) List(ctx context.Context, unreadOnly bool) error {
	logger.Debug("Listing notifications", "unread_only", unreadOnly)

	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	inbox := controller.NewNotifications(scope, s.env.API, s.env.options()...)

	if err := s.env.call(ctx, func(context.Context) error { return inbox.SetUnreadOnly(unreadOnly) }); err != nil {
		return fmt.Errorf("failed to list notifications: %w", err)
	}

	data := inbox.Inbox().Data
	s.env.notifyDegraded(data.Source, "Notifications")
	if err := s.env.Out.PrintList("Notifications", data.Items, formatter.Notifications(data.Items, s.env.now()), "No notifications."); err != nil {
		return err
	}
	if data.Unread > 0 {
		s.env.Out.Info("\n%d unread notification%s", data.Unread, pluralize(data.Unread))
	}
	return nil
}

// UnreadCount displays the count of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context) error {
	var count int
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		count, err = s.env.API.Notifications.UnreadCount(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get unread count: %w", err)
	}

	if s.env.Out.Format == output.FormatJSON {
		return s.env.Out.JSON(api.UnreadCount{Count: count})
	}
	if count == 0 {
		fmt.Fprintln(s.env.Out.Out, "No unread notifications.")
		return nil
	}
	fmt.Fprintf(s.env.Out.Out, "%d unread notification%s\n", count, pluralize(count))
	return nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	err := s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Notifications.MarkRead(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	s.env.Out.Success("Notification marked as read.")
	return nil
}

// MarkAllRead marks every notification as read after confirmation
func (s *NotificationService) MarkAllRead(ctx context.Context, force bool) error {
	ok, err := s.env.confirm(force, "Mark all notifications as read?")
	if err != nil || !ok {
		return err
	}

	err = s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Notifications.MarkAllRead(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark all as read: %w", err)
	}
	s.env.Out.Success("All notifications marked as read.")
	return nil
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	err := s.env.call(ctx, func(ctx context.Context) error {
		return s.env.API.Notifications.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	s.env.Out.Success("Notification deleted.")
	return nil
}

// Settings displays the user's notification preferences
func (s *NotificationService) Settings(ctx context.Context) error {
	var settings *api.NotificationSettings
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		settings, err = s.env.API.Notifications.Settings(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	return s.env.Out.PrintRecord("Notification preferences", settings, formatter.NotificationSettings(settings))
}

// EditSettings asks about each preference in turn and saves the answers
func (s *NotificationService) EditSettings(ctx context.Context) error {
	var settings *api.NotificationSettings
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		settings, err = s.env.API.Notifications.Settings(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}

	prefs := []struct {
		label string
		value *bool
	}{
		{"Email notifications", &settings.EmailNotifications},
		{"Push notifications", &settings.PushNotifications},
		{"Party invites", &settings.PartyInvites},
		{"Friend requests", &settings.FriendRequests},
		{"Chat mentions", &settings.ChatMentions},
	}
	for _, p := range prefs {
		current := "off"
		if *p.value {
			current = "on"
		}
		on, err := s.env.Prompt.Confirm(fmt.Sprintf("%s (currently %s)?", p.label, current))
		if err != nil {
			return err
		}
		*p.value = on
	}

	var updated *api.NotificationSettings
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.env.API.Notifications.UpdateSettings(ctx, *settings)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	s.env.Out.Success("Preferences saved.")
	return s.env.Out.PrintRecord("Notification preferences", updated, formatter.NotificationSettings(updated))
}

// Watch polls the inbox and prints notifications as they arrive until ctx
// is done
func (s *NotificationService) Watch(ctx context.Context) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	inbox := controller.NewNotifications(scope, s.env.API, s.env.options()...)

	inbox.OnNew(func(items []api.Notification) {
		for _, n := range items {
			s.printNotification(n)
		}
	})
	if err := s.env.call(ctx, func(context.Context) error { return inbox.Mount() }); err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}

	s.env.Out.Info("Watching for notifications (%d unread). Press Ctrl+C to stop.", inbox.UnreadCount())
	<-ctx.Done()
	return nil
}

func (s *NotificationService) printNotification(n api.Notification) {
	if s.env.Out.Format == output.FormatJSON {
		_ = s.env.Out.JSON(n)
		return
	}
	fmt.Fprintf(s.env.Out.Out, "[%s] %s", s.env.now().Format("15:04:05"), n.Title)
	if n.Message != "" {
		fmt.Fprintf(s.env.Out.Out, ": %s", formatter.Truncate(n.Message, 80))
	}
	fmt.Fprintln(s.env.Out.Out)
}
