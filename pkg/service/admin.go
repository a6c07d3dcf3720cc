package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
)

// AdminService runs staff-only moderation and operations commands
type AdminService struct {
	env *Env
}

// NewAdminService creates a new admin service
func NewAdminService(env *Env) *AdminService {
	return &AdminService{env: env}
}

// requireStaff fails early for accounts known not to be staff. The server
// enforces the same rule.
func (s *AdminService) requireStaff() error {
	creds, err := s.env.Store.Load()
	if err != nil {
		return err
	}
	if creds != nil && creds.UserID != "" && !creds.IsStaff {
		return clierrors.ForbiddenError("admin commands require a staff account")
	}
	return nil
}

// Users lists accounts
func (s *AdminService) Users(ctx context.Context, search, status string, page int) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	var res *api.Page[api.User]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Admin.Users(ctx, api.AdminUserOptions{ListOptions: api.ListOptions{Page: page}, Search: search, Status: status})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	return s.env.Out.PrintList(fmt.Sprintf("Users, %d total", res.Count), res.Results, formatter.Users(res.Results), "No users found.")
}

// UserAction verifies, bans or unbans an account
func (s *AdminService) UserAction(ctx context.Context, userID, action, reason string, force bool) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	switch action {
	case "verify", "unban":
	case "ban":
		ok, err := s.env.confirm(force, "Ban user %s?", userID)
		if err != nil || !ok {
			return err
		}
	default:
		return clierrors.ValidationError("action", "must be one of verify, ban, unban")
	}

	logger.Info("Admin user action", "user_id", userID, "action", action)
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		switch action {
		case "verify":
			msg, err = s.env.API.Admin.VerifyUser(ctx, userID)
		case "ban":
			msg, err = s.env.API.Admin.BanUser(ctx, userID, reason)
		default:
			msg, err = s.env.API.Admin.UnbanUser(ctx, userID)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to %s user: %w", action, err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Done."))
	return nil
}

// Videos lists videos for moderation
func (s *AdminService) Videos(ctx context.Context, page int) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	var res *api.Page[api.Video]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Admin.Videos(ctx, api.ListOptions{Page: page})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}
	return s.env.Out.PrintList("Videos", res.Results, formatter.Videos(res.Results), "No videos.")
}

// ModerateVideo approves, rejects or removes a video
func (s *AdminService) ModerateVideo(ctx context.Context, videoID, action, reason string) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	switch action {
	case "approve", "reject", "remove":
	default:
		return clierrors.ValidationError("action", "must be one of approve, reject, remove")
	}
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Admin.ModerateVideo(ctx, videoID, action, reason)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to moderate video: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Video updated."))
	return nil
}

// Stats shows platform-wide numbers
func (s *AdminService) Stats(ctx context.Context) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	var stats *api.Stats
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.env.API.Admin.SystemStats(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get system stats: %w", err)
	}
	return s.env.Out.PrintRecord("System", stats, formatter.Stats(*stats, formatter.StatKeys(*stats)))
}

// Health shows the status of each backend service
func (s *AdminService) Health(ctx context.Context) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	var health *api.SystemHealth
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		health, err = s.env.API.Admin.ServerHealth(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get server health: %w", err)
	}

	names := make([]string, 0, len(health.Services))
	for name := range health.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return s.env.Out.PrintRecord("Health", health, formatter.SystemHealth(health, names))
}

// Restart restarts a backend service after confirmation
func (s *AdminService) Restart(ctx context.Context, service string, force bool) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	ok, err := s.env.confirm(force, "Restart %s?", service)
	if err != nil || !ok {
		return err
	}
	var msg *api.Message
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Admin.RestartService(ctx, service)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to restart %s: %w", service, err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Restart requested."))
	return nil
}

// ClearCache clears one cache, or all of them when cacheType is empty
func (s *AdminService) ClearCache(ctx context.Context, cacheType string, force bool) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	target := cacheType
	if target == "" {
		target = "all caches"
	}
	ok, err := s.env.confirm(force, "Clear %s?", target)
	if err != nil || !ok {
		return err
	}
	var msg *api.Message
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Admin.ClearCache(ctx, cacheType)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Cache cleared."))
	return nil
}

// Logs shows recent system logs
func (s *AdminService) Logs(ctx context.Context, level, component string, limit int) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	var res *api.Page[api.LogEntry]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Admin.Logs(ctx, api.LogOptions{ListOptions: api.ListOptions{PageSize: limit}, Level: level, Component: component})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	return s.env.Out.PrintList("Logs", res.Results, formatter.Logs(res.Results), "No log entries.")
}

// TestNotification sends a test notification to the signed-in admin
func (s *AdminService) TestNotification(ctx context.Context, message string) error {
	if err := s.requireStaff(); err != nil {
		return err
	}
	if message == "" {
		message = "Test notification"
	}
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Admin.TestNotification(ctx, message)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send test notification: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Test notification sent."))
	return nil
}
