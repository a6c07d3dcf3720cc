package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// AdminAPI covers staff-only user, content and system management
type AdminAPI struct {
	c *client.Client
}

// AdminUserOptions filters the admin user listing
type AdminUserOptions struct {
	ListOptions
	Search string
	Status string
}

// Users lists accounts
func (a *AdminAPI) Users(ctx context.Context, opts AdminUserOptions) (*Page[User], error) {
	logger.Debug("Fetching admin users", "search", opts.Search)
	return get[Page[User]](ctx, a.c, "/v2/admin/users/", merge(opts.params(), client.Params{
		"search": client.NonZero(opts.Search),
		"status": client.NonZero(opts.Status),
	}))
}

func (a *AdminAPI) userAction(ctx context.Context, userID, action string, body interface{}) (*Message, error) {
	logger.Debug("Admin user action", "user_id", userID, "action", action)
	return send[Message](ctx, a.c, http.MethodPost,
		fmt.Sprintf("/v2/admin/users/%s/%s/", url.PathEscape(userID), action), body)
}

// VerifyUser marks an account verified
func (a *AdminAPI) VerifyUser(ctx context.Context, userID string) (*Message, error) {
	return a.userAction(ctx, userID, "verify", nil)
}

// BanUser suspends an account
func (a *AdminAPI) BanUser(ctx context.Context, userID, reason string) (*Message, error) {
	return a.userAction(ctx, userID, "ban", map[string]string{"reason": reason})
}

// UnbanUser lifts a suspension
func (a *AdminAPI) UnbanUser(ctx context.Context, userID string) (*Message, error) {
	return a.userAction(ctx, userID, "unban", nil)
}

// Videos lists every video for moderation
func (a *AdminAPI) Videos(ctx context.Context, opts ListOptions) (*Page[Video], error) {
	logger.Debug("Fetching admin videos")
	return get[Page[Video]](ctx, a.c, "/v2/admin/videos/", opts.params())
}

// ModerateVideo approves, rejects or removes a video
func (a *AdminAPI) ModerateVideo(ctx context.Context, videoID, action, reason string) (*Message, error) {
	logger.Debug("Moderating video", "video_id", videoID, "action", action)
	return send[Message](ctx, a.c, http.MethodPost,
		fmt.Sprintf("/v2/admin/videos/%s/moderate/", url.PathEscape(videoID)),
		map[string]string{"action": action, "reason": reason})
}

// SystemStats returns platform counters
func (a *AdminAPI) SystemStats(ctx context.Context) (*Stats, error) {
	logger.Debug("Fetching system stats")
	return get[Stats](ctx, a.c, "/v2/admin/system-stats/", nil)
}

// ServerHealth returns the health of each backend service
func (a *AdminAPI) ServerHealth(ctx context.Context) (*SystemHealth, error) {
	logger.Debug("Fetching server health")
	return get[SystemHealth](ctx, a.c, "/v2/admin/health/", nil)
}

// RestartService restarts a named backend service
func (a *AdminAPI) RestartService(ctx context.Context, service string) (*Message, error) {
	logger.Debug("Restarting service", "service", service)
	return send[Message](ctx, a.c, http.MethodPost, "/v2/admin/services/restart/", map[string]string{"service": service})
}

// ClearCache clears a server-side cache; empty cacheType clears all
func (a *AdminAPI) ClearCache(ctx context.Context, cacheType string) (*Message, error) {
	logger.Debug("Clearing cache", "cache_type", cacheType)
	var body interface{}
	if cacheType != "" {
		body = map[string]string{"cache_type": cacheType}
	}
	return send[Message](ctx, a.c, http.MethodPost, "/v2/admin/cache/clear/", body)
}

// LogOptions filters system logs
type LogOptions struct {
	ListOptions
	Level     string
	Component string
}

// Logs returns recent system logs
func (a *AdminAPI) Logs(ctx context.Context, opts LogOptions) (*Page[LogEntry], error) {
	logger.Debug("Fetching system logs", "level", opts.Level)
	return get[Page[LogEntry]](ctx, a.c, "/v2/admin/logs/", merge(opts.params(), client.Params{
		"level":     client.NonZero(opts.Level),
		"component": client.NonZero(opts.Component),
	}))
}

// TestNotification sends a test notification to the caller
func (a *AdminAPI) TestNotification(ctx context.Context, message string) (*Message, error) {
	logger.Debug("Sending test notification")
	return send[Message](ctx, a.c, http.MethodPost, "/v2/admin/notifications/test/", map[string]string{"message": message})
}
