package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// AnalyticsAPI covers user, party, video and platform statistics
type AnalyticsAPI struct {
	c *client.Client
}

// Dashboard returns the analytics overview. timeRange is e.g. "7d"; empty
// uses the server default.
func (a *AnalyticsAPI) Dashboard(ctx context.Context, timeRange string) (*AnalyticsDashboard, error) {
	logger.Debug("Fetching analytics dashboard", "time_range", timeRange)
	return get[AnalyticsDashboard](ctx, a.c, "/v2/analytics/dashboard/", client.Params{"time_range": client.NonZero(timeRange)})
}

// UserStats returns the current user's counters
func (a *AnalyticsAPI) UserStats(ctx context.Context) (*Stats, error) {
	logger.Debug("Fetching user stats")
	return get[Stats](ctx, a.c, "/v2/analytics/user-stats/", nil)
}

// PartyStats returns statistics for one party
func (a *AnalyticsAPI) PartyStats(ctx context.Context, partyID string) (*Stats, error) {
	logger.Debug("Fetching party stats", "party_id", partyID)
	return get[Stats](ctx, a.c, fmt.Sprintf("/v2/analytics/party-stats/%s/", url.PathEscape(partyID)), nil)
}

// Personal returns the user's personal viewing analytics
func (a *AnalyticsAPI) Personal(ctx context.Context) (*Stats, error) {
	logger.Debug("Fetching personal analytics")
	return get[Stats](ctx, a.c, "/v2/analytics/personal/", nil)
}

// RealTime returns the live platform snapshot
func (a *AnalyticsAPI) RealTime(ctx context.Context) (*RealtimeSnapshot, error) {
	logger.Debug("Fetching real-time analytics")
	return get[RealtimeSnapshot](ctx, a.c, "/v2/analytics/real-time/", nil)
}

// System returns platform-wide statistics (staff only)
func (a *AnalyticsAPI) System(ctx context.Context) (*Stats, error) {
	logger.Debug("Fetching system analytics")
	return get[Stats](ctx, a.c, "/v2/analytics/system/", nil)
}

// Video returns statistics for one video
func (a *AnalyticsAPI) Video(ctx context.Context, videoID string) (*Stats, error) {
	logger.Debug("Fetching video analytics", "video_id", videoID)
	return get[Stats](ctx, a.c, fmt.Sprintf("/v2/analytics/video/%s/", url.PathEscape(videoID)), nil)
}

// Export requests a downloadable analytics export
func (a *AnalyticsAPI) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	logger.Debug("Exporting analytics", "format", req.Format)
	return send[ExportResult](ctx, a.c, http.MethodPost, "/v2/analytics/export/", req)
}
