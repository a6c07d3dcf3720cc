package api

import (
	"context"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// DashboardAPI returns the summary counters of the home dashboard
type DashboardAPI struct {
	c *client.Client
}

// Stats returns the user's dashboard counters
func (d *DashboardAPI) Stats(ctx context.Context) (*DashboardStats, error) {
	logger.Debug("Fetching dashboard stats")
	return get[DashboardStats](ctx, d.c, "/v2/analytics/dashboard/", nil)
}
