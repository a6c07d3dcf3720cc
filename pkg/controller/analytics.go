package controller

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/poll"
	"github.com/watchparty/cli/pkg/state"
)

// Analytics tabs
const (
	TabOverview = "overview"
	TabPersonal = "personal"
	TabRealtime = "realtime"
	TabPlatform = "platform"
)

var analyticsTabs = map[string]bool{
	TabOverview: true,
	TabPersonal: true,
	TabRealtime: true,
	TabPlatform: true,
}

// AnalyticsData is the part of the analytics page loaded once
type AnalyticsData struct {
	Dashboard *api.AnalyticsDashboard
	Personal  api.Stats
}

// Analytics loads the analytics page and polls real-time numbers while the
// realtime tab is active
type Analytics struct {
	scope     *Scope
	api       *api.API
	opts      options
	timeRange string

	data     state.Resource[AnalyticsData]
	realtime state.Resource[api.RealtimeSnapshot]

	mu     sync.Mutex
	tab    string
	poller *poll.Poller
}

// NewAnalytics binds an analytics page to scope. timeRange may be empty for
// the server default.
func NewAnalytics(scope *Scope, a *api.API, timeRange string, opts ...Option) *Analytics {
	return &Analytics{
		scope:     scope,
		api:       a,
		opts:      newOptions(opts),
		timeRange: timeRange,
		tab:       TabOverview,
	}
}

// Mount loads dashboard, personal and real-time analytics together
func (a *Analytics) Mount() error {
	return a.Load()
}

// Load fetches all three sections. Real-time values are only replaced when
// every request succeeds.
func (a *Analytics) Load() error {
	return track(a.scope.Context(), &a.data, func(ctx context.Context) (AnalyticsData, error) {
		var (
			data     AnalyticsData
			realtime *api.RealtimeSnapshot
		)
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			dash, err := a.api.Analytics.Dashboard(gctx, a.timeRange)
			data.Dashboard = dash
			return err
		})
		g.Go(func() error {
			personal, err := a.api.Analytics.Personal(gctx)
			if err != nil {
				return err
			}
			data.Personal = *personal
			return nil
		})
		g.Go(func() error {
			var err error
			realtime, err = a.api.Analytics.RealTime(gctx)
			return err
		})

		if err := g.Wait(); err != nil {
			logger.Error("Failed to load analytics", "error", err)
			return AnalyticsData{}, err
		}
		a.realtime.Succeed(*realtime)
		return data, nil
	})
}

// LoadRealtime refreshes the real-time section only
func (a *Analytics) LoadRealtime() error {
	return a.loadRealtime(a.scope.Context())
}

func (a *Analytics) loadRealtime(ctx context.Context) error {
	return track(ctx, &a.realtime, func(ctx context.Context) (api.RealtimeSnapshot, error) {
		snap, err := a.api.Analytics.RealTime(ctx)
		if err != nil {
			logger.Warn("Failed to load realtime data", "error", err)
			return api.RealtimeSnapshot{}, err
		}
		return *snap, nil
	})
}

// SetTab switches the active tab. Polling runs only while the realtime tab
// is active.
func (a *Analytics) SetTab(tab string) error {
	if !analyticsTabs[tab] {
		return clierrors.ValidationError("tab", "must be one of overview, personal, realtime, platform")
	}

	a.mu.Lock()
	a.tab = tab
	var stop *poll.Poller
	switch {
	case tab == TabRealtime && a.poller == nil:
		a.poller = a.scope.Every(a.opts.interval, func(ctx context.Context) {
			_ = a.loadRealtime(ctx)
		})
	case tab != TabRealtime && a.poller != nil:
		stop = a.poller
		a.poller = nil
	}
	a.mu.Unlock()

	if stop != nil {
		stop.Stop()
	}
	return nil
}

// Tab returns the active tab
func (a *Analytics) Tab() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tab
}

// Polling reports whether real-time polling is running
func (a *Analytics) Polling() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.poller != nil
}

// Data returns the dashboard and personal sections
func (a *Analytics) Data() state.Snapshot[AnalyticsData] {
	return a.data.Snapshot()
}

// Realtime returns the real-time section
func (a *Analytics) Realtime() state.Snapshot[api.RealtimeSnapshot] {
	return a.realtime.Snapshot()
}
