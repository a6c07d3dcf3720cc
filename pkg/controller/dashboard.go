package controller

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/state"
	"github.com/watchparty/cli/pkg/views"
)

// RecentPartiesLimit is how many recent parties the dashboard shows
const RecentPartiesLimit = 5

// QuickPartyDescription is attached to parties created from the dashboard
const QuickPartyDescription = "Created from dashboard"

// DashboardData is everything the dashboard loads on mount
type DashboardData struct {
	User          *api.User
	Stats         api.Stats
	RecentParties []api.Party
	ShowWelcome   bool
}

// Dashboard loads the user's overview and polls platform-wide live stats
type Dashboard struct {
	scope *Scope
	api   *api.API
	opts  options

	data state.Resource[DashboardData]
	live state.Resource[api.RealtimeSnapshot]
}

// NewDashboard binds a dashboard to scope
func NewDashboard(scope *Scope, a *api.API, opts ...Option) *Dashboard {
	return &Dashboard{scope: scope, api: a, opts: newOptions(opts)}
}

// Mount loads the overview and live stats, then polls live stats
func (d *Dashboard) Mount() error {
	err := d.Load()
	_ = d.LoadLive()
	d.scope.Every(d.opts.interval, func(ctx context.Context) {
		_ = d.loadLive(ctx)
	})
	return err
}

// Load fetches profile, user stats and recent parties together. If any of
// them fails the whole load fails.
func (d *Dashboard) Load() error {
	return track(d.scope.Context(), &d.data, func(ctx context.Context) (DashboardData, error) {
		var data DashboardData
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			user, err := d.api.Auth.Profile(gctx)
			if err != nil {
				return err
			}
			data.User = user
			return nil
		})
		g.Go(func() error {
			stats, err := d.api.Analytics.UserStats(gctx)
			if err != nil {
				return err
			}
			data.Stats = *stats
			return nil
		})
		g.Go(func() error {
			page, err := d.api.Parties.Recent(gctx, api.ListOptions{PageSize: RecentPartiesLimit})
			if err != nil {
				return err
			}
			data.RecentParties = page.Results
			return nil
		})

		if err := g.Wait(); err != nil {
			logger.Error("Failed to load dashboard data", "error", err)
			return DashboardData{}, err
		}
		data.ShowWelcome = views.IsNewUser(data.User, d.opts.now())
		return data, nil
	})
}

// LoadLive fetches live stats. On failure the previous values are kept.
func (d *Dashboard) LoadLive() error {
	return d.loadLive(d.scope.Context())
}

func (d *Dashboard) loadLive(ctx context.Context) error {
	return track(ctx, &d.live, func(ctx context.Context) (api.RealtimeSnapshot, error) {
		snap, err := d.api.Analytics.RealTime(ctx)
		if err != nil {
			logger.Warn("Failed to load real-time stats", "error", err)
			return api.RealtimeSnapshot{}, err
		}
		return *snap, nil
	})
}

// CreateQuickParty creates a public party with the given title and reloads
// the overview
func (d *Dashboard) CreateQuickParty(title string) (*api.Party, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, clierrors.ValidationError("title", "party name is required")
	}
	ctx := d.scope.Context()
	if ctx.Err() != nil {
		return nil, ErrUnmounted
	}

	party, err := d.api.Parties.Create(ctx, api.CreatePartyRequest{
		Title:       title,
		Description: QuickPartyDescription,
		Visibility:  api.VisibilityPublic,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Party created", "party_id", party.ID)

	_ = d.Load()
	return party, nil
}

// Data returns the overview state
func (d *Dashboard) Data() state.Snapshot[DashboardData] {
	return d.data.Snapshot()
}

// Live returns the live stats state
func (d *Dashboard) Live() state.Snapshot[api.RealtimeSnapshot] {
	return d.live.Snapshot()
}
