package service

import (
	"context"
	"fmt"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/tui"
)

// DashboardService prints the user's overview
type DashboardService struct {
	env *Env
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(env *Env) *DashboardService {
	return &DashboardService{env: env}
}

type dashboardJSON struct {
	User          *api.User             `json:"user"`
	Stats         api.Stats             `json:"stats"`
	RecentParties []api.Party           `json:"recent_parties"`
	Live          *api.RealtimeSnapshot `json:"live,omitempty"`
	Welcome       bool                  `json:"show_welcome"`
}

// Show loads the profile, stats and recent parties together and prints
// them with the platform's live numbers. Live numbers are optional.
func (s *DashboardService) Show(ctx context.Context) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	dash := controller.NewDashboard(scope, s.env.API, s.env.options()...)

	if err := s.env.call(ctx, func(context.Context) error { return dash.Load() }); err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	_ = dash.LoadLive()

	data := dash.Data().Data
	live := dash.Live()

	if s.env.Out.Format == output.FormatJSON {
		out := dashboardJSON{User: data.User, Stats: data.Stats, RecentParties: data.RecentParties, Welcome: data.ShowWelcome}
		if live.HasData {
			out.Live = &live.Data
		}
		return s.env.Out.JSON(out)
	}

	if data.ShowWelcome {
		s.env.Out.Info("Welcome to WatchParty, %s! Create your first party with 'watchparty parties create'.\n", data.User.DisplayName())
	}
	if err := s.env.Out.PrintRecord("Dashboard", data, formatter.Dashboard(data.User, data.Stats)); err != nil {
		return err
	}
	fmt.Fprintln(s.env.Out.Out)
	if err := s.env.Out.PrintList("Recent parties", data.RecentParties, formatter.Parties(data.RecentParties), "No recent parties."); err != nil {
		return err
	}
	if live.HasData {
		fmt.Fprintln(s.env.Out.Out)
		return s.env.Out.PrintRecord("Live now", live.Data, formatter.Realtime(live.Data))
	}
	return nil
}

// Live runs the full-screen dashboard until the user quits
func (s *DashboardService) Live(ctx context.Context) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	dash := controller.NewDashboard(scope, s.env.API, s.env.options()...)
	return tui.Run(ctx, recoveringDashboard{Dashboard: dash, ctx: ctx, env: s.env}, s.env.Interval)
}

// recoveringDashboard refreshes an expired session before giving up on a
// full reload
type recoveringDashboard struct {
	*controller.Dashboard
	ctx context.Context
	env *Env
}

func (d recoveringDashboard) Load() error {
	return d.env.call(d.ctx, func(context.Context) error { return d.Dashboard.Load() })
}
