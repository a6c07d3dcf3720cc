package service

import (
	"context"
	"fmt"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
)

// AnalyticsService prints analytics for the user and the platform
type AnalyticsService struct {
	env *Env
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(env *Env) *AnalyticsService {
	return &AnalyticsService{env: env}
}

// Show prints one analytics tab: overview, personal, realtime or platform
func (s *AnalyticsService) Show(ctx context.Context, tab, timeRange string) error {
	if tab == "" {
		tab = controller.TabOverview
	}

	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	page := controller.NewAnalytics(scope, s.env.API, timeRange, s.env.options()...)
	if err := page.SetTab(tab); err != nil {
		return err
	}

	if tab == controller.TabPlatform {
		var stats *api.Stats
		err := s.env.call(ctx, func(ctx context.Context) error {
			var err error
			stats, err = s.env.API.Analytics.System(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to load platform analytics: %w", err)
		}
		return s.env.Out.PrintRecord("Platform", stats, formatter.Stats(*stats, formatter.StatKeys(*stats)))
	}

	if err := s.env.call(ctx, func(context.Context) error { return page.Load() }); err != nil {
		return fmt.Errorf("failed to load analytics: %w", err)
	}
	data := page.Data().Data

	switch tab {
	case controller.TabPersonal:
		return s.env.Out.PrintRecord("Your activity", data.Personal, formatter.Stats(data.Personal, formatter.StatKeys(data.Personal)))
	case controller.TabRealtime:
		rt := page.Realtime().Data
		return s.env.Out.PrintRecord("Live now", rt, formatter.Realtime(rt))
	default:
		title := "Overview"
		if data.Dashboard.TimeRange != "" {
			title += " (" + data.Dashboard.TimeRange + ")"
		}
		return s.env.Out.PrintRecord(title, data.Dashboard, formatter.Overview(data.Dashboard))
	}
}

// Watch prints live numbers every poll interval until ctx is done. A failed
// poll keeps the last numbers and says so.
func (s *AnalyticsService) Watch(ctx context.Context) error {
	scope := controller.NewScope(ctx)
	defer scope.Unmount()
	page := controller.NewAnalytics(scope, s.env.API, "", s.env.options()...)

	if err := s.env.call(ctx, func(context.Context) error { return page.LoadRealtime() }); err != nil {
		return fmt.Errorf("failed to load live analytics: %w", err)
	}
	s.printRealtime(page)

	scope.Every(s.env.Interval, func(context.Context) {
		if err := page.LoadRealtime(); err != nil {
			s.env.Out.Warning("Live stats unavailable, showing last values")
		}
		s.printRealtime(page)
	})

	<-ctx.Done()
	return nil
}

func (s *AnalyticsService) printRealtime(page *controller.Analytics) {
	snap := page.Realtime()
	if !snap.HasData {
		return
	}
	if s.env.Out.Format == output.FormatJSON {
		_ = s.env.Out.JSON(snap.Data)
		return
	}
	fmt.Fprintf(s.env.Out.Out, "[%s] %d online, %d live parties, %d streams, %d messages today\n",
		s.env.now().Format("15:04:05"), snap.Data.OnlineUsers, snap.Data.ActiveParties, snap.Data.ActiveStreams, snap.Data.MessagesToday)
}

// Export requests an export and prints its download link
func (s *AnalyticsService) Export(ctx context.Context, format, dateRange string, metrics []string) error {
	switch format {
	case "", "csv", "json", "xlsx":
	default:
		return clierrors.ValidationError("format", "must be one of csv, json, xlsx")
	}

	var res *api.ExportResult
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Analytics.Export(ctx, api.ExportRequest{Format: format, DateRange: dateRange, Metrics: metrics})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to export analytics: %w", err)
	}
	return s.env.Out.PrintRecord("Export", res, []output.Field{
		{Key: "Download", Value: res.DownloadURL},
		{Key: "Expires", Value: formatter.Timestamp(res.ExpiresAt)},
	})
}

// Party prints the platform's statistics for one party
func (s *AnalyticsService) Party(ctx context.Context, partyID string) error {
	var stats *api.Stats
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.env.API.Analytics.PartyStats(ctx, partyID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get party stats: %w", err)
	}
	return s.env.Out.PrintRecord("Party stats", stats, formatter.Stats(*stats, formatter.StatKeys(*stats)))
}
