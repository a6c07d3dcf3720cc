package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var dashboardLive bool

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"home"},
	Short:   "Show your dashboard",
	Long:    "Show your profile, counters, recent parties and live platform numbers. With --live, open the full-screen dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewDashboardService(env(cmd))
		if dashboardLive {
			return svc.Live(cmd.Context())
		}
		return svc.Show(cmd.Context())
	},
}

func init() {
	dashboardCmd.Flags().BoolVarP(&dashboardLive, "live", "l", false, "Full-screen dashboard that refreshes itself")
}
