package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var (
	analyticsRange  string
	exportFormat    string
	exportDateRange string
	exportMetrics   []string
)

var analyticsCmd = &cobra.Command{
	Use:       "analytics [overview|personal|realtime|platform]",
	Short:     "Analytics commands",
	Long:      "Show analytics. The tab defaults to overview; platform requires a staff account.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"overview", "personal", "realtime", "platform"},
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := ""
		if len(args) > 0 {
			tab = args[0]
		}
		return service.NewAnalyticsService(env(cmd)).Show(cmd.Context(), tab, analyticsRange)
	},
}

var analyticsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live platform numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAnalyticsService(env(cmd)).Watch(cmd.Context())
	},
}

var analyticsPartyCmd = &cobra.Command{
	Use:   "party <party-id>",
	Short: "Show statistics for one party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAnalyticsService(env(cmd)).Party(cmd.Context(), args[0])
	},
}

var analyticsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analytics and print the download link",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAnalyticsService(env(cmd)).Export(cmd.Context(), exportFormat, exportDateRange, exportMetrics)
	},
}

func init() {
	analyticsCmd.Flags().StringVarP(&analyticsRange, "range", "r", "7d", "Time range: 24h, 7d, 30d, 90d")

	analyticsExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Format: csv, json, xlsx")
	analyticsExportCmd.Flags().StringVar(&exportDateRange, "range", "30d", "Date range")
	analyticsExportCmd.Flags().StringSliceVar(&exportMetrics, "metrics", nil, "Metrics to include (default: all)")

	analyticsCmd.AddCommand(analyticsWatchCmd)
	analyticsCmd.AddCommand(analyticsPartyCmd)
	analyticsCmd.AddCommand(analyticsExportCmd)
}
