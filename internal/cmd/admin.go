package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var (
	adminSearch    string
	adminStatus    string
	adminPage      int
	adminReason    string
	adminForce     bool
	adminLevel     string
	adminComponent string
	adminLimit     int
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Staff-only moderation and operations",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).Users(cmd.Context(), adminSearch, adminStatus, adminPage)
	},
}

var adminUserCmd = &cobra.Command{
	Use:       "user <user-id> <verify|ban|unban>",
	Short:     "Verify, ban or unban a user",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"verify", "ban", "unban"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).UserAction(cmd.Context(), args[0], args[1], adminReason, adminForce)
	},
}

var adminVideosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List videos awaiting moderation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).Videos(cmd.Context(), adminPage)
	},
}

var adminVideoCmd = &cobra.Command{
	Use:       "video <video-id> <approve|reject|remove>",
	Short:     "Moderate a video",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"approve", "reject", "remove"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).ModerateVideo(cmd.Context(), args[0], args[1], adminReason)
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show system statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).Stats(cmd.Context())
	},
}

var adminHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).Health(cmd.Context())
	},
}

var adminRestartCmd = &cobra.Command{
	Use:   "restart <service>",
	Short: "Restart a backend service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).Restart(cmd.Context(), args[0], adminForce)
	},
}

var adminClearCacheCmd = &cobra.Command{
	Use:   "clear-cache [type]",
	Short: "Clear server caches",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).ClearCache(cmd.Context(), strings.Join(args, ""), adminForce)
	},
}

var adminLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent server logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).Logs(cmd.Context(), adminLevel, adminComponent, adminLimit)
	},
}

var adminNotifyCmd = &cobra.Command{
	Use:   "test-notification [message]",
	Short: "Send yourself a test notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService(env(cmd)).TestNotification(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	adminUsersCmd.Flags().StringVarP(&adminSearch, "search", "s", "", "Filter by name or email")
	adminUsersCmd.Flags().StringVar(&adminStatus, "status", "", "Status: active, banned, unverified")
	adminUsersCmd.Flags().IntVar(&adminPage, "page", 1, "Page number")
	adminVideosCmd.Flags().IntVar(&adminPage, "page", 1, "Page number")

	adminUserCmd.Flags().StringVar(&adminReason, "reason", "", "Reason recorded with the action")
	adminVideoCmd.Flags().StringVar(&adminReason, "reason", "", "Reason recorded with the action")

	adminCmd.PersistentFlags().BoolVarP(&adminForce, "force", "f", false, "Skip confirmation")

	adminLogsCmd.Flags().StringVar(&adminLevel, "level", "", "Minimum level: debug, info, warn, error")
	adminLogsCmd.Flags().StringVar(&adminComponent, "component", "", "Component name")
	adminLogsCmd.Flags().IntVarP(&adminLimit, "limit", "n", 100, "Number of entries")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminUserCmd)
	adminCmd.AddCommand(adminVideosCmd)
	adminCmd.AddCommand(adminVideoCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminHealthCmd)
	adminCmd.AddCommand(adminRestartCmd)
	adminCmd.AddCommand(adminClearCacheCmd)
	adminCmd.AddCommand(adminLogsCmd)
	adminCmd.AddCommand(adminNotifyCmd)
}
