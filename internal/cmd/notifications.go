package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var (
	notificationsUnread bool
	notificationsForce  bool
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif", "n"},
	Short:   "Notification commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).List(cmd.Context(), notificationsUnread)
	},
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).List(cmd.Context(), notificationsUnread)
	},
}

var notificationsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many notifications are unread",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).UnreadCount(cmd.Context())
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).MarkRead(cmd.Context(), args[0])
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).MarkAllRead(cmd.Context(), notificationsForce)
	},
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <notification-id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).Delete(cmd.Context(), args[0])
	},
}

var notificationsSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show notification settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).Settings(cmd.Context())
	},
}

var notificationsSettingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change notification settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).EditSettings(cmd.Context())
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print notifications as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env(cmd)).Watch(cmd.Context())
	},
}

func init() {
	notificationsCmd.PersistentFlags().BoolVarP(&notificationsUnread, "unread", "u", false, "Only unread notifications")
	notificationsReadAllCmd.Flags().BoolVarP(&notificationsForce, "force", "f", false, "Skip confirmation")

	notificationsSettingsCmd.AddCommand(notificationsSettingsEditCmd)

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsCountCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsDeleteCmd)
	notificationsCmd.AddCommand(notificationsSettingsCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
}
