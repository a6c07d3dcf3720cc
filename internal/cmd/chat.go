package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/service"
)

var (
	chatLimit  int
	chatReason string
	chatHours  int
	chatForce  bool

	pollOptions  []string
	pollDuration int

	reactionAt float64
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Party chat, moderation, polls and reactions",
	Long:  "Party chat over HTTP. For a live session use 'watchparty watch <party-id>'.",
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history <party-id>",
	Short: "Show recent chat messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).History(cmd.Context(), args[0], chatLimit)
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <party-id> <message>",
	Short: "Send a chat message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var chatUsersCmd = &cobra.Command{
	Use:   "users <party-id>",
	Short: "List who is in the chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Users(cmd.Context(), args[0])
	},
}

func moderationCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <party-id> <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return service.NewChatService(env(cmd)).Moderate(cmd.Context(), args[0], args[1], action, chatReason, chatHours, chatForce)
		},
	}
}

var (
	chatKickCmd  = moderationCmd("kick", "Remove a user from the chat")
	chatBanCmd   = moderationCmd("ban", "Ban a user from the chat")
	chatUnbanCmd = moderationCmd("unban", "Lift a chat ban")
)

var chatBannedCmd = &cobra.Command{
	Use:   "banned <party-id>",
	Short: "List banned users",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Banned(cmd.Context(), args[0])
	},
}

var chatModerationCmd = &cobra.Command{
	Use:   "moderation <party-id>",
	Short: "Show the moderation log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).ModerationLog(cmd.Context(), args[0])
	},
}

var chatClearCmd = &cobra.Command{
	Use:   "clear <party-id>",
	Short: "Delete every chat message in a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Clear(cmd.Context(), args[0], chatForce)
	},
}

var chatEmojisCmd = &cobra.Command{
	Use:   "emojis",
	Short: "List available reaction emojis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Emojis(cmd.Context())
	},
}

var pollsCmd = &cobra.Command{
	Use:     "polls <party-id>",
	Aliases: []string{"poll"},
	Short:   "List a party's polls",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Polls(cmd.Context(), args[0])
	},
}

var pollCreateCmd = &cobra.Command{
	Use:   "create <party-id> <question>",
	Short: "Start a poll",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.CreatePollRequest{
			Question:        strings.Join(args[1:], " "),
			Options:         pollOptions,
			DurationMinutes: pollDuration,
		}
		return service.NewChatService(env(cmd)).CreatePoll(cmd.Context(), args[0], req)
	},
}

var pollVoteCmd = &cobra.Command{
	Use:   "vote <poll-id> <option-id>",
	Short: "Vote in a poll",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Vote(cmd.Context(), args[0], args[1])
	},
}

var reactCmd = &cobra.Command{
	Use:   "react <party-id> <emoji>",
	Short: "React at a point in the video",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).React(cmd.Context(), args[0], args[1], reactionAt)
	},
}

var reactionsCmd = &cobra.Command{
	Use:   "reactions <party-id>",
	Short: "List reactions in a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewChatService(env(cmd)).Reactions(cmd.Context(), args[0])
	},
}

func init() {
	chatHistoryCmd.Flags().IntVarP(&chatLimit, "limit", "n", 50, "Number of messages")

	for _, c := range []*cobra.Command{chatKickCmd, chatBanCmd, chatUnbanCmd} {
		c.Flags().StringVar(&chatReason, "reason", "", "Reason recorded in the moderation log")
	}
	chatBanCmd.Flags().IntVar(&chatHours, "hours", 0, "Ban duration in hours (0 is permanent)")
	chatCmd.PersistentFlags().BoolVarP(&chatForce, "force", "f", false, "Skip confirmation")

	pollCreateCmd.Flags().StringArrayVar(&pollOptions, "option", nil, "Poll option (repeat for each option)")
	pollCreateCmd.Flags().IntVar(&pollDuration, "duration", 0, "Minutes the poll stays open")

	reactCmd.Flags().Float64Var(&reactionAt, "at", 0, "Video position in seconds")

	pollsCmd.AddCommand(pollCreateCmd)
	pollsCmd.AddCommand(pollVoteCmd)

	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatUsersCmd)
	chatCmd.AddCommand(chatKickCmd)
	chatCmd.AddCommand(chatBanCmd)
	chatCmd.AddCommand(chatUnbanCmd)
	chatCmd.AddCommand(chatBannedCmd)
	chatCmd.AddCommand(chatModerationCmd)
	chatCmd.AddCommand(chatClearCmd)
	chatCmd.AddCommand(chatEmojisCmd)
	chatCmd.AddCommand(pollsCmd)
	chatCmd.AddCommand(reactCmd)
	chatCmd.AddCommand(reactionsCmd)
}
