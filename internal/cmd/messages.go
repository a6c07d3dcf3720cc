package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var messagesPage int

var messagesCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"dm", "inbox"},
	Short:   "Direct messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessagingService(env(cmd)).Conversations(cmd.Context(), messagesPage)
	},
}

var messagesReadCmd = &cobra.Command{
	Use:   "read <conversation-id>",
	Short: "Show a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessagingService(env(cmd)).Read(cmd.Context(), args[0])
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <conversation-id> [message]",
	Short: "Send a message (prompted when omitted)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessagingService(env(cmd)).Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	messagesListCmd.Flags().IntVar(&messagesPage, "page", 1, "Page number")

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesReadCmd)
	messagesCmd.AddCommand(messagesSendCmd)
}
