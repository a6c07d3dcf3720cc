package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch <party-id>",
	Short: "Join a party's live session",
	Long: `Connect to a party's realtime channel. Events print as they arrive;
type a line to chat, or /help for playback commands.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewWatchService(env(cmd), nil, cmd.InOrStdin()).Run(cmd.Context(), args[0])
	},
}
