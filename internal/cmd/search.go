package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var searchType string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search parties, videos and users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSearchService(env(cmd)).Search(cmd.Context(), strings.Join(args, " "), searchType)
	},
}

var searchSuggestCmd = &cobra.Command{
	Use:   "suggest <partial>",
	Short: "Show search suggestions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSearchService(env(cmd)).Suggest(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "all", "Result type: all, parties, videos, users")
	searchCmd.AddCommand(searchSuggestCmd)
}
