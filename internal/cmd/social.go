package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/service"
)

var (
	groupCreate   api.CreateGroupRequest
	friendMessage string
	socialForce   bool
	socialLimit   int
)

var socialCmd = &cobra.Command{
	Use:     "social",
	Aliases: []string{"friends"},
	Short:   "Friends and groups",
}

var groupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"group"},
	Short:   "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Groups(cmd.Context())
	},
}

var groupsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search groups",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).SearchGroups(cmd.Context(), strings.Join(args, " "))
	},
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := groupCreate
		req.Name = args[0]
		return service.NewSocialService(env(cmd)).CreateGroup(cmd.Context(), req)
	},
}

var groupsJoinCmd = &cobra.Command{
	Use:   "join <group-id>",
	Short: "Join a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).JoinGroup(cmd.Context(), args[0])
	},
}

var groupsLeaveCmd = &cobra.Command{
	Use:   "leave <group-id>",
	Short: "Leave a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).LeaveGroup(cmd.Context(), args[0])
	},
}

var friendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your friends",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Friends(cmd.Context())
	},
}

var friendRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List pending friend requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Requests(cmd.Context())
	},
}

var friendAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Send a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).AddFriend(cmd.Context(), args[0], friendMessage)
	},
}

var friendAcceptCmd = &cobra.Command{
	Use:   "accept <request-id>",
	Short: "Accept a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Respond(cmd.Context(), args[0], true)
	},
}

var friendDeclineCmd = &cobra.Command{
	Use:   "decline <request-id>",
	Short: "Decline a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Respond(cmd.Context(), args[0], false)
	},
}

var friendRemoveCmd = &cobra.Command{
	Use:   "remove <user-id>",
	Short: "Remove a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).RemoveFriend(cmd.Context(), args[0], socialForce)
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <user-id>",
	Short: "Block a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Block(cmd.Context(), args[0], socialForce)
	},
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "People you may know",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).Suggestions(cmd.Context(), socialLimit)
	},
}

var usersSearchCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).SearchUsers(cmd.Context(), strings.Join(args, " "))
	},
}

var userCmd = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Show a user's public profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService(env(cmd)).User(cmd.Context(), args[0])
	},
}

func init() {
	groupsCreateCmd.Flags().StringVarP(&groupCreate.Description, "description", "d", "", "Description")
	groupsCreateCmd.Flags().BoolVar(&groupCreate.IsPublic, "public", true, "Anyone can join")
	groupsCreateCmd.Flags().StringVar(&groupCreate.Category, "category", "", "Category")

	friendAddCmd.Flags().StringVarP(&friendMessage, "message", "m", "", "Message with the request")
	socialCmd.PersistentFlags().BoolVarP(&socialForce, "force", "f", false, "Skip confirmation")
	suggestionsCmd.Flags().IntVar(&socialLimit, "limit", 10, "Number of suggestions")

	groupsCmd.AddCommand(groupsSearchCmd)
	groupsCmd.AddCommand(groupsCreateCmd)
	groupsCmd.AddCommand(groupsJoinCmd)
	groupsCmd.AddCommand(groupsLeaveCmd)

	socialCmd.AddCommand(groupsCmd)
	socialCmd.AddCommand(friendsListCmd)
	socialCmd.AddCommand(friendRequestsCmd)
	socialCmd.AddCommand(friendAddCmd)
	socialCmd.AddCommand(friendAcceptCmd)
	socialCmd.AddCommand(friendDeclineCmd)
	socialCmd.AddCommand(friendRemoveCmd)
	socialCmd.AddCommand(blockCmd)
	socialCmd.AddCommand(suggestionsCmd)
	socialCmd.AddCommand(usersSearchCmd)
	socialCmd.AddCommand(userCmd)
}
