package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/service"
)

var (
	partyList service.PartyListParams

	partyCreate     api.CreatePartyRequest
	partyVisibility string
	partyQuick      bool

	partyJoinCode   string
	partyJoinInvite string

	partyForce bool

	partyInviteUser    string
	partyInviteMessage string
	partyInviteHours   int

	partyLimit int

	partyReportReason      string
	partyReportDescription string

	partyGuestName string
)

var partiesCmd = &cobra.Command{
	Use:     "parties",
	Aliases: []string{"party", "p"},
	Short:   "Watch party commands",
	Long:    "Browse, host and join watch parties",
}

var partiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parties",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).List(cmd.Context(), partyList)
	},
}

var partiesShowCmd = &cobra.Command{
	Use:   "show <party-id>",
	Short: "Show a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Show(cmd.Context(), args[0])
	},
}

var partiesCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewPartyService(env(cmd))
		if partyQuick {
			return svc.QuickCreate(cmd.Context(), args[0])
		}
		req := partyCreate
		req.Title = args[0]
		req.Visibility = api.Visibility(partyVisibility)
		return svc.Create(cmd.Context(), req)
	},
}

var partiesJoinCmd = &cobra.Command{
	Use:   "join [party-id]",
	Short: "Join a party by ID, room code or invite code",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return service.NewPartyService(env(cmd)).Join(cmd.Context(), id, partyJoinCode, partyJoinInvite)
	},
}

var partiesLeaveCmd = &cobra.Command{
	Use:   "leave <party-id>",
	Short: "Leave a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Leave(cmd.Context(), args[0])
	},
}

var partiesDeleteCmd = &cobra.Command{
	Use:   "delete <party-id>",
	Short: "Delete a party you host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Delete(cmd.Context(), args[0], partyForce)
	},
}

var partiesStartCmd = &cobra.Command{
	Use:   "start <party-id>",
	Short: "Start a scheduled party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Start(cmd.Context(), args[0])
	},
}

var partiesControlCmd = &cobra.Command{
	Use:       "control <party-id> <play|pause|seek|stop> [seconds]",
	Short:     "Control playback as host",
	Args:      cobra.RangeArgs(2, 3),
	ValidArgs: []string{"play", "pause", "seek", "stop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		position := -1.0
		if len(args) == 3 {
			v, err := strconv.ParseFloat(args[2], 64)
			if err != nil || v < 0 {
				return clierrors.ValidationError("seconds", "must be a non-negative number")
			}
			position = v
		} else if args[1] == "seek" {
			return clierrors.ValidationError("seconds", "seek needs a position")
		}
		return service.NewPartyService(env(cmd)).Control(cmd.Context(), args[0], args[1], position)
	},
}

var partiesSyncCmd = &cobra.Command{
	Use:   "sync <party-id>",
	Short: "Show the party's playback position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Sync(cmd.Context(), args[0])
	},
}

var partiesVideoCmd = &cobra.Command{
	Use:   "set-video <party-id> <video-id>",
	Short: "Choose the video a party watches",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).SelectVideo(cmd.Context(), args[0], args[1])
	},
}

var partiesParticipantsCmd = &cobra.Command{
	Use:   "participants <party-id>",
	Short: "List who is in a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Participants(cmd.Context(), args[0])
	},
}

var partiesInviteCmd = &cobra.Command{
	Use:   "invite <party-id>",
	Short: "Invite a user, or create a shareable invite link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Invite(cmd.Context(), args[0], partyInviteUser, partyInviteMessage, partyInviteHours)
	},
}

var partiesInvitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "List invitations you received",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Invitations(cmd.Context())
	},
}

var partiesAcceptCmd = &cobra.Command{
	Use:   "accept <invitation-id>",
	Short: "Accept an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).RespondInvitation(cmd.Context(), args[0], true)
	},
}

var partiesDeclineCmd = &cobra.Command{
	Use:   "decline <invitation-id>",
	Short: "Decline an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).RespondInvitation(cmd.Context(), args[0], false)
	},
}

var partiesRecommendedCmd = &cobra.Command{
	Use:   "recommended",
	Short: "Parties suggested for you",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Recommended(cmd.Context(), partyLimit)
	},
}

var partiesAnalyticsCmd = &cobra.Command{
	Use:   "analytics <party-id>",
	Short: "Show a party's analytics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Analytics(cmd.Context(), args[0])
	},
}

var partiesReportCmd = &cobra.Command{
	Use:   "report <party-id>",
	Short: "Report a party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Report(cmd.Context(), args[0], partyReportReason, partyReportDescription)
	},
}

var partiesPublicCmd = &cobra.Command{
	Use:   "public <room-code>",
	Short: "Show a public party without logging in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).Public(cmd.Context(), args[0])
	},
}

var partiesGuestCmd = &cobra.Command{
	Use:   "guest <room-code>",
	Short: "Join a public party as a guest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPartyService(env(cmd)).GuestJoin(cmd.Context(), args[0], partyGuestName)
	},
}

func init() {
	partiesListCmd.Flags().StringVarP(&partyList.Filter, "filter", "f", "all", "Filter: all, public, recent, trending")
	partiesListCmd.Flags().StringVarP(&partyList.Search, "search", "s", "", "Search by title, description or host")
	partiesListCmd.Flags().StringVar(&partyList.Sort, "sort", "recent", "Sort: recent, popular, scheduled, name")

	partiesCreateCmd.Flags().StringVarP(&partyCreate.Description, "description", "d", "", "Description")
	partiesCreateCmd.Flags().StringVar(&partyCreate.VideoID, "video", "", "Video ID to watch")
	partiesCreateCmd.Flags().StringVar(&partyVisibility, "visibility", "public", "Visibility: public, friends, private")
	partiesCreateCmd.Flags().IntVar(&partyCreate.MaxParticipants, "max", 0, "Maximum participants")
	partiesCreateCmd.Flags().StringVar(&partyCreate.ScheduledStart, "scheduled", "", "Scheduled start (RFC 3339)")
	partiesCreateCmd.Flags().BoolVar(&partyQuick, "quick", false, "Create a public party from just a title")

	partiesJoinCmd.Flags().StringVar(&partyJoinCode, "code", "", "Room code")
	partiesJoinCmd.Flags().StringVar(&partyJoinInvite, "invite", "", "Invite code")

	partiesDeleteCmd.Flags().BoolVarP(&partyForce, "force", "f", false, "Skip confirmation")

	partiesInviteCmd.Flags().StringVar(&partyInviteUser, "user", "", "User ID to invite (omit for an invite link)")
	partiesInviteCmd.Flags().StringVarP(&partyInviteMessage, "message", "m", "", "Message for the invitee")
	partiesInviteCmd.Flags().IntVar(&partyInviteHours, "expires", 24, "Invite link lifetime in hours")

	partiesRecommendedCmd.Flags().IntVar(&partyLimit, "limit", 10, "Number of parties")

	partiesReportCmd.Flags().StringVar(&partyReportReason, "reason", "", "Reason: spam, inappropriate, harassment, other")
	partiesReportCmd.Flags().StringVarP(&partyReportDescription, "description", "d", "", "Details")

	partiesGuestCmd.Flags().StringVar(&partyGuestName, "name", "", "Display name")

	partiesCmd.AddCommand(partiesListCmd)
	partiesCmd.AddCommand(partiesShowCmd)
	partiesCmd.AddCommand(partiesCreateCmd)
	partiesCmd.AddCommand(partiesJoinCmd)
	partiesCmd.AddCommand(partiesLeaveCmd)
	partiesCmd.AddCommand(partiesDeleteCmd)
	partiesCmd.AddCommand(partiesStartCmd)
	partiesCmd.AddCommand(partiesControlCmd)
	partiesCmd.AddCommand(partiesSyncCmd)
	partiesCmd.AddCommand(partiesVideoCmd)
	partiesCmd.AddCommand(partiesParticipantsCmd)
	partiesCmd.AddCommand(partiesInviteCmd)
	partiesCmd.AddCommand(partiesInvitationsCmd)
	partiesCmd.AddCommand(partiesAcceptCmd)
	partiesCmd.AddCommand(partiesDeclineCmd)
	partiesCmd.AddCommand(partiesRecommendedCmd)
	partiesCmd.AddCommand(partiesAnalyticsCmd)
	partiesCmd.AddCommand(partiesReportCmd)
	partiesCmd.AddCommand(partiesPublicCmd)
	partiesCmd.AddCommand(partiesGuestCmd)
}
