package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/service"
)

var (
	eventStatus string
	eventSearch string
	eventCreate api.CreateEventRequest
	eventNo     bool
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Scheduled community events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewEventService(env(cmd)).List(cmd.Context(), eventStatus, eventSearch)
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewEventService(env(cmd)).Show(cmd.Context(), args[0])
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := eventCreate
		req.Title = args[0]
		return service.NewEventService(env(cmd)).Create(cmd.Context(), req)
	},
}

var eventsRSVPCmd = &cobra.Command{
	Use:   "rsvp <event-id>",
	Short: "Attend an event, or withdraw with --no",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewEventService(env(cmd)).RSVP(cmd.Context(), args[0], !eventNo)
	},
}

func init() {
	eventsListCmd.Flags().StringVar(&eventStatus, "status", "", "Status: upcoming, live, past")
	eventsListCmd.Flags().StringVarP(&eventSearch, "search", "s", "", "Search text")

	eventsCreateCmd.Flags().StringVarP(&eventCreate.Description, "description", "d", "", "Description")
	eventsCreateCmd.Flags().StringVar(&eventCreate.StartTime, "start", "", "Start time (RFC 3339)")
	eventsCreateCmd.Flags().StringVar(&eventCreate.EndTime, "end", "", "End time (RFC 3339)")
	eventsCreateCmd.Flags().StringVar(&eventCreate.Location, "location", "", "Location or link")
	eventsCreateCmd.Flags().IntVar(&eventCreate.MaxAttendees, "max", 0, "Maximum attendees")

	eventsRSVPCmd.Flags().BoolVar(&eventNo, "no", false, "Withdraw your RSVP")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsRSVPCmd)
}
