package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/service"
)

var (
	ticketCreate api.CreateTicketRequest

	faqCategory string
	faqQuery    string
	faqHelpful  bool

	feedbackDescription string
	feedbackType        string
	feedbackDown        bool
)

var supportCmd = &cobra.Command{
	Use:     "support",
	Aliases: []string{"help-center"},
	Short:   "Help center, tickets and feedback",
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List your support tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).Tickets(cmd.Context())
	},
}

var ticketCmd = &cobra.Command{
	Use:   "ticket <ticket-id>",
	Short: "Show a ticket and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).Ticket(cmd.Context(), args[0])
	},
}

var ticketCreateCmd = &cobra.Command{
	Use:   "open <subject>",
	Short: "Open a support ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := ticketCreate
		req.Subject = args[0]
		return service.NewSupportService(env(cmd)).CreateTicket(cmd.Context(), req)
	},
}

var ticketReplyCmd = &cobra.Command{
	Use:   "reply <ticket-id> [message]",
	Short: "Reply to a ticket",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).Reply(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var faqsCmd = &cobra.Command{
	Use:   "faqs",
	Short: "Browse the FAQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).FAQs(cmd.Context(), faqCategory, faqQuery)
	},
}

var faqCmd = &cobra.Command{
	Use:   "faq <faq-id>",
	Short: "Show an FAQ entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).FAQ(cmd.Context(), args[0])
	},
}

var faqVoteCmd = &cobra.Command{
	Use:   "vote <faq-id>",
	Short: "Rate an FAQ entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).VoteFAQ(cmd.Context(), args[0], faqHelpful)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List FAQ categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).Categories(cmd.Context())
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "List feature requests and feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).Feedback(cmd.Context())
	},
}

var feedbackSubmitCmd = &cobra.Command{
	Use:   "submit <title>",
	Short: "Submit feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).SubmitFeedback(cmd.Context(), args[0], feedbackDescription, feedbackType)
	},
}

var feedbackVoteCmd = &cobra.Command{
	Use:   "vote <feedback-id>",
	Short: "Vote on feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSupportService(env(cmd)).VoteFeedback(cmd.Context(), args[0], !feedbackDown)
	},
}

func init() {
	ticketCreateCmd.Flags().StringVarP(&ticketCreate.Description, "description", "d", "", "Problem description (prompted when omitted)")
	ticketCreateCmd.Flags().StringVar(&ticketCreate.Category, "category", "general", "Category: general, technical, billing, account")
	ticketCreateCmd.Flags().StringVar(&ticketCreate.Priority, "priority", "medium", "Priority: low, medium, high, urgent")

	faqsCmd.Flags().StringVar(&faqCategory, "category", "", "Category ID")
	faqsCmd.Flags().StringVarP(&faqQuery, "query", "q", "", "Search text")
	faqVoteCmd.Flags().BoolVar(&faqHelpful, "helpful", true, "Whether the answer helped")

	feedbackSubmitCmd.Flags().StringVarP(&feedbackDescription, "description", "d", "", "Details")
	feedbackSubmitCmd.Flags().StringVar(&feedbackType, "type", "feature", "Type: feature, improvement, bug")
	feedbackVoteCmd.Flags().BoolVar(&feedbackDown, "down", false, "Vote down instead of up")

	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketReplyCmd)
	faqCmd.AddCommand(faqVoteCmd)
	feedbackCmd.AddCommand(feedbackSubmitCmd)
	feedbackCmd.AddCommand(feedbackVoteCmd)

	supportCmd.AddCommand(ticketsCmd)
	supportCmd.AddCommand(ticketCmd)
	supportCmd.AddCommand(faqsCmd)
	supportCmd.AddCommand(faqCmd)
	supportCmd.AddCommand(categoriesCmd)
	supportCmd.AddCommand(feedbackCmd)
}
