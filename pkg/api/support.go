package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// SupportAPI covers tickets, the FAQ and product feedback
type SupportAPI struct {
	c *client.Client
}

// TicketListOptions filters the ticket listing
type TicketListOptions struct {
	ListOptions
	Status   string
	Priority string
}

// Tickets lists the user's support tickets
func (s *SupportAPI) Tickets(ctx context.Context, opts TicketListOptions) (*Page[Ticket], error) {
	logger.Debug("Fetching tickets", "status", opts.Status)
	return get[Page[Ticket]](ctx, s.c, "/v2/support/tickets/", merge(opts.params(), client.Params{
		"status":   client.NonZero(opts.Status),
		"priority": client.NonZero(opts.Priority),
	}))
}

// Ticket returns one ticket with its messages
func (s *SupportAPI) Ticket(ctx context.Context, id string) (*Ticket, error) {
	logger.Debug("Fetching ticket", "ticket_id", id)
	return get[Ticket](ctx, s.c, fmt.Sprintf("/v2/support/tickets/%s/", url.PathEscape(id)), nil)
}

// CreateTicket opens a ticket
func (s *SupportAPI) CreateTicket(ctx context.Context, req CreateTicketRequest) (*Ticket, error) {
	logger.Debug("Creating ticket", "subject", req.Subject)
	return send[Ticket](ctx, s.c, http.MethodPost, "/v2/support/tickets/", req)
}

// AddMessage replies to a ticket
func (s *SupportAPI) AddMessage(ctx context.Context, ticketID, message string) (*TicketMessage, error) {
	logger.Debug("Adding ticket message", "ticket_id", ticketID)
	return send[TicketMessage](ctx, s.c, http.MethodPost,
		fmt.Sprintf("/v2/support/tickets/%s/messages/", url.PathEscape(ticketID)),
		map[string]string{"message": message})
}

// FAQOptions filters the FAQ
type FAQOptions struct {
	ListOptions
	Category string
	Search   string
}

// FAQs lists FAQ entries
func (s *SupportAPI) FAQs(ctx context.Context, opts FAQOptions) (*Page[FAQ], error) {
	logger.Debug("Fetching FAQs", "category", opts.Category)
	return get[Page[FAQ]](ctx, s.c, "/v2/support/faq/", merge(opts.params(), client.Params{
		"category": client.NonZero(opts.Category),
		"search":   client.NonZero(opts.Search),
	}))
}

// FAQCategories lists FAQ categories
func (s *SupportAPI) FAQCategories(ctx context.Context) (*Page[FAQCategory], error) {
	logger.Debug("Fetching FAQ categories")
	return get[Page[FAQCategory]](ctx, s.c, "/v2/support/faq/categories/", nil)
}

// VoteFAQ records whether an answer helped
func (s *SupportAPI) VoteFAQ(ctx context.Context, faqID string, helpful bool) (*Message, error) {
	logger.Debug("Voting FAQ", "faq_id", faqID, "helpful", helpful)
	return send[Message](ctx, s.c, http.MethodPost,
		fmt.Sprintf("/v2/support/faq/%s/vote/", url.PathEscape(faqID)),
		map[string]bool{"helpful": helpful})
}

// ViewFAQ counts a view of an FAQ entry
func (s *SupportAPI) ViewFAQ(ctx context.Context, faqID string) error {
	logger.Debug("Viewing FAQ", "faq_id", faqID)
	return s.c.Post(ctx, fmt.Sprintf("/v2/support/faq/%s/view/", url.PathEscape(faqID)), nil, nil)
}

// Feedback lists product feedback
func (s *SupportAPI) Feedback(ctx context.Context, opts ListOptions) (*Page[Feedback], error) {
	logger.Debug("Fetching feedback")
	return get[Page[Feedback]](ctx, s.c, "/v2/support/feedback/", opts.params())
}

// SubmitFeedback posts product feedback
func (s *SupportAPI) SubmitFeedback(ctx context.Context, title, description, feedbackType string) (*Feedback, error) {
	logger.Debug("Submitting feedback", "type", feedbackType)
	return send[Feedback](ctx, s.c, http.MethodPost, "/v2/support/feedback/", map[string]string{
		"title":         title,
		"description":   description,
		"feedback_type": feedbackType,
	})
}

// VoteFeedback up- or down-votes feedback
func (s *SupportAPI) VoteFeedback(ctx context.Context, feedbackID string, up bool) (*Message, error) {
	logger.Debug("Voting feedback", "feedback_id", feedbackID, "up", up)
	vote := "down"
	if up {
		vote = "up"
	}
	return send[Message](ctx, s.c, http.MethodPost,
		fmt.Sprintf("/v2/support/feedback/%s/vote/", url.PathEscape(feedbackID)),
		map[string]string{"vote_type": vote})
}

// SearchHelp searches FAQs and help articles
func (s *SupportAPI) SearchHelp(ctx context.Context, query string) (*Page[FAQ], error) {
	logger.Debug("Searching help", "query", query)
	return get[Page[FAQ]](ctx, s.c, "/v2/support/search/", client.Params{"q": query})
}
