package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
)

// SupportService covers tickets, the FAQ and product feedback
type SupportService struct {
	env *Env
}

// NewSupportService creates a new support service
func NewSupportService(env *Env) *SupportService {
	return &SupportService{env: env}
}

func (s *SupportService) page(ctx context.Context) (*controller.Scope, *controller.Support, error) {
	scope := controller.NewScope(ctx)
	support := controller.NewSupport(scope, s.env.API)
	if err := s.env.call(ctx, func(context.Context) error { return support.Load() }); err != nil {
		scope.Unmount()
		return nil, nil, fmt.Errorf("failed to load support: %w", err)
	}
	return scope, support, nil
}

// Tickets lists the user's tickets
func (s *SupportService) Tickets(ctx context.Context) error {
	scope, support, err := s.page(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	tickets := support.Data().Data.Tickets
	return s.env.Out.PrintList("Tickets", tickets, formatter.Tickets(tickets), "No support tickets.")
}

// Ticket shows one ticket and its conversation
func (s *SupportService) Ticket(ctx context.Context, id string) error {
	var ticket *api.Ticket
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.env.API.Support.Ticket(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}

	if err := s.env.Out.PrintRecord(ticket.Subject, ticket, []output.Field{
		{Key: "ID", Value: string(ticket.ID)},
		{Key: "Status", Value: ticket.Status},
		{Key: "Priority", Value: ticket.Priority},
		{Key: "Category", Value: ticket.Category},
		{Key: "Opened", Value: formatter.Timestamp(ticket.CreatedAt)},
	}); err != nil {
		return err
	}
	if s.env.Out.Format == output.FormatJSON {
		return nil
	}
	for _, m := range ticket.Messages {
		who := formatter.UserName(m.Author)
		if m.IsStaff {
			who += " (support)"
		}
		fmt.Fprintf(s.env.Out.Out, "\n%s, %s\n%s\n", who, formatter.Timestamp(m.CreatedAt), m.Message)
	}
	return nil
}

// CreateTicket opens a ticket. A blank description is read from the
// prompt.
func (s *SupportService) CreateTicket(ctx context.Context, req api.CreateTicketRequest) error {
	if strings.TrimSpace(req.Description) == "" {
		desc, err := s.env.Prompt.Multiline("Describe the problem", 50)
		if err != nil {
			return err
		}
		req.Description = desc
	}

	scope, support, err := s.page(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	var ticket *api.Ticket
	err = s.env.call(ctx, func(context.Context) error {
		var err error
		ticket, err = support.CreateTicket(req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	s.env.Out.Success("Ticket %s opened. We'll get back to you soon.", ticket.ID)
	return nil
}

// Reply adds a message to a ticket
func (s *SupportService) Reply(ctx context.Context, ticketID, message string) error {
	if strings.TrimSpace(message) == "" {
		var err error
		if message, err = s.env.Prompt.Multiline("Message", 50); err != nil {
			return err
		}
	}

	scope, support, err := s.page(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	if err := s.env.call(ctx, func(context.Context) error { return support.AddMessage(ticketID, message) }); err != nil {
		return fmt.Errorf("failed to reply: %w", err)
	}
	s.env.Out.Success("Reply sent.")
	return nil
}

// FAQs lists FAQ entries, optionally within a category or matching query
func (s *SupportService) FAQs(ctx context.Context, category, query string) error {
	var page *api.Page[api.FAQ]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		if strings.TrimSpace(query) != "" && category == "" {
			page, err = s.env.API.Support.SearchHelp(ctx, query)
		} else {
			page, err = s.env.API.Support.FAQs(ctx, api.FAQOptions{Category: category, Search: query})
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list FAQs: %w", err)
	}
	return s.env.Out.PrintList("FAQ", page.Results, formatter.FAQs(page.Results), "No FAQ entries found.")
}

// FAQ shows one entry and counts the view
func (s *SupportService) FAQ(ctx context.Context, id string) error {
	var page *api.Page[api.FAQ]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Support.FAQs(ctx, api.FAQOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get FAQ: %w", err)
	}

	for _, f := range page.Results {
		if string(f.ID) != id {
			continue
		}
		_ = s.env.API.Support.ViewFAQ(ctx, id)
		if s.env.Out.Format == output.FormatJSON {
			return s.env.Out.JSON(f)
		}
		fmt.Fprintf(s.env.Out.Out, "%s\n\n%s\n", f.Question, f.Answer)
		return nil
	}
	return clierrors.NotFoundError("FAQ", id)
}

// Categories lists FAQ categories
func (s *SupportService) Categories(ctx context.Context) error {
	var page *api.Page[api.FAQCategory]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Support.FAQCategories(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	t := output.Table{Headers: []string{"SLUG", "NAME", "ENTRIES"}}
	for _, c := range page.Results {
		t.Rows = append(t.Rows, []string{c.Slug, c.Name, fmt.Sprint(c.Count)})
	}
	return s.env.Out.PrintList("Categories", page.Results, t, "No categories.")
}

// VoteFAQ records whether an entry helped
func (s *SupportService) VoteFAQ(ctx context.Context, id string, helpful bool) error {
	scope, support, err := s.page(ctx)
	if err != nil {
		return err
	}
	defer scope.Unmount()

	if err := s.env.call(ctx, func(context.Context) error { return support.VoteFAQ(id, helpful) }); err != nil {
		return fmt.Errorf("failed to vote: %w", err)
	}
	s.env.Out.Success("Thanks for your feedback!")
	return nil
}

// Feedback lists product feedback
func (s *SupportService) Feedback(ctx context.Context) error {
	var page *api.Page[api.Feedback]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Support.Feedback(ctx, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	t := output.Table{Headers: []string{"ID", "TITLE", "TYPE", "STATUS", "VOTES"}}
	for _, f := range page.Results {
		t.Rows = append(t.Rows, []string{string(f.ID), formatter.Truncate(f.Title, 48), f.Type, f.Status, fmt.Sprint(f.Votes)})
	}
	return s.env.Out.PrintList("Feedback", page.Results, t, "No feedback yet.")
}

// SubmitFeedback posts feedback of type bug, feature or general
func (s *SupportService) SubmitFeedback(ctx context.Context, title, description, feedbackType string) error {
	if strings.TrimSpace(title) == "" {
		return clierrors.ValidationError("title", "is required")
	}
	switch feedbackType {
	case "":
		feedbackType = "general"
	case "bug", "feature", "general":
	default:
		return clierrors.ValidationError("type", "must be one of bug, feature, general")
	}

	var fb *api.Feedback
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		fb, err = s.env.API.Support.SubmitFeedback(ctx, title, description, feedbackType)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}
	s.env.Out.Success("Feedback %s submitted.", fb.ID)
	return nil
}

// VoteFeedback up- or down-votes feedback
func (s *SupportService) VoteFeedback(ctx context.Context, id string, up bool) error {
	err := s.env.call(ctx, func(ctx context.Context) error {
		_, err := s.env.API.Support.VoteFeedback(ctx, id, up)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to vote: %w", err)
	}
	s.env.Out.Success("Vote recorded.")
	return nil
}
