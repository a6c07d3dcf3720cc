package controller

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/state"
)

// SupportData is the user's tickets and the FAQ
type SupportData struct {
	Tickets []api.Ticket
	FAQs    []api.FAQ
}

// Support manages tickets and FAQ votes
type Support struct {
	scope *Scope
	api   *api.API

	data state.Resource[SupportData]
}

// NewSupport binds the support page to scope
func NewSupport(scope *Scope, a *api.API) *Support {
	return &Support{scope: scope, api: a}
}

// Mount loads tickets and FAQs
func (s *Support) Mount() error {
	return s.Load()
}

// Load fetches tickets and FAQs together
func (s *Support) Load() error {
	return track(s.scope.Context(), &s.data, func(ctx context.Context) (SupportData, error) {
		var data SupportData
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			page, err := s.api.Support.Tickets(gctx, api.TicketListOptions{})
			if err != nil {
				return err
			}
			data.Tickets = page.Results
			return nil
		})
		g.Go(func() error {
			page, err := s.api.Support.FAQs(gctx, api.FAQOptions{})
			if err != nil {
				return err
			}
			data.FAQs = page.Results
			return nil
		})

		if err := g.Wait(); err != nil {
			logger.Error("Failed to load support data", "error", err)
			return SupportData{}, err
		}
		return data, nil
	})
}

// CreateTicket opens a ticket and reloads
func (s *Support) CreateTicket(req api.CreateTicketRequest) (*api.Ticket, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, clierrors.ValidationError("subject", "is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, clierrors.ValidationError("description", "is required")
	}

	var ticket *api.Ticket
	err := s.mutate(func(ctx context.Context) error {
		var err error
		ticket, err = s.api.Support.CreateTicket(ctx, req)
		return err
	})
	return ticket, err
}

// AddMessage replies on a ticket and reloads
func (s *Support) AddMessage(ticketID, message string) error {
	if strings.TrimSpace(message) == "" {
		return clierrors.ValidationError("message", "is required")
	}
	return s.mutate(func(ctx context.Context) error {
		_, err := s.api.Support.AddMessage(ctx, ticketID, message)
		return err
	})
}

// VoteFAQ records whether an FAQ entry helped and reloads
func (s *Support) VoteFAQ(faqID string, helpful bool) error {
	return s.mutate(func(ctx context.Context) error {
		_, err := s.api.Support.VoteFAQ(ctx, faqID, helpful)
		return err
	})
}

func (s *Support) mutate(fn func(ctx context.Context) error) error {
	ctx := s.scope.Context()
	if ctx.Err() != nil {
		return ErrUnmounted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	_ = s.Load()
	return nil
}

// Data returns the support state
func (s *Support) Data() state.Snapshot[SupportData] {
	return s.data.Snapshot()
}
