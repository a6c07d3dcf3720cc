package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
)

// EventService lists and manages scheduled community events
type EventService struct {
	env *Env
}

// NewEventService creates a new event service
func NewEventService(env *Env) *EventService {
	return &EventService{env: env}
}

// List shows events, optionally filtered by status or text
func (s *EventService) List(ctx context.Context, status, search string) error {
	var page *api.Page[api.Event]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Events.List(ctx, api.EventListOptions{Status: status, Search: search})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	return s.env.Out.PrintList("Events", page.Results, formatter.Events(page.Results), "No upcoming events.")
}

// Show prints one event
func (s *EventService) Show(ctx context.Context, id string) error {
	var ev *api.Event
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		ev, err = s.env.API.Events.Get(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	attendees := fmt.Sprint(ev.AttendeeCount)
	if ev.MaxAttendees > 0 {
		attendees = fmt.Sprintf("%d/%d", ev.AttendeeCount, ev.MaxAttendees)
	}
	return s.env.Out.PrintRecord(ev.Title, ev, []output.Field{
		{Key: "ID", Value: string(ev.ID)},
		{Key: "Status", Value: ev.Status},
		{Key: "Starts", Value: formatter.Timestamp(ev.StartTime)},
		{Key: "Ends", Value: formatter.Timestamp(ev.EndTime)},
		{Key: "Location", Value: ev.Location},
		{Key: "Organizer", Value: formatter.UserName(ev.Organizer)},
		{Key: "Attendees", Value: attendees},
		{Key: "Going", Value: ev.IsAttending},
		{Key: "Description", Value: ev.Description},
	})
}

// Create schedules an event. Start and end times must be RFC 3339.
func (s *EventService) Create(ctx context.Context, req api.CreateEventRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return clierrors.ValidationError("title", "is required")
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return clierrors.ValidationError("start", "must be an RFC 3339 time such as 2025-06-01T20:00:00Z")
	}
	if req.EndTime != "" {
		end, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return clierrors.ValidationError("end", "must be an RFC 3339 time")
		}
		if !end.After(start) {
			return clierrors.ValidationError("end", "must be after the start")
		}
	}

	var ev *api.Event
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		ev, err = s.env.API.Events.Create(ctx, req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	s.env.Out.Success("Event created: %s (%s)", ev.Title, ev.ID)
	return nil
}

// RSVP joins or leaves an event
func (s *EventService) RSVP(ctx context.Context, id string, going bool) error {
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		if going {
			msg, err = s.env.API.Events.Join(ctx, id)
		} else {
			msg, err = s.env.API.Events.Leave(ctx, id)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update RSVP: %w", err)
	}
	if going {
		s.env.Out.Success("%s", messageOr(msg, "You're going."))
	} else {
		s.env.Out.Success("%s", messageOr(msg, "You're no longer attending."))
	}
	return nil
}
