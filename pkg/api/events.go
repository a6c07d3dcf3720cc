package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// EventsAPI covers community events
type EventsAPI struct {
	c *client.Client
}

// EventListOptions filters the event listing
type EventListOptions struct {
	ListOptions
	Status string
	Search string
}

func eventPath(id, rest string) string {
	return fmt.Sprintf("/api/events/%s/%s", url.PathEscape(id), rest)
}

// List returns upcoming and ongoing events
func (e *EventsAPI) List(ctx context.Context, opts EventListOptions) (*Page[Event], error) {
	logger.Debug("Fetching events", "status", opts.Status)
	return get[Page[Event]](ctx, e.c, "/api/events/", merge(opts.params(), client.Params{
		"status": client.NonZero(opts.Status),
		"search": client.NonZero(opts.Search),
	}))
}

// Get returns one event
func (e *EventsAPI) Get(ctx context.Context, id string) (*Event, error) {
	logger.Debug("Fetching event", "event_id", id)
	return get[Event](ctx, e.c, eventPath(id, ""), nil)
}

// Create schedules an event
func (e *EventsAPI) Create(ctx context.Context, req CreateEventRequest) (*Event, error) {
	logger.Debug("Creating event", "title", req.Title)
	return send[Event](ctx, e.c, http.MethodPost, "/api/events/", req)
}

// Join registers attendance
func (e *EventsAPI) Join(ctx context.Context, id string) (*Message, error) {
	logger.Debug("Joining event", "event_id", id)
	return send[Message](ctx, e.c, http.MethodPost, eventPath(id, "join/"), nil)
}

// Leave withdraws attendance
func (e *EventsAPI) Leave(ctx context.Context, id string) (*Message, error) {
	logger.Debug("Leaving event", "event_id", id)
	return send[Message](ctx, e.c, http.MethodPost, eventPath(id, "leave/"), nil)
}
