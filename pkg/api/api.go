// Package api exposes the watch party REST surface as one typed module per
// domain. Every method takes a context, builds its query or body, and
// decodes into a declared, validated type.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/logger"
)

// API groups every domain module over one client. The embedded client
// provides untyped verb shortcuts for endpoints without a module.
type API struct {
	*client.Client

	Auth          *AuthAPI
	Parties       *PartiesAPI
	Videos        *VideosAPI
	Chat          *ChatAPI
	Users         *UsersAPI
	Analytics     *AnalyticsAPI
	Admin         *AdminAPI
	Billing       *BillingAPI
	Store         *StoreAPI
	Interactive   *InteractiveAPI
	Search        *SearchAPI
	Support       *SupportAPI
	Notifications *NotificationsAPI
	Integrations  *IntegrationsAPI
	Events        *EventsAPI
	Social        *SocialAPI
	Messaging     *MessagingAPI
	Dashboard     *DashboardAPI
}

// New builds the aggregate over c. policy governs the endpoints that may
// serve degraded data.
func New(c *client.Client, policy degraded.Policy) *API {
	return &API{
		Client:        c,
		Auth:          &AuthAPI{c: c},
		Parties:       &PartiesAPI{c: c},
		Videos:        &VideosAPI{c: c},
		Chat:          &ChatAPI{c: c},
		Users:         &UsersAPI{c: c},
		Analytics:     &AnalyticsAPI{c: c},
		Admin:         &AdminAPI{c: c},
		Billing:       &BillingAPI{c: c},
		Store:         &StoreAPI{c: c},
		Interactive:   &InteractiveAPI{c: c},
		Search:        &SearchAPI{c: c},
		Support:       &SupportAPI{c: c},
		Notifications: &NotificationsAPI{c: c, policy: policy},
		Integrations:  &IntegrationsAPI{c: c, policy: policy},
		Events:        &EventsAPI{c: c},
		Social:        &SocialAPI{c: c},
		Messaging:     &MessagingAPI{c: c},
		Dashboard:     &DashboardAPI{c: c},
	}
}

// NewFromConfig builds the aggregate over the default client with the
// configured degraded-mode policy. A configured but unreachable Redis falls
// back to the in-memory cache.
func NewFromConfig(ctx context.Context) *API {
	return New(client.GetClient(), PolicyFromConfig(ctx))
}

// PolicyFromConfig reads degraded.enabled, cache.redis_url and cache.ttl
func PolicyFromConfig(ctx context.Context) degraded.Policy {
	policy := degraded.Policy{
		Disabled: !config.GetBool("degraded.enabled"),
		TTL:      config.GetDuration("cache.ttl"),
	}
	if policy.Disabled {
		return policy
	}

	if url := config.GetString("cache.redis_url"); url != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		cache, err := degraded.NewRedis(pingCtx, url)
		if err == nil {
			policy.Cache = cache
			return policy
		}
		logger.Warn("Redis cache unavailable, using memory", "error", err)
	}
	policy.Cache = degraded.NewMemory()
	return policy
}

// ListOptions are the pagination parameters accepted by every list endpoint
type ListOptions struct {
	Page     int
	PageSize int
}

func (o ListOptions) params() client.Params {
	return client.Params{
		"page":      client.NonZero(o.Page),
		"page_size": client.NonZero(o.PageSize),
	}
}

func get[T any](ctx context.Context, c *client.Client, endpoint string, query client.Params) (*T, error) {
	return do[T](ctx, c, client.Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
}

func send[T any](ctx context.Context, c *client.Client, method, endpoint string, body interface{}) (*T, error) {
	return do[T](ctx, c, client.Request{Method: method, Endpoint: endpoint, Body: body})
}

func do[T any](ctx context.Context, c *client.Client, r client.Request) (*T, error) {
	var out T
	if err := c.Do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// merge copies extra into base, overwriting duplicate keys
func merge(base client.Params, extra client.Params) client.Params {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
