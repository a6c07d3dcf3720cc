package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/credentials"
	"github.com/watchparty/cli/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

var codec = json.ConfigCompatibleWithStandardLibrary

// Options configures a Client
type Options struct {
	// BackendURL is the absolute origin of the remote API.
	BackendURL string
	// FrontendURL is the absolute base of the same-origin proxy.
	FrontendURL string
	Timeout     time.Duration
	UserAgent   string
	// RateLimit caps requests per second; zero disables the limiter.
	RateLimit   float64
	Credentials credentials.Provider
	Transport   http.RoundTripper
}

// OptionsFromConfig builds Options from the loaded configuration
func OptionsFromConfig() Options {
	return Options{
		BackendURL:  config.BackendURL(),
		FrontendURL: config.FrontendURL(),
		Timeout:     time.Duration(config.GetInt("api.timeout")) * time.Second,
		UserAgent:   config.GetString("api.user_agent"),
		RateLimit:   config.GetFloat("api.rate_limit"),
		Credentials: credentials.NewFileProvider(config.GetCredentialsPath()),
	}
}

// Client is the single request path to the watch party API
type Client struct {
	http     *resty.Client
	backend  string
	frontend string
	creds    credentials.Provider
}

// New creates a client. Requests carry cookies, a JSON content type, a request
// ID and, when the credential provider has one, a bearer token.
func New(opts Options) *Client {
	if opts.Credentials == nil {
		opts.Credentials = credentials.Static("")
	}
	if opts.BackendURL == "" {
		opts.BackendURL = config.DefaultBackendURL
	}
	if opts.FrontendURL == "" {
		opts.FrontendURL = config.ResolveFrontendURL("", "")
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "WatchParty-CLI/0.1.0"
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		backend:  strings.TrimRight(opts.BackendURL, "/"),
		frontend: strings.TrimRight(opts.FrontendURL, "/"),
		creds:    opts.Credentials,
	}

	// resty.New installs a cookie jar, so session cookies ride along.
	h := resty.New()
	h.SetTransport(otelhttp.NewTransport(transport))
	h.SetTimeout(opts.Timeout)
	h.SetHeader("User-Agent", opts.UserAgent)
	h.SetHeader("Content-Type", "application/json")
	h.SetHeader("Accept", "application/json")
	h.SetJSONMarshaler(codec.Marshal)
	h.SetJSONUnmarshaler(codec.Unmarshal)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		h.SetRateLimiter(rate.NewLimiter(rate.Limit(opts.RateLimit), burst))
	}

	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}
		// Caller headers win over the provider.
		if req.Header.Get("Authorization") == "" {
			if token := c.creds.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", req.Header.Get("X-Request-ID"))
		return nil
	})

	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "duration", resp.Time())
		return nil
	})

	c.http = h
	return c
}

// URL resolves an endpoint against the base selected by target. Absolute
// endpoints are returned unchanged.
func (c *Client) URL(target Target, endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if target == Frontend {
		return c.frontend + endpoint
	}
	return c.backend + endpoint
}

// BackendURL returns the remote origin
func (c *Client) BackendURL() string {
	return c.backend
}

// Credentials returns the provider consulted for bearer tokens
func (c *Client) Credentials() credentials.Provider {
	return c.creds
}

// Do performs one request and decodes a successful body into out. out may be
// nil to discard the body. Non-2xx responses and transport failures are
// returned as *APIError and logged with the endpoint.
func (c *Client) Do(ctx context.Context, r Request, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.URL(r.Target, r.Endpoint)
	if q := r.Query.Encode(); q != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + q
	}

	req := c.http.R().SetContext(ctx)
	for k, values := range r.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.SetBody(r.Body)
	}

	resp, err := req.Execute(method, u)
	if err != nil {
		apiErr := transportError(r.Endpoint, err)
		if errors.Is(err, context.Canceled) {
			logger.Debug("API request canceled", "endpoint", r.Endpoint)
		} else {
			logger.Error("API error", "endpoint", r.Endpoint, "error", apiErr.Message)
		}
		return apiErr
	}

	if !resp.IsSuccess() {
		apiErr := responseError(r.Endpoint, resp)
		logger.Error("API error", "endpoint", r.Endpoint, "status", apiErr.Status, "error", apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode() == http.StatusNoContent || len(strings.TrimSpace(string(resp.Body()))) == 0 {
		return nil
	}

	if err := Decode(resp.Body(), out); err != nil {
		apiErr := &APIError{
			Status:     resp.StatusCode(),
			StatusText: statusText(resp),
			Code:       CodeInvalidResponse,
			Message:    err.Error(),
			Endpoint:   r.Endpoint,
			Cause:      err,
		}
		logger.Error("API error", "endpoint", r.Endpoint, "error", apiErr.Message)
		return apiErr
	}
	return nil
}

// Fetch performs a request and returns the decoded body
func Fetch[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var out T
	err := c.Do(ctx, r, &out)
	return out, err
}

// Get issues a GET against the backend
func (c *Client) Get(ctx context.Context, endpoint string, query Params, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Query: query}, out)
}

// Post issues a POST with a JSON body against the backend
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body}, out)
}

// Put issues a PUT with a JSON body against the backend
func (c *Client) Put(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Endpoint: endpoint, Body: body}, out)
}

// Patch issues a PATCH with a JSON body against the backend
func (c *Client) Patch(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Endpoint: endpoint, Body: body}, out)
}

// Delete issues a DELETE against the backend
func (c *Client) Delete(ctx context.Context, endpoint string, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Endpoint: endpoint}, out)
}

var httpClient *Client

// Init initializes the default client from configuration
func Init() {
	httpClient = New(OptionsFromConfig())
}

// GetClient returns the default client
func GetClient() *Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}

// SetClient replaces the default client
func SetClient(c *Client) {
	httpClient = c
}
