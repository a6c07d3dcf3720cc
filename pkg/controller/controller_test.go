package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/credentials"
	"github.com/watchparty/cli/pkg/degraded"
)

var fixedNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

type route struct {
	status int
	body   string
}

type request struct {
	Query string
	Body  string
}

// fakeBackend serves canned responses keyed by "METHOD /path" and counts
// every request it receives
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]route
	hits   map[string]int
	last   map[string]request
	total  int
	srv    *httptest.Server

	// requests the client sent, counted before they reach the server
	sent      map[string]int
	sentTotal int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{
		routes: make(map[string]route),
		hits:   make(map[string]int),
		last:   make(map[string]request),
		sent:   make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.total++
	f.hits[key]++
	f.last[key] = request{Query: r.URL.RawQuery, Body: string(body)}
	rt, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		rt = route{status: http.StatusNotFound, body: `{"detail":"Not found."}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rt.status)
	_, _ = io.WriteString(w, rt.body)
}

func (f *fakeBackend) handle(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = route{status: status, body: body}
}

func (f *fakeBackend) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[method+" "+path]
}

func (f *fakeBackend) lastRequest(method, path string) request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[method+" "+path]
}

func (f *fakeBackend) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// sentCount is the number of requests the client issued for path, or for
// every path when path is empty
func (f *fakeBackend) sentCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == "" {
		return f.sentTotal
	}
	return f.sent[method+" "+path]
}

type countingTransport struct {
	f    *fakeBackend
	next http.RoundTripper
}

func (t countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.f.mu.Lock()
	t.f.sentTotal++
	t.f.sent[r.Method+" "+r.URL.Path]++
	t.f.mu.Unlock()
	return t.next.RoundTrip(r)
}

func (f *fakeBackend) api() *api.API {
	c := client.New(client.Options{
		BackendURL:  f.srv.URL,
		FrontendURL: f.srv.URL + "/api",
		Timeout:     5 * time.Second,
		Credentials: credentials.Static("tok"),
		Transport:   countingTransport{f: f, next: http.DefaultTransport},
	})
	return api.New(c, degraded.Policy{Cache: degraded.NewMemory()})
}

func newTestScope(t *testing.T) *Scope {
	t.Helper()
	s := NewScope(context.Background())
	t.Cleanup(s.Unmount)
	return s
}

func TestScopeGoAfterUnmount(t *testing.T) {
	s := NewScope(context.Background())

	ran := make(chan struct{})
	require.True(t, s.Go(func(ctx context.Context) {
		<-ctx.Done()
		close(ran)
	}))

	s.Unmount()
	select {
	case <-ran:
	default:
		t.Fatal("Unmount returned before the goroutine finished")
	}

	assert.False(t, s.Mounted())
	assert.False(t, s.Go(func(context.Context) { t.Error("ran after unmount") }))
}

func TestScopeUnmountIsIdempotent(t *testing.T) {
	s := NewScope(context.Background())
	s.Every(time.Millisecond, func(context.Context) {})
	s.Unmount()
	s.Unmount()
	assert.Error(t, s.Context().Err())
}

func TestScopeFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewScope(parent)
	cancel()
	assert.False(t, s.Mounted())
	s.Unmount()
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	o := newOptions([]Option{WithInterval(0), WithClock(nil)})
	assert.Equal(t, 30*time.Second, o.interval)
	assert.NotNil(t, o.now)

	o = newOptions([]Option{WithInterval(time.Second)})
	assert.Equal(t, time.Second, o.interval)
}
