package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchparty/cli/pkg/credentials"
	"github.com/watchparty/cli/pkg/logger"
)

type party struct {
	ID     string `json:"id" validate:"required"`
	Title  string `json:"title"`
	Status string `json:"status" validate:"omitempty,oneof=scheduled live paused ended cancelled"`
}

func newTestClient(t *testing.T, backend, frontend string, provider credentials.Provider) *Client {
	t.Helper()
	return New(Options{
		BackendURL:  backend,
		FrontendURL: frontend,
		Timeout:     5 * time.Second,
		Credentials: provider,
	})
}

func TestAuthorizationHeaderFromProvider(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	t.Run("token present", func(t *testing.T) {
		c := newTestClient(t, srv.URL, srv.URL, credentials.Static("abc"))
		require.NoError(t, c.Get(context.Background(), "/v2/parties/", nil, nil))
		assert.Equal(t, "Bearer abc", got.Load())
	})

	t.Run("token absent", func(t *testing.T) {
		c := newTestClient(t, srv.URL, srv.URL, credentials.Static(""))
		require.NoError(t, c.Get(context.Background(), "/v2/parties/", nil, nil))
		assert.Equal(t, "", got.Load())
	})

	t.Run("caller header wins", func(t *testing.T) {
		c := newTestClient(t, srv.URL, srv.URL, credentials.Static("abc"))
		err := c.Do(context.Background(), Request{
			Endpoint: "/v2/parties/",
			Header:   http.Header{"Authorization": []string{"Bearer override"}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer override", got.Load())
	})
}

func TestProviderConsultedPerRequest(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	provider := credentials.NewMemory("first")
	c := newTestClient(t, srv.URL, srv.URL, provider)

	require.NoError(t, c.Get(context.Background(), "/a/", nil, nil))
	provider.Set("second")
	require.NoError(t, c.Get(context.Background(), "/b/", nil, nil))

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestDefaultHeaders(t *testing.T) {
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, srv.URL, nil)
	require.NoError(t, c.Post(context.Background(), "/v2/parties/", map[string]string{"title": "x"}, nil))

	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.NotEmpty(t, header.Get("X-Request-ID"))
	assert.Contains(t, header.Get("User-Agent"), "WatchParty-CLI")
}

func TestBaseURLSelection(t *testing.T) {
	c := newTestClient(t, "https://api.example.com/", "http://localhost:3000/api", nil)

	assert.Equal(t, "https://api.example.com/v2/parties/", c.URL(Backend, "/v2/parties/"))
	assert.Equal(t, "http://localhost:3000/api/v2/parties/", c.URL(Frontend, "/v2/parties/"))
	assert.Equal(t, "https://api.example.com/v2/parties/", c.URL(Backend, "v2/parties/"))
	assert.Equal(t, "https://other.example.com/x", c.URL(Frontend, "https://other.example.com/x"))
}

func TestBaseURLSelectionOverHTTP(t *testing.T) {
	var backendHits, frontendHits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits.Add(1)
		assert.Equal(t, "/parties", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()
	frontend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		frontendHits.Add(1)
		assert.Equal(t, "/api/parties", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer frontend.Close()

	c := newTestClient(t, backend.URL, frontend.URL+"/api", nil)
	ctx := context.Background()

	require.NoError(t, c.Do(ctx, Request{Endpoint: "/parties", Target: Backend}, nil))
	require.NoError(t, c.Do(ctx, Request{Endpoint: "/parties", Target: Frontend}, nil))

	assert.Equal(t, int32(1), backendHits.Load())
	assert.Equal(t, int32(1), frontendHits.Load())
}

func TestErrorMessageExtraction(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"message field", http.StatusNotFound, `{"message":"Party not found"}`, "Party not found", CodeHTTP},
		{"full envelope", http.StatusBadRequest, `{"success":false,"error":"validation_error","message":"Title is required","details":{"title":["This field is required."]}}`, "Title is required", "validation_error"},
		{"error only", http.StatusForbidden, `{"error":"Not a participant"}`, "Not a participant", "Not a participant"},
		{"detail only", http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`, "Authentication credentials were not provided.", CodeHTTP},
		{"empty object", http.StatusNotFound, `{}`, "HTTP 404: Not Found", CodeHTTP},
		{"non JSON body", http.StatusNotFound, `<html>nope</html>`, "HTTP 404: Not Found", CodeNetwork},
		{"empty body", http.StatusBadGateway, ``, "HTTP 502: Bad Gateway", CodeNetwork},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, srv.URL, nil)
			err := c.Get(context.Background(), "/v2/parties/missing/", nil, nil)
			require.Error(t, err)
			assert.Equal(t, tc.wantMsg, err.Error())

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected *APIError, got %T", err)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, "/v2/parties/missing/", apiErr.Endpoint)
		})
	}
}

func TestErrorDetailsAreKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"bad","details":{"title":["required"],"code":"short"}}`)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL, srv.URL, nil).Get(context.Background(), "/x/", nil, nil)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, []string{"required"}, apiErr.Details["title"])
	assert.Equal(t, []string{"short"}, apiErr.Details["code"])
}

func TestErrorsAreLoggedWithEndpoint(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, log.InfoLevel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_ = newTestClient(t, srv.URL, srv.URL, nil).Get(context.Background(), "/v2/analytics/real-time/", nil, nil)

	assert.Contains(t, buf.String(), "/v2/analytics/real-time/")
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestClient(t, url, url, nil).Get(context.Background(), "/v2/parties/", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestSingleAttemptNoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL, srv.URL, nil).Get(context.Background(), "/x/", nil, nil)
	require.Error(t, err)
	assert.True(t, IsServerError(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newTestClient(t, srv.URL, srv.URL, nil).Get(ctx, "/slow/", nil, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, IsCanceled(err))
		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, CodeCanceled, apiErr.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not canceled")
	}
}

func TestDecodeAndValidate(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"id":"p1","title":"Movie night","status":"live"}`, false},
		{"missing id", `{"title":"Movie night"}`, true},
		{"unknown status", `{"id":"p1","status":"exploded"}`, true},
		{"wrong type", `{"id":42}`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, srv.URL, nil)
			got, err := Fetch[party](context.Background(), c, Request{Endpoint: "/v2/parties/p1/"})
			if tc.wantErr {
				require.Error(t, err)
				apiErr, ok := err.(*APIError)
				require.True(t, ok)
				assert.Equal(t, CodeInvalidResponse, apiErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Movie night", got.Title)
		})
	}
}

func TestValidateSlices(t *testing.T) {
	assert.NoError(t, Validate([]party{{ID: "a"}, {ID: "b"}}))
	err := Validate([]party{{ID: "a"}, {}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "item 1"))
	assert.NoError(t, Validate(map[string]interface{}{"any": 1}))
	assert.NoError(t, Validate(nil))
}

func TestEmptyBodyLeavesTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out := party{ID: "kept"}
	require.NoError(t, newTestClient(t, srv.URL, srv.URL, nil).Delete(context.Background(), "/v2/parties/p1/", &out))
	assert.Equal(t, "kept", out.ID)
}

func TestQueryParamsAreFiltered(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var search *string
	params := Params{"page": 1, "search": search, "status": "live", "host": nil}
	require.NoError(t, newTestClient(t, srv.URL, srv.URL, nil).Get(context.Background(), "/v2/parties/", params, nil))

	assert.Equal(t, "page=1&status=live", rawQuery)
}

func TestParamsEncode(t *testing.T) {
	live := "live"
	testCases := []struct {
		name   string
		params Params
		want   string
	}{
		{"nil map", nil, ""},
		{"drops nil", Params{"page": 1, "search": nil, "status": "live"}, "page=1&status=live"},
		{"derefs pointers", Params{"status": &live}, "status=live"},
		{"bool and slices", Params{"is_public": true, "tag": []string{"a", "b"}}, "is_public=true&tag=a&tag=b"},
		{"non zero helper", Params{"page": NonZero(0), "page_size": NonZero(20), "q": NonZero("")}, "page_size=20"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.Encode())
		})
	}
}

func TestQueryAppendsToExistingQuery(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, srv.URL, nil)
	require.NoError(t, c.Get(context.Background(), "/callback/?code=x", Params{"state": "s"}, nil))
	assert.Equal(t, "code=x&state=s", rawQuery)
}

func TestGetClientSingleton(t *testing.T) {
	httpClient = nil
	c1 := GetClient()
	c2 := GetClient()
	assert.Same(t, c1, c2)

	replacement := New(Options{})
	SetClient(replacement)
	assert.Same(t, replacement, GetClient())
	httpClient = nil
}
