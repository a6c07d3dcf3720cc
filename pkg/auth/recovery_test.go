package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/credentials"
	clierrors "github.com/watchparty/cli/pkg/errors"
)

type fakeRefresher struct {
	errs  []error
	resp  *api.RefreshResponse
	calls int
	seen  []string
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (*api.RefreshResponse, error) {
	f.calls++
	f.seen = append(f.seen, refreshToken)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.resp, nil
}

type memoryStore struct {
	creds *credentials.Credentials
	saved int
}

func (m *memoryStore) Load() (*credentials.Credentials, error) {
	if m.creds == nil {
		return nil, nil
	}
	c := *m.creds
	return &c, nil
}

func (m *memoryStore) Save(c *credentials.Credentials) error {
	m.saved++
	cp := *c
	m.creds = &cp
	return nil
}

func (m *memoryStore) Clear() error {
	m.creds = nil
	return nil
}

func newRecovery(r Refresher, s Store) *SessionRecovery {
	sr := NewSessionRecovery(r, s)
	sr.retryDelay = time.Millisecond
	return sr
}

func unauthorized() error {
	return &client.APIError{Status: 401, Message: "Token is invalid or expired"}
}

func TestNewSessionRecovery(t *testing.T) {
	sr := NewSessionRecovery(&fakeRefresher{}, &memoryStore{})

	assert.Equal(t, 3, sr.maxRetries)
	assert.Equal(t, 2*time.Second, sr.retryDelay)
}

func TestIsSessionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"401", unauthorized(), true},
		{"wrapped 401", errors.Join(errors.New("list parties"), unauthorized()), true},
		{"403", &client.APIError{Status: 403}, false},
		{"500", &client.APIError{Status: 500}, false},
		{"session expired", clierrors.SessionExpiredError(), true},
		{"auth error", clierrors.AuthError("bad password"), false},
		{"plain", errors.New("unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSessionError(tt.err))
		})
	}
}

func TestRecoverSession_SavesTokens(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{AccessToken: "old", RefreshToken: "r1", Username: "alice"}}
	ref := &fakeRefresher{resp: &api.RefreshResponse{Access: "new", Refresh: "r2"}}

	require.NoError(t, newRecovery(ref, store).RecoverSession(t.Context()))

	assert.Equal(t, []string{"r1"}, ref.seen)
	assert.Equal(t, 1, store.saved)
	assert.Equal(t, "new", store.creds.AccessToken)
	assert.Equal(t, "r2", store.creds.RefreshToken)
	assert.Equal(t, "alice", store.creds.Username)
}

func TestRecoverSession_KeepsRefreshWhenNotRotated(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{AccessToken: "old", RefreshToken: "r1"}}
	ref := &fakeRefresher{resp: &api.RefreshResponse{Access: "new"}}

	require.NoError(t, newRecovery(ref, store).RecoverSession(t.Context()))
	assert.Equal(t, "r1", store.creds.RefreshToken)
}

func TestRecoverSession_NoRefreshToken(t *testing.T) {
	ref := &fakeRefresher{}

	err := newRecovery(ref, &memoryStore{}).RecoverSession(t.Context())
	assert.ErrorIs(t, err, ErrNoRefreshToken)

	err = newRecovery(ref, &memoryStore{creds: &credentials.Credentials{AccessToken: "a"}}).RecoverSession(t.Context())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Zero(t, ref.calls)
}

func TestRecoverSession_RejectedIsNotRetried(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{RefreshToken: "r1"}}
	ref := &fakeRefresher{errs: []error{unauthorized()}}

	err := newRecovery(ref, store).RecoverSession(t.Context())
	require.Error(t, err)

	var cliErr *clierrors.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierrors.ErrorTypeSessionExpired, cliErr.Type)
	assert.Equal(t, 1, ref.calls)
	assert.Zero(t, store.saved)
}

func TestRecoverSession_RetriesTransientFailures(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{RefreshToken: "r1"}}
	ref := &fakeRefresher{
		errs: []error{
			&client.APIError{Code: client.CodeNetwork, Message: "connection reset"},
			&client.APIError{Status: 502},
		},
		resp: &api.RefreshResponse{Access: "new"},
	}

	require.NoError(t, newRecovery(ref, store).RecoverSession(t.Context()))
	assert.Equal(t, 3, ref.calls)
	assert.Equal(t, "new", store.creds.AccessToken)
}

func TestRecoverSession_GivesUpAfterMaxRetries(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{RefreshToken: "r1"}}
	down := &client.APIError{Status: 503}
	ref := &fakeRefresher{errs: []error{down, down, down, down}}

	err := newRecovery(ref, store).RecoverSession(t.Context())
	require.Error(t, err)
	assert.Equal(t, 3, ref.calls)
	assert.ErrorIs(t, err, down)
}

func TestRecoverSession_ContextCanceled(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{RefreshToken: "r1"}}
	ref := &fakeRefresher{errs: []error{&client.APIError{Status: 500}}}

	sr := NewSessionRecovery(ref, store)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.ErrorIs(t, sr.RecoverSession(ctx), context.Canceled)
}

func TestHandleSessionError(t *testing.T) {
	t.Run("passes through other errors", func(t *testing.T) {
		sr := newRecovery(&fakeRefresher{}, &memoryStore{})
		original := errors.New("network timeout")
		assert.Same(t, original, sr.HandleSessionError(t.Context(), original))
		assert.NoError(t, sr.HandleSessionError(t.Context(), nil))
	})

	t.Run("recovered", func(t *testing.T) {
		store := &memoryStore{creds: &credentials.Credentials{RefreshToken: "r1"}}
		sr := newRecovery(&fakeRefresher{resp: &api.RefreshResponse{Access: "new"}}, store)
		assert.NoError(t, sr.HandleSessionError(t.Context(), unauthorized()))
	})

	t.Run("recovery failed", func(t *testing.T) {
		sr := newRecovery(&fakeRefresher{}, &memoryStore{})
		err := sr.HandleSessionError(t.Context(), unauthorized())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session expired")
		assert.ErrorIs(t, err, ErrNoRefreshToken)
	})
}

func TestRetry(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{AccessToken: "old", RefreshToken: "r1"}}
	sr := newRecovery(&fakeRefresher{resp: &api.RefreshResponse{Access: "new"}}, store)

	var tokens []string
	err := sr.Retry(t.Context(), func(ctx context.Context) error {
		c, _ := store.Load()
		tokens = append(tokens, c.AccessToken)
		if c.AccessToken == "old" {
			return unauthorized()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, tokens)
}

func TestRetry_OnlyOnce(t *testing.T) {
	store := &memoryStore{creds: &credentials.Credentials{RefreshToken: "r1"}}
	sr := newRecovery(&fakeRefresher{resp: &api.RefreshResponse{Access: "new"}}, store)

	calls := 0
	err := sr.Retry(t.Context(), func(ctx context.Context) error {
		calls++
		return unauthorized()
	})

	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, 2, calls)
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func TestEnsureFresh(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expiry  time.Time
		refresh bool
	}{
		{"far from expiry", now.Add(time.Hour), false},
		{"inside window", now.Add(30 * time.Second), true},
		{"already expired", now.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{creds: &credentials.Credentials{AccessToken: signed(t, tt.expiry), RefreshToken: "r1"}}
			ref := &fakeRefresher{resp: &api.RefreshResponse{Access: "new"}}
			sr := newRecovery(ref, store)
			sr.now = func() time.Time { return now }

			require.NoError(t, sr.EnsureFresh(t.Context()))
			assert.Equal(t, tt.refresh, ref.calls == 1)
		})
	}
}

func TestEnsureFresh_NoCredentials(t *testing.T) {
	ref := &fakeRefresher{}
	require.NoError(t, newRecovery(ref, &memoryStore{}).EnsureFresh(t.Context()))
	assert.Zero(t, ref.calls)
}

func TestFileStore(t *testing.T) {
	store := FileStore{Path: filepath.Join(t.TempDir(), "credentials.json")}

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, store.Save(&credentials.Credentials{AccessToken: "a", RefreshToken: "r"}))
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "r", creds.RefreshToken)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}
