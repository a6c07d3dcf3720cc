package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/credentials"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
)

// ErrNoRefreshToken means there is nothing to recover the session with
var ErrNoRefreshToken = errors.New("no refresh token available, please log in again")

// RefreshWindow is how close to expiry a token is refreshed proactively
const RefreshWindow = time.Minute

// Refresher exchanges a refresh token for a new access token
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error)
}

// Store persists credentials between runs
type Store interface {
	Load() (*credentials.Credentials, error)
	Save(*credentials.Credentials) error
	Clear() error
}

// FileStore keeps credentials in a file
type FileStore struct {
	Path string
}

func (s FileStore) Load() (*credentials.Credentials, error) {
	return credentials.LoadFrom(s.Path)
}

func (s FileStore) Save(c *credentials.Credentials) error {
	return credentials.SaveTo(s.Path, c)
}

// Clear removes the file. A missing file is not an error.
func (s FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// SessionRecovery refreshes an expired access token and retries the call
// that failed with it
type SessionRecovery struct {
	refresher  Refresher
	store      Store
	maxRetries int
	retryDelay time.Duration
	now        func() time.Time
}

// NewSessionRecovery creates a new session recovery handler
func NewSessionRecovery(refresher Refresher, store Store) *SessionRecovery {
	return &SessionRecovery{
		refresher:  refresher,
		store:      store,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		now:        time.Now,
	}
}

// RecoverSession refreshes the stored access token. Transport and server
// failures are retried; a rejected refresh token is not.
func (sr *SessionRecovery) RecoverSession(ctx context.Context) error {
	logger.Debug("Attempting to recover session")

	creds, err := sr.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if creds == nil || creds.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	var lastErr error
	for attempt := 1; attempt <= sr.maxRetries; attempt++ {
		logger.Debug("Refreshing token", "attempt", attempt)

		resp, err := sr.refresher.Refresh(ctx, creds.RefreshToken)
		if err == nil {
			creds.AccessToken = resp.Access
			if resp.Refresh != "" {
				creds.RefreshToken = resp.Refresh
			}
			creds.ExpiresAt = time.Time{}
			if err := sr.store.Save(creds); err != nil {
				logger.Error("Failed to save updated credentials", "error", err)
			}
			return nil
		}

		lastErr = err
		if !retryable(err) {
			break
		}
		if attempt < sr.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sr.retryDelay):
			}
		}
	}

	expired := clierrors.SessionExpiredError()
	expired.Cause = lastErr
	return expired
}

func retryable(err error) bool {
	return client.IsNetwork(err) || client.IsServerError(err)
}

// EnsureFresh refreshes ahead of time when the stored access token expires
// within RefreshWindow. Missing credentials are not an error.
func (sr *SessionRecovery) EnsureFresh(ctx context.Context) error {
	creds, err := sr.store.Load()
	if err != nil || creds == nil || creds.RefreshToken == "" {
		return err
	}

	expiry := creds.ExpiresAt
	if exp, ok := credentials.TokenExpiry(creds.AccessToken); ok {
		expiry = exp
	}
	if expiry.IsZero() || expiry.Sub(sr.now()) > RefreshWindow {
		return nil
	}
	return sr.RecoverSession(ctx)
}

// IsSessionError reports whether err means the access token was rejected
func IsSessionError(err error) bool {
	if err == nil {
		return false
	}
	if client.IsUnauthorized(err) {
		return true
	}
	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Type == clierrors.ErrorTypeSessionExpired
	}
	return false
}

// HandleSessionError recovers from a session error. It returns nil when
// the session was recovered, err unchanged for other errors.
func (sr *SessionRecovery) HandleSessionError(ctx context.Context, err error) error {
	if !IsSessionError(err) {
		return err
	}

	logger.Debug("Handling session error with recovery")
	if recoveryErr := sr.RecoverSession(ctx); recoveryErr != nil {
		logger.Error("Session recovery failed", "error", recoveryErr)
		return fmt.Errorf("session expired: %w", recoveryErr)
	}
	return nil
}

// Retry runs fn, and after a recovered session error runs it once more
func (sr *SessionRecovery) Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}
	if herr := sr.HandleSessionError(ctx, err); herr != nil {
		return herr
	}
	return fn(ctx)
}
