package api

import (
	"context"
	"net/http"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// AuthAPI covers login, registration, tokens and the current profile
type AuthAPI struct {
	c *client.Client
}

// Login authenticates with email and password
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	logger.Debug("Attempting login", "email", email)

	resp, err := send[AuthResponse](ctx, a.c, http.MethodPost, "/auth/login/", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if resp.User != nil {
		logger.Debug("Login successful", "username", resp.User.Username)
	}
	return resp, nil
}

// Register creates an account
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	logger.Debug("Registering account", "email", req.Email)
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}
	return send[AuthResponse](ctx, a.c, http.MethodPost, "/auth/register/", req)
}

// Logout invalidates the refresh token server-side
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	logger.Debug("Logging out")
	body := map[string]string{}
	if refreshToken != "" {
		body["refresh"] = refreshToken
	}
	return a.c.Post(ctx, "/v2/auth/logout/", body, nil)
}

// Refresh exchanges a refresh token for a new access token
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	logger.Debug("Refreshing access token")
	return send[RefreshResponse](ctx, a.c, http.MethodPost, "/v2/auth/refresh/", RefreshRequest{Refresh: refreshToken})
}

// Profile returns the authenticated user
func (a *AuthAPI) Profile(ctx context.Context) (*User, error) {
	logger.Debug("Fetching current user")
	return get[User](ctx, a.c, "/v2/auth/profile/", nil)
}

// UpdateProfile patches the authenticated user
func (a *AuthAPI) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	logger.Debug("Updating profile")
	return send[User](ctx, a.c, http.MethodPatch, "/v2/auth/profile/", update)
}

// ForgotPassword emails a reset link
func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (*Message, error) {
	logger.Debug("Requesting password reset", "email", email)
	return send[Message](ctx, a.c, http.MethodPost, "/v2/auth/forgot-password/", map[string]string{"email": email})
}

// ResetPassword sets a new password from a reset token
func (a *AuthAPI) ResetPassword(ctx context.Context, req PasswordResetRequest) (*Message, error) {
	logger.Debug("Resetting password")
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}
	return send[Message](ctx, a.c, http.MethodPost, "/v2/auth/reset-password/", req)
}

// VerifyEmail confirms an address from the emailed token
func (a *AuthAPI) VerifyEmail(ctx context.Context, token string) (*Message, error) {
	logger.Debug("Verifying email")
	return send[Message](ctx, a.c, http.MethodPost, "/v2/auth/verify-email/", map[string]string{"token": token})
}

// ResendVerification sends another verification email
func (a *AuthAPI) ResendVerification(ctx context.Context) (*Message, error) {
	logger.Debug("Resending verification email")
	return send[Message](ctx, a.c, http.MethodPost, "/v2/auth/resend-verification/", nil)
}

// Session reports the user behind the current token
func (a *AuthAPI) Session(ctx context.Context) (*Session, error) {
	return do[Session](ctx, a.c, client.Request{Method: http.MethodGet, Endpoint: "/auth/session", Target: client.Frontend})
}

// WSToken fetches a short-lived party socket token from the same-origin
// proxy
func (a *AuthAPI) WSToken(ctx context.Context) (*WSToken, error) {
	logger.Debug("Fetching websocket token")
	return do[WSToken](ctx, a.c, client.Request{Method: http.MethodGet, Endpoint: "/ws-token", Target: client.Frontend})
}
