package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/credentials"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/output"
)

type AuthService struct {
	env *Env
}

// NewAuthService creates a new auth service
func NewAuthService(env *Env) *AuthService {
	return &AuthService{env: env}
}

// Login signs in and stores the returned tokens. A blank email or password
// is prompted for.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	creds, err := s.env.Store.Load()
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		return err
	}
	if creds != nil && creds.IsValid() {
		s.env.Out.Warning("Already logged in as %s", creds.Username)
		ok, err := s.env.confirm(false, "Continue with new login?")
		if err != nil || !ok {
			return err
		}
	}

	if email == "" {
		if email, err = s.env.Prompt.Required("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = s.env.Prompt.Password("Password: "); err != nil {
			return err
		}
	}
	if password == "" {
		return clierrors.ValidationError("password", "cannot be empty")
	}

	logger.Debug("Logging in", "email", email)
	resp, err := s.env.API.Auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	if err := s.save(resp); err != nil {
		return err
	}

	name := email
	if resp.User != nil {
		name = resp.User.Username
	}
	s.env.Out.Success("Logged in as %s", name)
	return nil
}

// Register creates an account. When the backend signs the new user in
// straight away the tokens are stored.
func (s *AuthService) Register(ctx context.Context, req api.RegisterRequest) error {
	var err error
	if req.Email == "" {
		if req.Email, err = s.env.Prompt.Required("Email: "); err != nil {
			return err
		}
	}
	if req.Password == "" {
		if req.Password, err = s.env.Prompt.Password("Password: "); err != nil {
			return err
		}
		if req.ConfirmPassword, err = s.env.Prompt.Password("Confirm password: "); err != nil {
			return err
		}
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}
	if req.Password != req.ConfirmPassword {
		return clierrors.ValidationError("confirm_password", "passwords do not match")
	}

	logger.Debug("Registering", "email", req.Email)
	resp, err := s.env.API.Auth.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	if access, _ := resp.Tokens(); access == "" {
		s.env.Out.Success("Account created.")
		if resp.Message != "" {
			s.env.Out.Info("%s", resp.Message)
		}
		return nil
	}
	if err := s.save(resp); err != nil {
		return err
	}
	s.env.Out.Success("Account created. Logged in as %s", req.Email)
	return nil
}

func (s *AuthService) save(resp *api.AuthResponse) error {
	access, refresh := resp.Tokens()
	if access == "" {
		return clierrors.AuthError("the server did not return an access token")
	}

	creds := &credentials.Credentials{AccessToken: access, RefreshToken: refresh}
	if exp, ok := credentials.TokenExpiry(access); ok {
		creds.ExpiresAt = exp
	}
	if u := resp.User; u != nil {
		creds.UserID = u.ID.String()
		creds.Username = u.Username
		creds.Email = u.Email
		creds.IsStaff = u.IsStaff
	}

	if err := s.env.Store.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Logout revokes the refresh token on the server, best effort, and removes
// the stored credentials
func (s *AuthService) Logout(ctx context.Context) error {
	creds, err := s.env.Store.Load()
	if err != nil {
		return err
	}
	if creds == nil {
		s.env.Out.Info("Not logged in.")
		return nil
	}

	if creds.RefreshToken != "" {
		if err := s.env.API.Auth.Logout(ctx, creds.RefreshToken); err != nil {
			logger.Warn("Server logout failed", "error", err)
		}
	}
	if err := s.env.Store.Clear(); err != nil {
		return err
	}
	s.env.Out.Success("Logged out.")
	return nil
}

// Status shows the signed-in user
func (s *AuthService) Status(ctx context.Context) error {
	creds, err := s.env.Store.Load()
	if err != nil {
		return err
	}
	if creds == nil || creds.AccessToken == "" {
		s.env.Out.Info("Not logged in. Run 'watchparty auth login'.")
		return nil
	}

	var user *api.User
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.env.API.Auth.Profile(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	fields := formatter.User(user)
	if latest, _ := s.env.Store.Load(); latest != nil {
		if exp, ok := credentials.TokenExpiry(latest.AccessToken); ok {
			fields = append(fields, output.Field{Key: "Token expires", Value: exp.Local().Format(formatter.TimeLayout)})
		}
	}
	return s.env.Out.PrintRecord("Logged in", user, fields)
}

// Session asks the local proxy who its cookie session belongs to
func (s *AuthService) Session(ctx context.Context) error {
	sess, err := s.env.API.Auth.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if !sess.Authenticated || sess.User == nil {
		s.env.Out.Info("No proxy session. Log in through the proxy first.")
		return nil
	}
	return s.env.Out.PrintRecord("Proxy session", sess, formatter.User(sess.User))
}

// UpdateProfile applies the set fields of update
func (s *AuthService) UpdateProfile(ctx context.Context, update api.ProfileUpdate) error {
	if update == (api.ProfileUpdate{}) {
		return clierrors.ValidationError("profile", "nothing to update")
	}

	var user *api.User
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.env.API.Auth.UpdateProfile(ctx, update)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	s.env.Out.Success("Profile updated.")
	return s.env.Out.PrintRecord("Profile", user, formatter.User(user))
}

// ForgotPassword emails a reset link
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return clierrors.ValidationError("email", "is required")
	}
	msg, err := s.env.API.Auth.ForgotPassword(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "If that address has an account, a reset link is on its way."))
	return nil
}

// ResetPassword sets a new password from an emailed token
func (s *AuthService) ResetPassword(ctx context.Context, token string) error {
	if token == "" {
		return clierrors.ValidationError("token", "is required")
	}
	password, err := s.env.Prompt.Password("New password: ")
	if err != nil {
		return err
	}
	confirm, err := s.env.Prompt.Password("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return clierrors.ValidationError("confirm_password", "passwords do not match")
	}

	msg, err := s.env.API.Auth.ResetPassword(ctx, api.PasswordResetRequest{Token: token, Password: password, ConfirmPassword: confirm})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Password reset. You can now log in."))
	return nil
}

// VerifyEmail confirms an address. An empty token asks for another
// verification email instead.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		msg, err := s.env.API.Auth.ResendVerification(ctx)
		if err != nil {
			return fmt.Errorf("failed to resend verification: %w", err)
		}
		s.env.Out.Success("%s", messageOr(msg, "Verification email sent."))
		return nil
	}

	msg, err := s.env.API.Auth.VerifyEmail(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Email verified."))
	return nil
}
