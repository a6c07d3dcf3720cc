package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/service"
)

var (
	loginEmail    string
	loginPassword string

	register api.RegisterRequest

	profileFirstName string
	profileLastName  string
	profileBio       string
	profileAvatar    string
	profileTimezone  string
	profileLanguage  string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage your WatchParty session and account",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to WatchParty",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).Login(cmd.Context(), loginEmail, loginPassword)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new WatchParty account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).Register(cmd.Context(), register)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from WatchParty",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).Logout(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"me", "whoami"},
	Short:   "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).Status(cmd.Context())
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the session held by the local proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).Session(cmd.Context())
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
	Long:  "Update profile fields. Only the flags you pass are changed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var update api.ProfileUpdate
		set := func(flag string, value string, dst **string) {
			if cmd.Flags().Changed(flag) {
				v := value
				*dst = &v
			}
		}
		set("first-name", profileFirstName, &update.FirstName)
		set("last-name", profileLastName, &update.LastName)
		set("bio", profileBio, &update.Bio)
		set("avatar", profileAvatar, &update.Avatar)
		set("timezone", profileTimezone, &update.Timezone)
		set("language", profileLanguage, &update.Language)
		return service.NewAuthService(env(cmd)).UpdateProfile(cmd.Context(), update)
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Email a password reset link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).ForgotPassword(cmd.Context(), args[0])
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password with the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env(cmd)).ResetPassword(cmd.Context(), args[0])
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email [token]",
	Short: "Verify your email address, or resend the verification email",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := ""
		if len(args) > 0 {
			token = args[0]
		}
		return service.NewAuthService(env(cmd)).VerifyEmail(cmd.Context(), token)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	registerCmd.Flags().StringVar(&register.Email, "email", "", "Account email")
	registerCmd.Flags().StringVar(&register.Username, "username", "", "Username")
	registerCmd.Flags().StringVar(&register.FirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&register.LastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&register.PromoCode, "promo-code", "", "Promo code")

	profileCmd.Flags().StringVar(&profileFirstName, "first-name", "", "First name")
	profileCmd.Flags().StringVar(&profileLastName, "last-name", "", "Last name")
	profileCmd.Flags().StringVar(&profileBio, "bio", "", "Bio")
	profileCmd.Flags().StringVar(&profileAvatar, "avatar", "", "Avatar URL")
	profileCmd.Flags().StringVar(&profileTimezone, "timezone", "", "Timezone, e.g. Europe/Berlin")
	profileCmd.Flags().StringVar(&profileLanguage, "language", "", "Language code")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(sessionCmd)
	authCmd.AddCommand(profileCmd)
	authCmd.AddCommand(forgotPasswordCmd)
	authCmd.AddCommand(resetPasswordCmd)
	authCmd.AddCommand(verifyEmailCmd)
}
