package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/service"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "watchparty",
	Short: "WatchParty CLI - watch videos together",
	Long: `WatchParty CLI is a command-line client for the WatchParty
platform. Host and join synchronized watch parties, chat with friends,
manage your video library and integrations directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return fmt.Errorf("invalid output format %q: use text, json or table", outputFmt)
			}
			config.Set("output.format", outputFmt)
		}

		client.Init()
		return nil
	},
}

// Execute runs the command tree. Errors are returned for main to print.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// env builds the services' environment for one command invocation
func env(cmd *cobra.Command) *service.Env {
	return service.NewEnv(cmd.Context())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/watchparty/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(partiesCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(integrationsCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(socialCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
