package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
	"github.com/watchparty/cli/pkg/views"
)

var (
	integrationFilter views.IntegrationFilter
	integrationForce  bool
)

var integrationsCmd = &cobra.Command{
	Use:     "integrations",
	Aliases: []string{"integration", "int"},
	Short:   "Connected services",
	Long:    "Connect WatchParty to Google Drive, Discord and other services",
}

var integrationsListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List your connections",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).List(cmd.Context(), strings.Join(args, " "))
	},
}

var integrationsAvailableCmd = &cobra.Command{
	Use:   "available",
	Short: "Browse integrations you can connect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).Available(cmd.Context(), integrationFilter)
	},
}

var integrationsConnectCmd = &cobra.Command{
	Use:   "connect <type>",
	Short: "Connect an integration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).Connect(cmd.Context(), args[0])
	},
}

var integrationsAuthorizeCmd = &cobra.Command{
	Use:   "authorize <provider>",
	Short: "Print the OAuth URL for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).Authorize(cmd.Context(), args[0])
	},
}

var integrationsCallbackCmd = &cobra.Command{
	Use:   "callback <code> <state>",
	Short: "Finish an OAuth flow with the code and state from the redirect",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).Callback(cmd.Context(), args[0], args[1])
	},
}

var integrationsDisconnectCmd = &cobra.Command{
	Use:   "disconnect <connection-id>",
	Short: "Disconnect an integration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).Disconnect(cmd.Context(), args[0], integrationForce)
	},
}

var integrationsTestCmd = &cobra.Command{
	Use:   "test <connection-id>",
	Short: "Check that a connection still works",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewIntegrationService(env(cmd)).Test(cmd.Context(), args[0])
	},
}

func init() {
	integrationsAvailableCmd.Flags().StringVarP(&integrationFilter.Query, "query", "q", "", "Filter by name or description")
	integrationsAvailableCmd.Flags().StringVar(&integrationFilter.Category, "category", "", "Category: storage, social, streaming, productivity")
	integrationsAvailableCmd.Flags().BoolVar(&integrationFilter.AvailableOnly, "unconnected", false, "Hide integrations you already connected")

	integrationsDisconnectCmd.Flags().BoolVarP(&integrationForce, "force", "f", false, "Skip confirmation")

	integrationsCmd.AddCommand(integrationsListCmd)
	integrationsCmd.AddCommand(integrationsAvailableCmd)
	integrationsCmd.AddCommand(integrationsConnectCmd)
	integrationsCmd.AddCommand(integrationsAuthorizeCmd)
	integrationsCmd.AddCommand(integrationsCallbackCmd)
	integrationsCmd.AddCommand(integrationsDisconnectCmd)
	integrationsCmd.AddCommand(integrationsTestCmd)
}
