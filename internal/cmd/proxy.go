package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/proxy"
)

var proxyListen string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the local session proxy",
	Long: `Run an HTTP proxy that keeps the session in cookies and forwards
/api requests to the backend. Browser frontends talk to it instead of
the backend directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("listen") {
			config.Set("proxy.listen", proxyListen)
		}
		return proxy.New(proxy.ConfigFromSettings()).Run(cmd.Context())
	},
}

func init() {
	proxyCmd.Flags().StringVar(&proxyListen, "listen", ":3000", "Address to listen on")
}
