package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := flatten("", config.AllSettings())
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]output.Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, output.Field{Key: k, Value: settings[k]})
		}
		return output.Default().PrintRecord("Configuration", settings, fields)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where configuration and credentials are stored",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Config:      %s\n", config.GetConfigFilePath())
		fmt.Fprintf(cmd.OutOrStdout(), "Credentials: %s\n", config.GetCredentialsPath())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a setting to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetString(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		output.Default().Success("Set %s = %s", args[0], args[1])
		return nil
	},
}

// flatten turns nested settings into dotted keys
func flatten(prefix string, m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}
