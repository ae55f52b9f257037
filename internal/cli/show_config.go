// internal/cli/show_config.go
package peaksweep

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/peaksweep/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements 'show config', which prints the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig())
		if DebugEnabled() {
			pp.Fprintln(cmd.OutOrStdout(), viper.AllSettings())
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
