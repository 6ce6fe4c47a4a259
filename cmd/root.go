package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/app"
	"github.com/firefly-engineering/proxyctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Keep shell, desktop and transparent proxy settings in sync",
	Long: `proxy manages the HTTP proxy settings of a Linux desktop.

Three layers are kept consistent:
  - shell       http_proxy and friends in the calling shell
  - system      the KDE desktop proxy configuration
  - redsocks    transparent redirection of outgoing TCP through redsocks

Addresses may be abbreviated: "5.9" expands to the default prefix, port
and credentials.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, os.Stderr)
		if app.Default != nil {
			return nil
		}
		a, err := app.Load(configPath)
		if err != nil {
			return err
		}
		app.SetDefault(a)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/proxyctl/config.toml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
