package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Manage the desktop proxy configuration",
}

var systemSetCmd = &cobra.Command{
	Use:   "set <addr>",
	Short: "Point the desktop at a proxy and switch it to manual mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := resolveAddress(args[0])
		if err != nil {
			return err
		}
		return runPass(cmd, reconcile.Intent{Kind: reconcile.SetEndpoint, Endpoint: ep}, layer.DesktopConfig)
	},
}

var systemEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Switch the desktop to manual proxy mode",
	Long: `Switch the desktop to manual proxy mode using the endpoint it already
has configured, or the first catalogue entry when it has none.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Enable}, layer.DesktopConfig)
	},
}

var systemDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Switch the desktop to no proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Disable}, layer.DesktopConfig)
	},
}

func init() {
	systemCmd.AddCommand(systemSetCmd, systemEnableCmd, systemDisableCmd)
	rootCmd.AddCommand(systemCmd)
}
