package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
)

var redsocksCmd = &cobra.Command{
	Use:   "redsocks",
	Short: "Manage transparent redirection through redsocks",
	Long: `Manage transparent redirection of outgoing TCP through redsocks.

Changes run as root through pkexec and need an authorization dialog.
Private, loopback and multicast ranges are never redirected and outgoing
QUIC is rejected so browsers fall back to TCP.`,
}

var redsocksEnableCmd = &cobra.Command{
	Use:   "enable [addr]",
	Short: "Start redirecting through a proxy",
	Long: `Start redirecting through addr, or through the desktop proxy (falling
back to the first catalogue entry) when addr is omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := reconcile.Intent{Kind: reconcile.Enable}
		if len(args) == 1 {
			ep, err := resolveAddress(args[0])
			if err != nil {
				return err
			}
			intent = reconcile.Intent{Kind: reconcile.SetEndpoint, Endpoint: ep}
		}
		return runPass(cmd, intent, layer.TransparentRedirect)
	},
}

var redsocksDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop redirecting and remove the firewall rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Disable}, layer.TransparentRedirect)
	},
}

var redsocksStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether transparent redirection is active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := readLayer(cmd.Context(), layer.TransparentRedirect)
		if err != nil {
			return err
		}
		logInfo("%s: %s", layer.TransparentRedirect.Label(), describeState(st))
		return nil
	},
}

func init() {
	redsocksCmd.AddCommand(redsocksEnableCmd, redsocksDisableCmd, redsocksStatusCmd)
	rootCmd.AddCommand(redsocksCmd)
}
