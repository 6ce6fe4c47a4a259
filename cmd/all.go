package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/reconcile"
)

var onCmd = &cobra.Command{
	Use:   "on <addr>",
	Short: "Use a proxy in every layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		ep, err := resolveAddress(args[0])
		if err != nil {
			return err
		}
		return runPass(cmd, reconcile.Intent{Kind: reconcile.SetEndpoint, Endpoint: ep})
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable the proxy in every layer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Disable})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Make every layer follow the desktop configuration",
	Long: `Read the desktop proxy configuration and apply it to the shell and
redsocks layers. Nothing changes when the desktop setting cannot be read or
is in a mode without an explicit endpoint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Auto})
	},
}

func init() {
	rootCmd.AddCommand(onCmd, offCmd, syncCmd)
}
