package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
	"github.com/firefly-engineering/proxyctl/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Manage the proxy variables of the calling shell",
	Long: `Manage http_proxy, https_proxy and no_proxy in the calling shell.

A program cannot change its parent's environment, so these commands print
export and unset statements. Install the wrapper once with:

  eval "$(proxy shell init bash)"

after which "proxy shell ..." applies them directly.`,
}

var shellEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Export the desktop proxy (or the first catalogue entry)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Enable}, layer.ShellEnvironment)
	},
}

var shellDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Unset the proxy variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		return runPass(cmd, reconcile.Intent{Kind: reconcile.Disable}, layer.ShellEnvironment)
	},
}

var shellConfigureCmd = &cobra.Command{
	Use:   "configure <addr>",
	Short: "Export a specific proxy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		ep, err := resolveAddress(args[0])
		if err != nil {
			return err
		}
		return runPass(cmd, reconcile.Intent{Kind: reconcile.SetEndpoint, Endpoint: ep}, layer.ShellEnvironment)
	},
}

var shellStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the proxy variables of the current environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		evalOutput()
		st, err := readLayer(cmd.Context(), layer.ShellEnvironment)
		if err != nil {
			return err
		}
		logInfo("%s: %s", layer.ShellEnvironment.Label(), describeState(st))
		return nil
	},
}

var shellInitCmd = &cobra.Command{
	Use:       "init [bash|zsh]",
	Short:     "Print the shell wrapper function",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: shell.Supported,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		script, err := shell.InitScript(name, rootCmd.Name(), rootCmd.Name())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	},
}

func init() {
	shellCmd.AddCommand(shellEnableCmd, shellDisableCmd, shellConfigureCmd, shellStatusCmd, shellInitCmd)
	rootCmd.AddCommand(shellCmd)
}
