package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
	"github.com/firefly-engineering/proxyctl/internal/tui"
)

var pickLayer string

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a proxy from the catalogue",
	Long: `Opens an interactive list of the proxies in the catalogue and applies the
chosen one.

Use arrow keys or j/k to navigate, / to filter, Enter to apply, q/Esc to
quit. Without a terminal the catalogue is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVarP(&pickLayer, "layer", "l", "all", "Layer to apply the choice to (shell, system, redsocks or all)")
	rootCmd.AddCommand(pickCmd)
}

func pickScope(name string) ([]layer.Name, error) {
	if name == "" || name == "all" {
		return nil, nil
	}
	n, err := layer.ParseName(name)
	if err != nil {
		return nil, proxyerrors.UsageError(err.Error())
	}
	return []layer.Name{n}, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	evalOutput()
	a := getApp()

	scope, err := pickScope(pickLayer)
	if err != nil {
		return err
	}

	entries, err := a.Catalog()
	if err != nil {
		return err
	}

	// The desktop endpoint marks the entry in use.
	current := a.Shell.Read(cmd.Context()).Endpoint
	if desktop, ok := a.Registry.Lookup(layer.DesktopConfig); ok {
		if st := desktop.Read(cmd.Context()); st.Endpoint != nil {
			current = st.Endpoint
		}
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprint(cmd.ErrOrStderr(), tui.SimplePicker(entries, a.Resolver(), current))
		return nil
	}

	if len(entries) == 0 {
		logInfo("The catalogue is empty. Add proxies to proxies.json or proxy.txt in %s", a.Paths.DataDir)
		return nil
	}

	result, err := tui.RunPicker(entries, a.Resolver(), current)
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	logging.Debug("picker result", "action", result.Action)

	if result.Action != tui.ActionSelect || result.Endpoint == nil {
		return nil
	}
	return runPass(cmd, reconcile.Intent{Kind: reconcile.SetEndpoint, Endpoint: result.Endpoint}, scope...)
}
