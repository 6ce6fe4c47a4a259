package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/privilege"
	"github.com/firefly-engineering/proxyctl/internal/redirect"
)

// geteuid is swapped in tests.
var geteuid = os.Geteuid

var helperOverride redirect.Override

var redirectHelperCmd = &cobra.Command{
	Use:    privilege.HelperCommand + " {on <endpoint>|off|status}",
	Short:  "Apply the transparent redirect (run as root through pkexec)",
	Hidden: true,
	Args:   cobra.RangeArgs(1, 2),
	RunE:   runRedirectHelper,
}

func init() {
	f := redirectHelperCmd.Flags()
	f.StringVar(&helperOverride.Service, redirect.FlagService, "", "Redirect service unit")
	f.StringVar(&helperOverride.Chain, redirect.FlagChain, "", "iptables chain")
	f.IntVar(&helperOverride.LocalPort, redirect.FlagLocalPort, 0, "Local redsocks port")
	f.StringSliceVar(&helperOverride.Whitelist, redirect.FlagWhitelist, nil, "IPv4 ranges that bypass the redirect")
	rootCmd.AddCommand(redirectHelperCmd)
}

func runRedirectHelper(cmd *cobra.Command, args []string) error {
	// The helper's stdout is the caller's stdout, which the shell wrapper evals.
	evalOutput()

	ctrl, err := getApp().RedirectController(helperOverride)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch args[0] {
	case "status":
		state, err := ctrl.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), state)
		if state != redirect.Active {
			return proxyerrors.New(proxyerrors.ExitGeneralError, proxyerrors.KindGeneral, "redirect inactive")
		}
		return nil

	case "on":
		if len(args) != 2 {
			return proxyerrors.UsageError("on requires an endpoint")
		}
		ep, err := endpoint.Parse(args[1])
		if err != nil {
			return proxyerrors.InvalidAddressFormat(args[1], err.Error())
		}
		if err := requireRoot(); err != nil {
			return err
		}
		if err := ctrl.Enable(ctx, ep); err != nil {
			return err
		}
		logSuccess("Redirecting TCP through %s", ep.Redacted())
		return nil

	case "off":
		if len(args) != 1 {
			return proxyerrors.UsageError("off takes no arguments")
		}
		if err := requireRoot(); err != nil {
			return err
		}
		if err := ctrl.Disable(ctx); err != nil {
			return err
		}
		logSuccess("Transparent redirect removed")
		return nil

	default:
		return proxyerrors.UsageError(fmt.Sprintf("unknown %s action %q", privilege.HelperCommand, args[0]))
	}
}

func requireRoot() error {
	if geteuid() != 0 {
		return proxyerrors.AuthorizationDenied(privilege.HelperCommand + " (must run as root)")
	}
	return nil
}
