package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
)

var getCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Show the configured proxies",
	Long: `Show the endpoint each layer currently uses.

With a URL, also show which proxy the current shell environment selects
for it, taking no_proxy into account.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	a := getApp()
	out := cmd.OutOrStdout()

	for _, st := range a.Registry.ReadAll(cmd.Context()) {
		ep := "-"
		if st.Endpoint != nil {
			ep = st.Endpoint.Redacted()
		}
		fmt.Fprintf(out, "%-9s %-8s %s\n", st.Layer, st.Enabled, ep)
	}

	if len(args) == 0 {
		return nil
	}

	raw := args[0]
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	target, err := url.Parse(raw)
	if err != nil || target.Host == "" {
		return proxyerrors.UsageError(fmt.Sprintf("invalid URL %q", args[0]))
	}

	proxy, err := a.Shell.ProxyFor(target)
	if err != nil {
		return fmt.Errorf("failed to select a proxy for %s: %w", target, err)
	}
	if proxy == nil {
		fmt.Fprintf(out, "\n%s: direct\n", target)
		return nil
	}
	fmt.Fprintf(out, "\n%s: via %s\n", target, proxy.Redacted())
	return nil
}
