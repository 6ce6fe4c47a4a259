package cmd

import (
	"github.com/spf13/cobra"

	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/probe"
)

var testFile string

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check which candidate proxies are reachable",
	Long: `Fetch a probe URL through every proxy in the candidate list and report
the status and latency of each.

The candidate list holds one address fragment per line; blank lines and
lines starting with # are ignored.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVarP(&testFile, "file", "f", "", "Candidate list (default candidates_file from the config)")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	a := getApp()

	candidates, err := a.Candidates(testFile)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		logWarning("The candidate list is empty")
		return nil
	}

	results := a.Prober().ProbeAll(cmd.Context(), a.Resolver(), candidates)
	passed, err := probe.Render(cmd.OutOrStdout(), results)
	if err != nil {
		return err
	}
	if passed == 0 {
		return proxyerrors.New(proxyerrors.ExitGeneralError, proxyerrors.KindGeneral, "no candidate proxy is reachable")
	}
	return nil
}
