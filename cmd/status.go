package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every layer and whether they agree",
	Long: `Read every layer and report whether they are consistent.

Exits 0 only when every layer is readable, at least one is enabled and all
agree with the majority.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	report := status.Check(cmd.Context(), getApp().Registry)
	if err := status.Render(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	return report.Err()
}
