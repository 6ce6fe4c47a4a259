package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyLines int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent proxy changes",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLines, "lines", "n", 20, "Number of passes to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := getApp()
	if a.History == nil {
		logInfo("History is disabled (history = false in the config)")
		return nil
	}

	if historyClear {
		if err := a.History.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		logSuccess("History cleared")
		return nil
	}

	events, err := a.History.Tail(historyLines)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		logInfo("No proxy changes recorded yet")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		layers := make([]string, 0, len(e.Layers))
		for _, l := range e.Layers {
			layers = append(layers, l.Layer+"="+l.Outcome)
		}
		target := e.Endpoint
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(out, "%s  %-12s %-16s %-40s %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Intent, e.Phase, target, strings.Join(layers, " "))
	}
	return nil
}
