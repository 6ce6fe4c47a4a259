package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/monitor"
	"github.com/firefly-engineering/proxyctl/internal/notify"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
	"github.com/firefly-engineering/proxyctl/internal/status"
)

var (
	watchInterval time.Duration
	watchSync     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report layer changes as they happen",
	Long: `Poll every layer and report when one of them changes.

With --sync, a change to the desktop configuration is applied to the
transparent redirect, the way "proxy sync" would. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "Poll interval (default poll_interval from the config)")
	watchCmd.Flags().BoolVar(&watchSync, "sync", false, "Follow desktop changes in the redsocks layer")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := getApp()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []monitor.Option{monitor.WithChangeHandler(reportChanges(a.Notifier))}
	if watchSync {
		opts = append(opts,
			// The watcher's own environment is not the user's shell.
			monitor.WithAutoSync(a.Reconciler(), layer.TransparentRedirect),
			monitor.WithSyncHandler(func(ctx context.Context, res *reconcile.Result) {
				displayResult(res)
				notifyResult(ctx, a.Notifier, res)
				recordResult(a, res)
			}),
		)
	}

	m := a.Monitor(watchInterval, opts...)

	logInfo("Watching proxy layers (Ctrl-C to stop)")
	err := m.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func reportChanges(n *notify.Notifier) monitor.ChangeHandler {
	return func(ctx context.Context, report *status.Report, changes []monitor.Change) {
		for _, c := range changes {
			logInfo("%s: %s → %s", c.Layer.Label(), describeState(c.Before), describeState(c.After))
			if c.Layer != layer.ShellEnvironment {
				n.Send(ctx, notify.UrgencyLow, c.Layer.Label(), describeState(c.After))
			}
		}
		if !report.OK() {
			logWarning("Overall: %s", report.Status)
		}
	}
}
