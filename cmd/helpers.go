package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/proxyctl/internal/app"
	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/notify"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
	"github.com/firefly-engineering/proxyctl/internal/shell"
)

// getApp returns the application loaded by the root command.
func getApp() *app.App {
	return app.Default
}

// evalOutput moves user-facing messages to stderr. Commands whose stdout
// the shell wrapper evals call it first.
func evalOutput() {
	logging.UseStderr()
}

// resolveAddress expands an address fragment with the configured defaults.
func resolveAddress(fragment string) (*endpoint.Endpoint, error) {
	return getApp().Resolver().Resolve(fragment)
}

// runPass runs one reconciliation pass, prints the shell statements it
// produced and reports the per-layer outcome.
func runPass(cmd *cobra.Command, intent reconcile.Intent, scope ...layer.Name) error {
	a := getApp()

	res, err := a.Reconciler().Run(cmd.Context(), intent, scope...)
	if err != nil {
		return err
	}

	if stmts := a.Shell.Statements(); len(stmts) > 0 {
		fmt.Fprint(cmd.OutOrStdout(), shell.Render(stmts))
	}

	displayResult(res)
	notifyResult(cmd.Context(), a.Notifier, res)
	recordResult(a, res)
	return res.Err()
}

// recordResult appends a pass to the history. Failures are not fatal.
func recordResult(a *app.App, res *reconcile.Result) {
	if a.History == nil {
		return
	}
	if err := a.History.Record(res); err != nil {
		logging.Debug("failed to record pass", "pass", res.ID, "error", err)
	}
}

// displayResult shows a pass result to the user.
func displayResult(res *reconcile.Result) {
	if res.Warning != "" {
		logWarning("%s", res.Warning)
	}
	for _, o := range res.Outcomes {
		switch o.Kind {
		case reconcile.Applied:
			logSuccess("%s: %s", o.Layer.Label(), describeTarget(o.Target))
		case reconcile.Skipped:
			if res.Warning == "" {
				logInfo("%s: skipped (%v)", o.Layer.Label(), o.Reason)
			}
		case reconcile.Failed:
			logError("%s: %v", o.Layer.Label(), o.Reason)
		}
	}
}

// notifyResult posts a desktop notification for every system-wide layer
// the pass touched.
func notifyResult(ctx context.Context, n *notify.Notifier, res *reconcile.Result) {
	for _, o := range res.Outcomes {
		if o.Layer == layer.ShellEnvironment {
			continue
		}
		switch o.Kind {
		case reconcile.Applied:
			n.Send(ctx, notify.UrgencyNormal, o.Layer.Label(), describeTarget(o.Target))
		case reconcile.Failed:
			n.Send(ctx, notify.UrgencyCritical, o.Layer.Label()+" not changed", o.Reason.Error())
		}
	}
}

func describeTarget(t layer.Target) string {
	if !t.Enabled {
		return "disabled"
	}
	return "enabled via " + t.Endpoint.Redacted()
}

// describeState renders a layer reading on one line.
func describeState(st layer.State) string {
	s := st.Enabled.String()
	if st.Endpoint != nil {
		s += " (" + st.Endpoint.Redacted() + ")"
	}
	if st.Detail != "" {
		s += ", " + st.Detail
	}
	return s
}

// readLayer reads a single layer. An unreadable layer is returned as an
// error.
func readLayer(ctx context.Context, name layer.Name) (layer.State, error) {
	l, ok := getApp().Registry.Lookup(name)
	if !ok {
		return layer.State{}, fmt.Errorf("layer %s is not registered", name)
	}
	st := l.Read(ctx)
	if st.Enabled == layer.Unknown && st.Err != nil {
		return st, st.Err
	}
	return st, nil
}
