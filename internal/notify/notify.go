// Package notify sends desktop notifications through notify-send.
package notify

import (
	"context"

	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// AppName is the application name notifications are filed under.
const AppName = "proxyctl"

// Urgency levels understood by notify-send.
const (
	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

// Notifier posts notifications. A disabled Notifier does nothing.
type Notifier struct {
	Exec    system.CommandExecutor
	Enabled bool
}

// New creates a Notifier.
func New(exec system.CommandExecutor, enabled bool) *Notifier {
	return &Notifier{Exec: exec, Enabled: enabled}
}

// Send posts a notification. Failures are logged at debug level only.
func (n *Notifier) Send(ctx context.Context, urgency, summary, body string) {
	if n == nil || !n.Enabled {
		return
	}
	if _, err := n.Exec.LookPath("notify-send"); err != nil {
		logging.Debug("notify-send not available", "error", err)
		return
	}
	args := []string{"--app-name=" + AppName, "--urgency=" + urgency, "--icon=network-wired", summary}
	if body != "" {
		args = append(args, body)
	}
	if out, err := n.Exec.Execute(ctx, "notify-send", args...); err != nil {
		logging.Debug("notification failed", "error", err, "output", system.OutputText(out))
	}
}
