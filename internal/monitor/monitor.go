// Package monitor polls the proxy layers and reacts when they change.
package monitor

import (
	"context"
	"time"

	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
	"github.com/firefly-engineering/proxyctl/internal/status"
)

// Change is one layer whose reading differs from the previous poll.
type Change struct {
	Layer  layer.Name
	Before layer.State
	After  layer.State
}

// ChangeHandler is called with the new report and the layers that changed.
type ChangeHandler func(ctx context.Context, report *status.Report, changes []Change)

// SyncHandler is called with the result of an automatic sync pass.
type SyncHandler func(ctx context.Context, res *reconcile.Result)

// Monitor periodically reads every layer.
type Monitor struct {
	interval   time.Duration
	registry   *layer.Registry
	reconciler *reconcile.Reconciler
	syncScope  []layer.Name
	onChange   ChangeHandler
	onSync     SyncHandler
	last       *status.Report
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAutoSync runs an Auto pass over scope whenever the desktop
// configuration changes.
func WithAutoSync(r *reconcile.Reconciler, scope ...layer.Name) Option {
	return func(m *Monitor) {
		m.reconciler = r
		m.syncScope = scope
	}
}

// WithChangeHandler sets the handler for layer changes.
func WithChangeHandler(h ChangeHandler) Option {
	return func(m *Monitor) {
		m.onChange = h
	}
}

// WithSyncHandler sets the handler for automatic sync results.
func WithSyncHandler(h SyncHandler) Option {
	return func(m *Monitor) {
		m.onSync = h
	}
}

// New creates a new Monitor.
func New(interval time.Duration, registry *layer.Registry, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		registry: registry,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the polling loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting layer monitor", "interval", m.interval, "autoSync", m.reconciler != nil)

	// Poll immediately, then loop on interval.
	m.Poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("layer monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll reads every layer once and returns the layers that changed since the
// previous poll. The first poll reports no changes.
func (m *Monitor) Poll(ctx context.Context) []Change {
	report := status.Check(ctx, m.registry)
	prev := m.last
	m.last = report
	if prev == nil {
		return nil
	}

	changes := diff(prev.States, report.States)
	if len(changes) == 0 {
		return nil
	}
	logging.Debug("layers changed", "count", len(changes), "status", report.Status)

	if m.onChange != nil {
		m.onChange(ctx, report, changes)
	}

	if m.reconciler != nil && desktopChanged(changes) {
		m.sync(ctx)
	}
	return changes
}

// Last returns the most recent report, or nil before the first poll.
func (m *Monitor) Last() *status.Report {
	return m.last
}

func (m *Monitor) sync(ctx context.Context) {
	res, err := m.reconciler.Run(ctx, reconcile.Intent{Kind: reconcile.Auto}, m.syncScope...)
	if err != nil {
		logging.Warn("automatic sync rejected", "error", err)
		return
	}
	if m.onSync != nil {
		m.onSync(ctx, res)
	}
	// The sync's own writes are not changes to react to.
	m.last = status.Check(ctx, m.registry)
}

func desktopChanged(changes []Change) bool {
	for _, c := range changes {
		if c.Layer == layer.DesktopConfig {
			return true
		}
	}
	return false
}

func diff(before, after []layer.State) []Change {
	prev := make(map[layer.Name]layer.State, len(before))
	for _, st := range before {
		prev[st.Layer] = st
	}

	var changes []Change
	for _, st := range after {
		old, ok := prev[st.Layer]
		if ok && sameState(old, st) {
			continue
		}
		changes = append(changes, Change{Layer: st.Layer, Before: old, After: st})
	}
	return changes
}

func sameState(a, b layer.State) bool {
	return a.Enabled == b.Enabled && a.Endpoint.Equal(b.Endpoint)
}
