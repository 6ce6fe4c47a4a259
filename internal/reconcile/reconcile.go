package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/logging"
)

// IntentKind is the user's requested change.
type IntentKind int

const (
	Enable IntentKind = iota
	Disable
	SetEndpoint
	Auto
)

func (k IntentKind) String() string {
	switch k {
	case Enable:
		return "enable"
	case Disable:
		return "disable"
	case SetEndpoint:
		return "set-endpoint"
	default:
		return "auto"
	}
}

// Intent is a requested change. Endpoint is used by SetEndpoint only.
type Intent struct {
	Kind     IntentKind
	Endpoint *endpoint.Endpoint
}

// Phase is the state of a pass.
type Phase int

const (
	Pending Phase = iota
	Applying
	Committed
	PartiallyFailed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Applying:
		return "applying"
	case Committed:
		return "committed"
	default:
		return "partially failed"
	}
}

// OutcomeKind classifies what happened to one layer.
type OutcomeKind int

const (
	Applied OutcomeKind = iota
	Skipped
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is the per-layer result of a pass.
type Outcome struct {
	Layer  layer.Name
	Kind   OutcomeKind
	Reason error
	Target layer.Target
}

// Result is the record of one pass.
type Result struct {
	ID       string
	Intent   Intent
	Phase    Phase
	Outcomes []Outcome
	Warning  string
}

// Failed returns the failed outcomes.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Kind == Failed {
			out = append(out, o)
		}
	}
	return out
}

// Err summarizes a PartiallyFailed pass. A single-layer pass returns that
// layer's error so its kind decides the exit code.
func (r *Result) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	if len(r.Outcomes) == 1 {
		return failed[0].Reason
	}
	return proxyerrors.PartialFailure(len(failed), len(r.Outcomes))
}

// Fallback supplies an endpoint when Enable finds none in DesktopConfig.
type Fallback func() (*endpoint.Endpoint, error)

// Reconciler runs passes over a registry.
type Reconciler struct {
	registry *layer.Registry
	fallback Fallback
	newID    func() string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithFallback sets the endpoint source used by Enable when the desktop
// layer has none.
func WithFallback(f Fallback) Option {
	return func(r *Reconciler) { r.fallback = f }
}

// WithIDGenerator overrides pass ID generation.
func WithIDGenerator(f func() string) Option {
	return func(r *Reconciler) { r.newID = f }
}

// New creates a Reconciler.
func New(registry *layer.Registry, opts ...Option) *Reconciler {
	r := &Reconciler{registry: registry, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run applies intent to the named layers, or to every layer when scope is
// empty. The error is non-nil only for an invalid request; layer failures
// are reported in the Result.
func (r *Reconciler) Run(ctx context.Context, intent Intent, scope ...layer.Name) (*Result, error) {
	layers, err := r.registry.Select(scope...)
	if err != nil {
		return nil, proxyerrors.UsageError(err.Error())
	}
	if intent.Kind == SetEndpoint {
		if intent.Endpoint == nil {
			return nil, proxyerrors.UsageError("set-endpoint requires an endpoint")
		}
		if err := intent.Endpoint.Validate(); err != nil {
			return nil, proxyerrors.InvalidAddressFormat(intent.Endpoint.Host, err.Error())
		}
	}

	res := &Result{ID: r.newID(), Intent: intent, Phase: Pending}
	log := logging.With("pass", res.ID, "intent", intent.Kind.String())
	log.Debug("reconciliation pending", "layers", len(layers))

	plan := r.plan(ctx, intent, layers, res)

	res.Phase = Applying
	for _, l := range layers {
		p := plan[l.Name()]
		if p.skip != nil {
			res.Outcomes = append(res.Outcomes, Outcome{Layer: l.Name(), Kind: Skipped, Reason: p.skip})
			log.Debug("layer skipped", "layer", l.Name(), "reason", p.skip)
			continue
		}
		if p.fail != nil {
			res.Outcomes = append(res.Outcomes, Outcome{Layer: l.Name(), Kind: Failed, Reason: p.fail, Target: p.target})
			log.Info("layer failed", "layer", l.Name(), "error", p.fail)
			continue
		}
		if reason := missingCapability(l.Capabilities(), p.target); reason != "" {
			res.Outcomes = append(res.Outcomes, Outcome{Layer: l.Name(), Kind: Skipped, Reason: fmt.Errorf("%s", reason), Target: p.target})
			log.Debug("layer skipped", "layer", l.Name(), "reason", reason)
			continue
		}

		if err := l.Apply(ctx, p.target); err != nil {
			res.Outcomes = append(res.Outcomes, Outcome{Layer: l.Name(), Kind: Failed, Reason: err, Target: p.target})
			log.Info("layer failed", "layer", l.Name(), "error", err)
			continue
		}
		res.Outcomes = append(res.Outcomes, Outcome{Layer: l.Name(), Kind: Applied, Target: p.target})
		log.Debug("layer applied", "layer", l.Name(), "enabled", p.target.Enabled)
	}

	if len(res.Failed()) > 0 {
		res.Phase = PartiallyFailed
	} else {
		res.Phase = Committed
	}
	log.Info("reconciliation finished", "phase", res.Phase.String())
	return res, nil
}

type layerPlan struct {
	target layer.Target
	skip   error
	fail   error
}

// plan derives the per-layer target before anything is written, so every
// layer in a pass converges on the same endpoint.
func (r *Reconciler) plan(ctx context.Context, intent Intent, layers []layer.Layer, res *Result) map[layer.Name]layerPlan {
	plan := make(map[layer.Name]layerPlan, len(layers))
	all := func(p layerPlan) {
		for _, l := range layers {
			plan[l.Name()] = p
		}
	}

	switch intent.Kind {
	case Disable:
		all(layerPlan{target: layer.Target{Enabled: false}})

	case SetEndpoint:
		all(layerPlan{target: layer.Target{Enabled: true, Endpoint: intent.Endpoint}})

	case Enable:
		ep, err := r.enableEndpoint(ctx)
		if err != nil {
			for _, l := range layers {
				plan[l.Name()] = layerPlan{fail: proxyerrors.LayerWriteFailed(string(l.Name()), err)}
			}
			return plan
		}
		all(layerPlan{target: layer.Target{Enabled: true, Endpoint: ep}})

	case Auto:
		r.planAuto(ctx, layers, res, plan)
	}
	return plan
}

func (r *Reconciler) planAuto(ctx context.Context, layers []layer.Layer, res *Result, plan map[layer.Name]layerPlan) {
	skipAll := func(msg string) {
		res.Warning = msg
		for _, l := range layers {
			plan[l.Name()] = layerPlan{skip: fmt.Errorf("%s", msg)}
		}
	}

	desktop, ok := r.registry.Lookup(layer.DesktopConfig)
	if !ok {
		skipAll("desktop config layer not available; nothing to sync from")
		return
	}
	st := desktop.Read(ctx)

	var target layer.Target
	switch {
	case st.Enabled == layer.Unknown:
		skipAll(fmt.Sprintf("desktop config unreadable (%v); nothing changed", st.Err))
		return
	case st.Enabled == layer.Enabled && st.Endpoint == nil:
		skipAll("desktop proxy is manual but has no endpoint; nothing changed")
		return
	case st.Enabled == layer.Enabled:
		target = layer.Target{Enabled: true, Endpoint: st.Endpoint}
	default:
		target = layer.Target{Enabled: false}
	}

	for _, l := range layers {
		if l.Name() == layer.DesktopConfig {
			plan[l.Name()] = layerPlan{skip: fmt.Errorf("source of the sync")}
			continue
		}
		plan[l.Name()] = layerPlan{target: target}
	}
}

func (r *Reconciler) enableEndpoint(ctx context.Context) (*endpoint.Endpoint, error) {
	if desktop, ok := r.registry.Lookup(layer.DesktopConfig); ok {
		if st := desktop.Read(ctx); st.Endpoint != nil {
			return st.Endpoint, nil
		}
	}
	if r.fallback != nil {
		ep, err := r.fallback()
		if err != nil {
			return nil, fmt.Errorf("no endpoint configured: %w", err)
		}
		if ep != nil {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("no endpoint configured")
}

func missingCapability(caps layer.Capabilities, target layer.Target) string {
	if !caps.Writable {
		return "layer is not writable on this host"
	}
	if target.Enabled && !caps.SetEndpoint {
		return "layer cannot set an endpoint"
	}
	if !caps.Toggle {
		return "layer cannot be toggled"
	}
	return ""
}
