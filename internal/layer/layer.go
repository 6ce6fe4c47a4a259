package layer

import (
	"context"
	"fmt"
	"sort"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
)

// Name identifies a layer. The values double as the CLI group names.
type Name string

const (
	ShellEnvironment    Name = "shell"
	DesktopConfig       Name = "system"
	TransparentRedirect Name = "redsocks"
)

// order is the declared apply order.
var order = map[Name]int{
	ShellEnvironment:    0,
	DesktopConfig:       1,
	TransparentRedirect: 2,
}

// Label returns the human readable layer name.
func (n Name) Label() string {
	switch n {
	case ShellEnvironment:
		return "Shell environment"
	case DesktopConfig:
		return "Desktop config"
	case TransparentRedirect:
		return "Transparent redirect"
	default:
		return string(n)
	}
}

// ParseName maps a CLI word to a layer name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if _, ok := order[n]; !ok {
		return "", fmt.Errorf("unknown layer %q (valid: shell, system, redsocks)", s)
	}
	return n, nil
}

// Enablement is a tri-state enabled flag.
type Enablement int

const (
	Unknown Enablement = iota
	Disabled
	Enabled
)

func (e Enablement) String() string {
	switch e {
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	default:
		return "unknown"
	}
}

// Capabilities describes what a layer can do on this host.
type Capabilities struct {
	Readable    bool
	Writable    bool
	Toggle      bool
	SetEndpoint bool
}

// State is a point-in-time reading of one layer.
type State struct {
	Layer    Name
	Enabled  Enablement
	Endpoint *endpoint.Endpoint
	Detail   string
	Err      error
}

// Target is the state a reconciliation pass writes to a layer.
// Endpoint is required when Enabled is true.
type Target struct {
	Enabled  bool
	Endpoint *endpoint.Endpoint
}

// Layer is one proxy mechanism.
type Layer interface {
	Name() Name
	Capabilities() Capabilities
	Read(ctx context.Context) State
	Apply(ctx context.Context, target Target) error
}

// Registry holds the known layers in declared order.
type Registry struct {
	layers []Layer
}

// NewRegistry creates a registry from layers, in any order.
func NewRegistry(layers ...Layer) *Registry {
	r := &Registry{}
	for _, l := range layers {
		r.Register(l)
	}
	return r
}

// Register adds l, replacing any layer with the same name.
func (r *Registry) Register(l Layer) {
	for i, existing := range r.layers {
		if existing.Name() == l.Name() {
			r.layers[i] = l
			return
		}
	}
	r.layers = append(r.layers, l)
	sort.SliceStable(r.layers, func(i, j int) bool {
		return rank(r.layers[i].Name()) < rank(r.layers[j].Name())
	})
}

func rank(n Name) int {
	if o, ok := order[n]; ok {
		return o
	}
	return len(order)
}

// Layers returns every registered layer in declared order.
func (r *Registry) Layers() []Layer {
	out := make([]Layer, len(r.layers))
	copy(out, r.layers)
	return out
}

// Lookup returns the layer registered under name.
func (r *Registry) Lookup(name Name) (Layer, bool) {
	for _, l := range r.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// Select returns the named layers in declared order. With no names it
// returns every layer.
func (r *Registry) Select(names ...Name) ([]Layer, error) {
	if len(names) == 0 {
		return r.Layers(), nil
	}
	want := make(map[Name]bool, len(names))
	for _, n := range names {
		if _, ok := r.Lookup(n); !ok {
			return nil, fmt.Errorf("layer %q is not registered", n)
		}
		want[n] = true
	}
	var out []Layer
	for _, l := range r.layers {
		if want[l.Name()] {
			out = append(out, l)
		}
	}
	return out, nil
}

// ReadAll reads every registered layer in declared order.
func (r *Registry) ReadAll(ctx context.Context) []State {
	states := make([]State, 0, len(r.layers))
	for _, l := range r.layers {
		states = append(states, l.Read(ctx))
	}
	return states
}
