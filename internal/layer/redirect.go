package layer

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/proxyctl/internal/config"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/privilege"
	"github.com/firefly-engineering/proxyctl/internal/redirect"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// Elevator runs the privileged redirect helper.
type Elevator interface {
	Available() bool
	Run(ctx context.Context, args ...string) (privilege.Outcome, error)
}

// Redirect is the TransparentRedirect layer as seen from the unprivileged
// side: status comes from systemd, changes go through the elevated helper.
// The settings are handed to the helper on every change, since pkexec runs
// it without the user's environment.
type Redirect struct {
	exec     system.CommandExecutor
	fs       system.FileSystem
	cfg      config.RedirectConfig
	elevator Elevator
}

// NewRedirect creates the redirect layer.
func NewRedirect(exec system.CommandExecutor, fs system.FileSystem, cfg config.RedirectConfig, elevator Elevator) *Redirect {
	return &Redirect{exec: exec, fs: fs, cfg: cfg, elevator: elevator}
}

func (r *Redirect) Name() Name { return TransparentRedirect }

func (r *Redirect) Capabilities() Capabilities {
	_, err := r.exec.LookPath("systemctl")
	w := r.elevator.Available()
	return Capabilities{Readable: err == nil, Writable: w, Toggle: w, SetEndpoint: w}
}

// Read trusts the service flag; rule presence is not checked.
func (r *Redirect) Read(ctx context.Context) State {
	st := State{Layer: TransparentRedirect}

	active, err := redirect.ServiceActive(ctx, r.exec, r.cfg.Service)
	if err != nil {
		st.Err = proxyerrors.LayerUnreadable(string(TransparentRedirect), err)
		return st
	}
	if !active {
		st.Enabled = Disabled
		st.Detail = r.cfg.Service + " inactive"
		return st
	}
	st.Enabled = Enabled
	st.Detail = r.cfg.Service + " active"

	data, err := r.fs.ReadFile(r.cfg.ConfigPath)
	if err != nil {
		st.Detail += ", endpoint unreadable"
		return st
	}
	ep, err := redirect.ParseConfig(data)
	if err != nil {
		st.Detail += ", " + err.Error()
		return st
	}
	st.Endpoint = ep
	return st
}

func (r *Redirect) Apply(ctx context.Context, target Target) error {
	args := append([]string{"off"}, redirect.HelperFlags(r.cfg)...)
	if target.Enabled {
		if target.Endpoint == nil {
			return proxyerrors.LayerWriteFailed(string(TransparentRedirect), fmt.Errorf("no endpoint"))
		}
		args = append([]string{"on"}, redirect.HelperFlags(r.cfg)...)
		args = append(args, target.Endpoint.String())
	}

	outcome, err := r.elevator.Run(ctx, args...)
	if err == nil {
		return nil
	}
	if outcome == privilege.Denied {
		return err
	}
	return proxyerrors.LayerWriteFailed(string(TransparentRedirect), err)
}
