package status

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firefly-engineering/proxyctl/internal/config"
	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

func st(name layer.Name, e layer.Enablement) layer.State {
	return layer.State{Layer: name, Enabled: e}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		states   []layer.State
		want     Status
		problems int
	}{
		{
			name:   "all enabled",
			states: []layer.State{st(layer.ShellEnvironment, layer.Enabled), st(layer.DesktopConfig, layer.Enabled), st(layer.TransparentRedirect, layer.Enabled)},
			want:   StatusOK,
		},
		{
			name:   "fresh system",
			states: []layer.State{st(layer.ShellEnvironment, layer.Disabled), st(layer.DesktopConfig, layer.Disabled), st(layer.TransparentRedirect, layer.Disabled)},
			want:   StatusDisabled,
		},
		{
			name:     "one layer off",
			states:   []layer.State{st(layer.ShellEnvironment, layer.Disabled), st(layer.DesktopConfig, layer.Enabled), st(layer.TransparentRedirect, layer.Enabled)},
			want:     StatusInconsistent,
			problems: 1,
		},
		{
			name:     "unreadable layer",
			states:   []layer.State{st(layer.ShellEnvironment, layer.Enabled), {Layer: layer.DesktopConfig, Enabled: layer.Unknown, Err: errors.New("boom")}, st(layer.TransparentRedirect, layer.Enabled)},
			want:     StatusUnreadable,
			problems: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Summarize(tt.states)
			if r.Status != tt.want {
				t.Errorf("Status = %v, want %v", r.Status, tt.want)
			}
			if len(r.Problems) != tt.problems {
				t.Errorf("Problems = %v, want %d", r.Problems, tt.problems)
			}
			if r.OK() != (tt.want == StatusOK) {
				t.Errorf("OK() = %v", r.OK())
			}
		})
	}
}

func TestCheck_FreshSystemExitCode(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("systemctl is-active", nil, &system.MockExitError{Code: 3})
	reg := layer.NewRegistry(
		layer.NewShell(system.NewMockEnv(nil), nil),
		layer.NewRedirect(exec, system.NewMockFS(), config.Default().Redirect, nil),
	)

	r := Check(context.Background(), reg)
	for _, s := range r.States {
		if s.Enabled != layer.Disabled {
			t.Errorf("%s = %v, want disabled", s.Layer, s.Enabled)
		}
	}
	if got := proxyerrors.GetExitCode(r.Err()); got != 1 {
		t.Errorf("exit code = %d, want 1", got)
	}
}

func TestSummarize_EndpointMismatch(t *testing.T) {
	a := layer.State{Layer: layer.ShellEnvironment, Enabled: layer.Enabled, Endpoint: &endpoint.Endpoint{Host: "172.31.1.1", Port: 3128}}
	b := layer.State{Layer: layer.DesktopConfig, Enabled: layer.Enabled, Endpoint: &endpoint.Endpoint{Host: "172.31.2.2", Port: 3128}}

	r := Summarize([]layer.State{a, b})
	if !r.OK() {
		t.Errorf("endpoint mismatch must not change the verdict, got %v", r.Status)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("Warnings = %v", r.Warnings)
	}
}

func TestRender(t *testing.T) {
	r := Summarize([]layer.State{
		{Layer: layer.ShellEnvironment, Enabled: layer.Enabled, Endpoint: &endpoint.Endpoint{User: "u", Password: "secret", Host: "172.31.1.1", Port: 3128}},
		{Layer: layer.DesktopConfig, Enabled: layer.Disabled, Detail: "PAC script"},
	})

	var buf bytes.Buffer
	if err := Render(&buf, r); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Shell environment", "Desktop config", "PAC script", "Overall: inconsistent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Error("passwords must be redacted")
	}
}
