package layer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// ProxyVars are the variables whose presence means the shell is proxied,
// in read priority order.
var ProxyVars = []string{"http_proxy", "https_proxy", "HTTP_PROXY", "HTTPS_PROXY"}

// NoProxyVars carry the bypass list alongside ProxyVars.
var NoProxyVars = []string{"no_proxy", "NO_PROXY"}

// Statement is one environment change the calling shell must replay.
type Statement struct {
	Key   string
	Value string
	Unset bool
}

// Shell is the ShellEnvironment layer. Writes change this process's
// environment and are recorded as statements, because a child process
// cannot edit its parent shell.
type Shell struct {
	env        system.Environment
	noProxy    []string
	statements []Statement
}

// NewShell creates the shell layer over env.
func NewShell(env system.Environment, noProxy []string) *Shell {
	return &Shell{env: env, noProxy: noProxy}
}

func (s *Shell) Name() Name { return ShellEnvironment }

func (s *Shell) Capabilities() Capabilities {
	return Capabilities{Readable: true, Writable: true, Toggle: true, SetEndpoint: true}
}

func (s *Shell) Read(ctx context.Context) State {
	st := State{Layer: ShellEnvironment, Enabled: Disabled}
	for _, key := range ProxyVars {
		v := s.env.Getenv(key)
		if v == "" {
			continue
		}
		st.Enabled = Enabled
		ep, err := endpoint.Parse(v)
		if err != nil {
			st.Detail = fmt.Sprintf("%s is not a proxy URL", key)
			return st
		}
		st.Endpoint = ep
		st.Detail = "from " + key
		return st
	}
	return st
}

func (s *Shell) Apply(ctx context.Context, target Target) error {
	if !target.Enabled {
		for _, key := range append(append([]string{}, ProxyVars...), NoProxyVars...) {
			if err := s.env.Unsetenv(key); err != nil {
				return proxyerrors.LayerWriteFailed(string(ShellEnvironment), err)
			}
			s.statements = append(s.statements, Statement{Key: key, Unset: true})
		}
		return nil
	}

	if target.Endpoint == nil {
		return proxyerrors.LayerWriteFailed(string(ShellEnvironment), fmt.Errorf("no endpoint"))
	}
	value := target.Endpoint.String()
	for _, key := range ProxyVars {
		if err := s.set(key, value); err != nil {
			return err
		}
	}
	if len(s.noProxy) > 0 {
		list := strings.Join(s.noProxy, ",")
		for _, key := range NoProxyVars {
			if err := s.set(key, list); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Shell) set(key, value string) error {
	if err := s.env.Setenv(key, value); err != nil {
		return proxyerrors.LayerWriteFailed(string(ShellEnvironment), err)
	}
	s.statements = append(s.statements, Statement{Key: key, Value: value})
	return nil
}

// Statements returns the changes made by Apply since the layer was created.
func (s *Shell) Statements() []Statement {
	out := make([]Statement, len(s.statements))
	copy(out, s.statements)
	return out
}

// ProxyFor reports which proxy the current environment selects for target,
// honouring no_proxy. A nil URL means a direct connection.
func (s *Shell) ProxyFor(target *url.URL) (*url.URL, error) {
	cfg := httpproxy.Config{
		HTTPProxy:  s.first("HTTP_PROXY", "http_proxy"),
		HTTPSProxy: s.first("HTTPS_PROXY", "https_proxy"),
		NoProxy:    s.first("NO_PROXY", "no_proxy"),
	}
	return cfg.ProxyFunc()(target)
}

func (s *Shell) first(keys ...string) string {
	for _, k := range keys {
		if v := s.env.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
