package redirect

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/proxyctl/internal/config"
	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

const iptables = "iptables"

// State is the redirect service state.
type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Controller applies the redirect on this host. It needs root.
type Controller struct {
	exec system.CommandExecutor
	fs   system.FileSystem
	cfg  config.RedirectConfig
}

// NewController creates a Controller for the given settings.
func NewController(exec system.CommandExecutor, fs system.FileSystem, cfg config.RedirectConfig) *Controller {
	return &Controller{exec: exec, fs: fs, cfg: cfg}
}

// Rules returns the rule set Enable would install for ep.
func (c *Controller) Rules(ep *endpoint.Endpoint) []Rule {
	return Rules(c.cfg.Chain, c.cfg.LocalPort, c.cfg.Whitelist, ep)
}

// Enable points redsocks at ep, restarts it and installs the rule set.
// Rules already present are left alone, so Enable can be repeated.
func (c *Controller) Enable(ctx context.Context, ep *endpoint.Endpoint) error {
	if ep == nil {
		return fmt.Errorf("no endpoint")
	}
	conf, err := RenderConfig(ep, c.cfg.LocalPort)
	if err != nil {
		return err
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.cfg.ConfigPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.fs.WriteFile(c.cfg.ConfigPath, []byte(conf), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.cfg.ConfigPath, err)
	}
	logging.Debug("wrote redsocks config", "path", c.cfg.ConfigPath, "upstream", ep.Redacted())

	if out, err := c.exec.Execute(ctx, "systemctl", "restart", c.cfg.Service); err != nil {
		return fmt.Errorf("failed to restart %s: %w (%s)", c.cfg.Service, err, system.OutputText(out))
	}

	for _, rule := range c.Rules(ep) {
		if err := c.install(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) install(ctx context.Context, rule Rule) error {
	if !rule.createsChain() {
		if _, err := c.exec.Execute(ctx, iptables, rule.checkArgs()...); err == nil {
			logging.Debug("rule already present", "rule", rule.String())
			return nil
		}
	}

	out, err := c.exec.Execute(ctx, iptables, rule.installArgs()...)
	if err != nil {
		if rule.createsChain() && strings.Contains(string(out), "already exists") {
			return nil
		}
		return fmt.Errorf("%s: %w (%s)", rule.String(), err, system.OutputText(out))
	}
	logging.Debug("installed rule", "rule", rule.String())
	return nil
}

// Disable removes the rule set in inverse order and stops redsocks. Absent
// rules count as removed. Other failures are collected and the remaining
// steps still run.
func (c *Controller) Disable(ctx context.Context) error {
	var ep *endpoint.Endpoint
	if data, err := c.fs.ReadFile(c.cfg.ConfigPath); err == nil {
		ep, _ = ParseConfig(data)
	}

	var errs []error
	rules := c.Rules(ep)
	for i := len(rules) - 1; i >= 0; i-- {
		for _, args := range rules[i].removeArgs() {
			out, err := c.exec.Execute(ctx, iptables, args...)
			if err == nil || isAbsent(out) {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w (%s)", system.CommandLine(iptables, args...), err, system.OutputText(out)))
		}
	}

	if out, err := c.exec.Execute(ctx, "systemctl", "stop", c.cfg.Service); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop %s: %w (%s)", c.cfg.Service, err, system.OutputText(out)))
	}
	return errors.Join(errs...)
}

// Status reports whether the service is active.
func (c *Controller) Status(ctx context.Context) (State, error) {
	active, err := ServiceActive(ctx, c.exec, c.cfg.Service)
	if err != nil {
		return Inactive, err
	}
	if active {
		return Active, nil
	}
	return Inactive, nil
}

// ServiceActive runs systemctl is-active. Any non-zero exit means inactive;
// only a failure to run systemctl is an error.
func ServiceActive(ctx context.Context, exec system.CommandExecutor, service string) (bool, error) {
	_, err := exec.Execute(ctx, "systemctl", "is-active", "--quiet", service)
	if err == nil {
		return true, nil
	}
	if system.ExitCode(err) > 0 {
		return false, nil
	}
	return false, fmt.Errorf("failed to query %s: %w", service, err)
}

// absentMarkers are the iptables messages for a rule, chain or jump target
// that is already gone. Legacy iptables reports a deleted jump target as
// "Couldn't load target".
var absentMarkers = []string{
	"does a matching rule exist",
	"No chain/target/match",
	"does not exist",
	"Couldn't load target",
}

func isAbsent(out []byte) bool {
	s := string(out)
	for _, m := range absentMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
