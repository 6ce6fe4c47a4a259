package redirect

import (
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
	"strings"

	"github.com/firefly-engineering/proxyctl/internal/config"
)

// Flags carrying the user's redirect settings to the elevated helper, which
// runs with root's environment. ConfigPath is not passed; root's
// configuration decides where the helper writes.
const (
	FlagService   = "service"
	FlagChain     = "chain"
	FlagLocalPort = "local-port"
	FlagWhitelist = "whitelist"
)

var (
	serviceRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9@._-]*$`)
	// iptables chain names are at most 28 characters.
	chainRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,27}$`)
)

// HelperFlags renders the user's redirect settings as helper flags.
func HelperFlags(cfg config.RedirectConfig) []string {
	return []string{
		"--" + FlagService, cfg.Service,
		"--" + FlagChain, cfg.Chain,
		"--" + FlagLocalPort, strconv.Itoa(cfg.LocalPort),
		"--" + FlagWhitelist, strings.Join(cfg.Whitelist, ","),
	}
}

// Override is the set of settings received by the helper. Zero fields keep
// the value from root's configuration.
type Override struct {
	Service   string
	Chain     string
	LocalPort int
	Whitelist []string
}

// Apply returns base with the override applied, after checking every
// overridden value.
func (o Override) Apply(base config.RedirectConfig) (config.RedirectConfig, error) {
	out := base
	if o.Service != "" {
		if !serviceRe.MatchString(o.Service) {
			return base, fmt.Errorf("invalid service name %q", o.Service)
		}
		out.Service = o.Service
	}
	if o.Chain != "" {
		if !chainRe.MatchString(o.Chain) {
			return base, fmt.Errorf("invalid chain name %q", o.Chain)
		}
		out.Chain = o.Chain
	}
	if o.LocalPort != 0 {
		if o.LocalPort < 1 || o.LocalPort > 65535 {
			return base, fmt.Errorf("local port must be between 1 and 65535 (got %d)", o.LocalPort)
		}
		out.LocalPort = o.LocalPort
	}
	if len(o.Whitelist) > 0 {
		ranges := make([]string, 0, len(o.Whitelist))
		for _, r := range o.Whitelist {
			p, err := netip.ParsePrefix(strings.TrimSpace(r))
			if err != nil || !p.Addr().Is4() {
				return base, fmt.Errorf("invalid whitelist range %q", r)
			}
			ranges = append(ranges, p.Masked().String())
		}
		out.Whitelist = ranges
	}
	return out, nil
}
