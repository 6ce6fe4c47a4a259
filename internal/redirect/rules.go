package redirect

import (
	"net"
	"strconv"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// Rule is one step of the rule set. A Rule with no Spec creates Chain.
type Rule struct {
	Table string
	Chain string
	Spec  []string
}

func (r Rule) createsChain() bool {
	return len(r.Spec) == 0
}

func (r Rule) installArgs() []string {
	if r.createsChain() {
		return []string{"-w", "-t", r.Table, "-N", r.Chain}
	}
	return append([]string{"-w", "-t", r.Table, "-A", r.Chain}, r.Spec...)
}

func (r Rule) checkArgs() []string {
	return append([]string{"-w", "-t", r.Table, "-C", r.Chain}, r.Spec...)
}

// removeArgs returns the commands undoing installArgs. A created chain is
// flushed before deletion so rules added outside this rule set cannot pin
// it.
func (r Rule) removeArgs() [][]string {
	if r.createsChain() {
		return [][]string{
			{"-w", "-t", r.Table, "-F", r.Chain},
			{"-w", "-t", r.Table, "-X", r.Chain},
		}
	}
	return [][]string{append([]string{"-w", "-t", r.Table, "-D", r.Chain}, r.Spec...)}
}

// String renders the install command.
func (r Rule) String() string {
	return system.CommandLine(iptables, r.installArgs()...)
}

// Rules returns the rule set in install order. ep, when it names an IPv4
// literal, is excluded from redirection so redsocks can reach it.
func Rules(chain string, localPort int, whitelist []string, ep *endpoint.Endpoint) []Rule {
	rules := []Rule{{Table: "nat", Chain: chain}}

	if ep != nil {
		if ip := net.ParseIP(ep.Host); ip != nil && ip.To4() != nil {
			rules = append(rules, Rule{Table: "nat", Chain: chain, Spec: []string{"-d", ip.String() + "/32", "-j", "RETURN"}})
		}
	}
	for _, cidr := range whitelist {
		rules = append(rules, Rule{Table: "nat", Chain: chain, Spec: []string{"-d", cidr, "-j", "RETURN"}})
	}

	return append(rules,
		Rule{Table: "nat", Chain: chain, Spec: []string{"-p", "tcp", "-j", "REDIRECT", "--to-ports", strconv.Itoa(localPort)}},
		Rule{Table: "nat", Chain: "OUTPUT", Spec: []string{"-p", "tcp", "-j", chain}},
		Rule{Table: "filter", Chain: "OUTPUT", Spec: []string{"-p", "udp", "--dport", "443", "-j", "REJECT"}},
	)
}
