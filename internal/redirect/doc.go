// Package redirect controls the transparent redirect: the redsocks service
// and the iptables rules that steer outbound TCP into it.
//
// Controller runs as root inside the hidden "proxy redirect-helper"
// command, reached through pkexec. Enable writes the redsocks config,
// restarts the service and installs the rule set:
//
//	iptables -t nat -N PROXYCTL
//	iptables -t nat -A PROXYCTL -d <proxy>/32 -j RETURN
//	iptables -t nat -A PROXYCTL -d <range> -j RETURN     (each whitelisted range)
//	iptables -t nat -A PROXYCTL -p tcp -j REDIRECT --to-ports 12345
//	iptables -t nat -A OUTPUT -p tcp -j PROXYCTL
//	iptables -t filter -A OUTPUT -p udp --dport 443 -j REJECT
//
// The UDP rule stops QUIC from bypassing the proxy. Disable removes the
// rules in strict inverse order, treating an already absent rule or chain
// as removed, and then stops the service, so it can be run repeatedly.
//
// Status reports the service flag only. Rules left behind by an
// interrupted Enable or Disable are not detected.
package redirect
