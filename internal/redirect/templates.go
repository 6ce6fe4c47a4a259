package redirect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
)

// redsocksData holds data for the redsocks template.
type redsocksData struct {
	LocalPort int
	Host      string
	Port      int
	Type      string
	User      string
	Password  string
}

var redsocksTmpl = template.Must(template.New("redsocks").Parse(`# Generated by proxyctl. Changes are overwritten by "proxy redsocks enable".

base {
	log_debug = off;
	log_info = on;
	log = "syslog:daemon";
	daemon = on;
	redirector = iptables;
}

redsocks {
	local_ip = 127.0.0.1;
	local_port = {{.LocalPort}};

	ip = {{.Host}};
	port = {{.Port}};
	type = {{.Type}};
{{- if .User}}
	login = "{{.User}}";
	password = "{{.Password}}";
{{- end}}
}
`))

// redsocks proxy types by endpoint scheme.
var schemeTypes = map[string]string{
	"http":    "http-connect",
	"https":   "http-connect",
	"socks5":  "socks5",
	"socks5h": "socks5",
}

// RenderConfig renders redsocks.conf forwarding localPort to ep.
func RenderConfig(ep *endpoint.Endpoint, localPort int) (string, error) {
	if err := ep.Validate(); err != nil {
		return "", err
	}
	scheme := ep.Scheme
	if scheme == "" {
		scheme = "http"
	}
	typ, ok := schemeTypes[scheme]
	if !ok {
		return "", fmt.Errorf("redsocks cannot forward to %s proxies", scheme)
	}
	if strings.ContainsAny(ep.User+ep.Password, "\"\n") {
		return "", fmt.Errorf("credentials contain characters redsocks cannot quote")
	}

	var buf strings.Builder
	err := redsocksTmpl.Execute(&buf, redsocksData{
		LocalPort: localPort,
		Host:      ep.Host,
		Port:      ep.Port,
		Type:      typ,
		User:      ep.User,
		Password:  ep.Password,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	ipRe       = regexp.MustCompile(`(?m)^\s*ip\s*=\s*([^;\s]+)\s*;`)
	portRe     = regexp.MustCompile(`(?m)^\s*port\s*=\s*(\d+)\s*;`)
	typeRe     = regexp.MustCompile(`(?m)^\s*type\s*=\s*([^;\s]+)\s*;`)
	loginRe    = regexp.MustCompile(`(?m)^\s*login\s*=\s*"([^"]*)"\s*;`)
	passwordRe = regexp.MustCompile(`(?m)^\s*password\s*=\s*"([^"]*)"\s*;`)
)

// ParseConfig extracts the upstream proxy from a redsocks.conf.
func ParseConfig(data []byte) (*endpoint.Endpoint, error) {
	s := string(data)
	ip := ipRe.FindStringSubmatch(s)
	port := portRe.FindStringSubmatch(s)
	if ip == nil || port == nil {
		return nil, fmt.Errorf("no upstream proxy in redsocks config")
	}
	p, err := strconv.Atoi(port[1])
	if err != nil {
		return nil, fmt.Errorf("invalid redsocks port %q", port[1])
	}

	ep := &endpoint.Endpoint{Scheme: "http", Host: ip[1], Port: p}
	if m := typeRe.FindStringSubmatch(s); m != nil && m[1] == "socks5" {
		ep.Scheme = "socks5"
	}
	if m := loginRe.FindStringSubmatch(s); m != nil {
		ep.User = m[1]
	}
	if m := passwordRe.FindStringSubmatch(s); m != nil {
		ep.Password = m[1]
	}
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	return ep, nil
}
