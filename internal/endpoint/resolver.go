package endpoint

import (
	"strconv"
	"strings"

	"github.com/firefly-engineering/proxyctl/internal/errors"
)

// Resolver completes address fragments using a default prefix and fills in
// the configured scheme, credentials and port.
type Resolver struct {
	// DefaultPrefix holds the leading octets, e.g. "172.31".
	DefaultPrefix string
	Scheme        string
	User          string
	Password      string
	Port          int
}

// Resolve turns a fragment into a complete endpoint. It has no side effects.
func (r Resolver) Resolve(fragment string) (*Endpoint, error) {
	host, err := r.ResolveHost(fragment)
	if err != nil {
		return nil, err
	}

	e := &Endpoint{
		Scheme:   r.Scheme,
		User:     r.User,
		Password: r.Password,
		Host:     host,
		Port:     r.Port,
	}
	if err := e.Validate(); err != nil {
		return nil, errors.ConfigError("invalid proxy defaults", err)
	}
	return e, nil
}

// ResolveHost expands fragment into a dotted IPv4 address.
func (r Resolver) ResolveHost(fragment string) (string, error) {
	f := strings.TrimSpace(fragment)
	if f == "" {
		return "", errors.InvalidAddressFormat(fragment, "empty address")
	}

	var host string
	switch dots := strings.Count(f, "."); {
	case strings.HasPrefix(f, "."):
		if dots != 3 {
			return "", errors.InvalidAddressFormat(fragment, "expected .B.C.D after the leading dot")
		}
		octets, err := r.prefixOctets(1)
		if err != nil {
			return "", err
		}
		host = octets[0] + f
	case dots == 3:
		host = f
	case dots == 1:
		octets, err := r.prefixOctets(2)
		if err != nil {
			return "", err
		}
		host = octets[0] + "." + octets[1] + "." + f
	default:
		return "", errors.InvalidAddressFormat(fragment, "expected A.B.C.D, .B.C.D or C.D")
	}

	if !isIPv4(host) {
		return "", errors.InvalidAddressFormat(fragment, "octets must be numbers between 0 and 255")
	}
	return host, nil
}

// prefixOctets returns the first n octets of the default prefix.
func (r Resolver) prefixOctets(n int) ([]string, error) {
	parts := strings.Split(strings.Trim(r.DefaultPrefix, "."), ".")
	if len(parts) < n {
		return nil, errors.ConfigError("default_prefix "+strconv.Quote(r.DefaultPrefix)+" has fewer than "+strconv.Itoa(n)+" octets", nil)
	}
	for _, p := range parts[:n] {
		if !isOctet(p) {
			return nil, errors.ConfigError("default_prefix "+strconv.Quote(r.DefaultPrefix)+" is not numeric", nil)
		}
	}
	return parts[:n], nil
}

func isIPv4(host string) bool {
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if !isOctet(p) {
			return false
		}
	}
	return true
}

func isOctet(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(s)
	return err == nil && n <= 255
}
