// Package endpoint models proxy endpoints and turns user-supplied address
// fragments into complete ones.
//
// # Fragments
//
// Users rarely type a full address. Given a default prefix such as
// "172.31", the Resolver accepts:
//
//	"172.31.5.9"  complete address, returned unchanged
//	".31.5.9"     first octet of the prefix + fragment  -> 172.31.5.9
//	"5.9"         first two octets of the prefix + "." + fragment -> 172.31.5.9
//
// Anything else fails with an InvalidAddressFormat error. The resolved
// endpoint carries the configured scheme, credentials and port.
//
// # Catalogue
//
// LoadCatalog reads the named proxy list (proxies.json, falling back to the
// newline-delimited proxy.txt) used by the picker; LoadCandidates reads the
// newline list probed by `proxy test`.
package endpoint
