// Package config provides configuration types and loading for proxyctl.
//
// # Configuration File
//
// Settings live in a TOML file, by default
// $XDG_CONFIG_HOME/proxyctl/config.toml (override with --config or
// PROXYCTL_CONFIG). A missing file means defaults:
//
//	default_prefix  = "172.31"
//	scheme          = "http"
//	port            = 3128
//	user            = "edcguest"
//	password        = "edcguest"
//	catalog_file    = "proxies.json"   # relative to data_dir
//	candidates_file = "proxy.txt"
//	probe_url       = "http://www.gstatic.com/generate_204"
//	probe_timeout   = "5s"
//
//	[desktop]
//	file  = "kioslaverc"
//	group = "Proxy Settings"
//
//	[redirect]
//	service     = "redsocks"
//	config_path = "/etc/redsocks.conf"
//	local_port  = 12345
//	chain       = "PROXYCTL"
//
// # Paths
//
// Relative data files are resolved inside data_dir (default
// ~/.dotfiles/proxy) with securejoin, so a catalogue entry cannot point
// outside it through ".." or symlinks.
package config
