package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	"github.com/firefly-engineering/proxyctl/internal/logging"
)

const (
	DefaultPrefix       = "172.31"
	DefaultPort         = 3128
	DefaultUser         = "edcguest"
	DefaultPassword     = "edcguest"
	DefaultProbeURL     = "http://www.gstatic.com/generate_204"
	DefaultProbeTimeout = 5 * time.Second
	DefaultPollInterval = 5 * time.Second

	DefaultDesktopFile  = "kioslaverc"
	DefaultDesktopGroup = "Proxy Settings"

	DefaultRedirectService = "redsocks"
	DefaultRedirectConfig  = "/etc/redsocks.conf"
	DefaultRedirectPort    = 12345
	DefaultRedirectChain   = "PROXYCTL"

	// ConfigEnvVar overrides the config file location.
	ConfigEnvVar = "PROXYCTL_CONFIG"
)

// DefaultNoProxy lists destinations that bypass the proxy in the shell and
// desktop layers.
var DefaultNoProxy = []string{
	"localhost",
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
}

// DefaultWhitelist lists the private, loopback, multicast and reserved
// ranges the transparent redirect never captures.
var DefaultWhitelist = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"224.0.0.0/4",
	"240.0.0.0/4",
}

// Duration is a time.Duration that decodes from TOML strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the proxyctl configuration file.
type Config struct {
	DefaultPrefix  string   `toml:"default_prefix"`
	Scheme         string   `toml:"scheme"`
	Port           int      `toml:"port"`
	User           string   `toml:"user"`
	Password       string   `toml:"password"`
	NoProxy        []string `toml:"no_proxy"`
	DataDir        string   `toml:"data_dir"`
	CatalogFile    string   `toml:"catalog_file"`
	CandidatesFile string   `toml:"candidates_file"`
	ProbeURL       string   `toml:"probe_url"`
	ProbeTimeout   Duration `toml:"probe_timeout"`
	Notify         bool     `toml:"notify"`
	PollInterval   Duration `toml:"poll_interval"`
	History        bool     `toml:"history"`

	Desktop  DesktopConfig  `toml:"desktop"`
	Redirect RedirectConfig `toml:"redirect"`
}

// DesktopConfig locates the desktop proxy settings store.
type DesktopConfig struct {
	File         string `toml:"file"`
	Group        string `toml:"group"`
	ReadCommand  string `toml:"read_command"`
	WriteCommand string `toml:"write_command"`
}

// RedirectConfig describes the transparent redirect service.
type RedirectConfig struct {
	Service    string   `toml:"service"`
	Helper     string   `toml:"helper"` // privileged helper executable, default: this binary
	ConfigPath string   `toml:"config_path"`
	LocalPort  int      `toml:"local_port"`
	Chain      string   `toml:"chain"`
	Whitelist  []string `toml:"whitelist"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultPrefix:  DefaultPrefix,
		Scheme:         "http",
		Port:           DefaultPort,
		User:           DefaultUser,
		Password:       DefaultPassword,
		NoProxy:        append([]string(nil), DefaultNoProxy...),
		DataDir:        "~/.dotfiles/proxy",
		CatalogFile:    "proxies.json",
		CandidatesFile: "proxy.txt",
		ProbeURL:       DefaultProbeURL,
		ProbeTimeout:   Duration{DefaultProbeTimeout},
		PollInterval:   Duration{DefaultPollInterval},
		History:        true,
		Desktop: DesktopConfig{
			File:         DefaultDesktopFile,
			Group:        DefaultDesktopGroup,
			ReadCommand:  "kreadconfig6",
			WriteCommand: "kwriteconfig6",
		},
		Redirect: RedirectConfig{
			Service:    DefaultRedirectService,
			ConfigPath: DefaultRedirectConfig,
			LocalPort:  DefaultRedirectPort,
			Chain:      DefaultRedirectChain,
			Whitelist:  append([]string(nil), DefaultWhitelist...),
		},
	}
}

// Validate checks that the Config is usable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (got %d)", c.Port)
	}
	if c.Redirect.LocalPort < 1 || c.Redirect.LocalPort > 65535 {
		return fmt.Errorf("redirect.local_port must be between 1 and 65535 (got %d)", c.Redirect.LocalPort)
	}
	switch c.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("unsupported scheme %q (must be http, https, socks5 or socks5h)", c.Scheme)
	}
	if c.ProbeTimeout.Duration <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	if c.PollInterval.Duration < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s")
	}
	if c.Desktop.File == "" || c.Desktop.Group == "" {
		return fmt.Errorf("desktop.file and desktop.group are required")
	}
	if c.Redirect.Service == "" || c.Redirect.Chain == "" {
		return fmt.Errorf("redirect.service and redirect.chain are required")
	}
	return nil
}

// Resolver returns the endpoint resolver configured from c.
func (c *Config) Resolver() endpoint.Resolver {
	return endpoint.Resolver{
		DefaultPrefix: c.DefaultPrefix,
		Scheme:        c.Scheme,
		User:          c.User,
		Password:      c.Password,
		Port:          c.Port,
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("no config file, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		logging.Warn("unknown config key", "path", path, "key", key.String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Paths holds resolved filesystem locations.
type Paths struct {
	ConfigFile string
	ConfigDir  string
	HomeDir    string
	DataDir    string
	StateDir   string
	LockFile   string
}

// DefaultPaths returns the default path configuration for the current user.
func DefaultPaths() *Paths {
	home, _ := os.UserHomeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	configDir := filepath.Join(configHome, "proxyctl")
	configFile := os.Getenv(ConfigEnvVar)
	if configFile == "" {
		configFile = filepath.Join(configDir, "config.toml")
	}

	return &Paths{
		ConfigFile: configFile,
		ConfigDir:  configDir,
		HomeDir:    home,
		DataDir:    filepath.Join(home, ".dotfiles", "proxy"),
		StateDir:   filepath.Join(stateHome, "proxyctl"),
		LockFile:   filepath.Join(configHome, "proxyctl.lock"),
	}
}

// ApplyConfig resolves config-relative locations (data_dir) into p.
func (p *Paths) ApplyConfig(c *Config) {
	if c.DataDir != "" {
		p.DataDir = expandHome(c.DataDir, p.HomeDir)
	}
}

// DataFile resolves name inside the data directory. Absolute paths and
// "~/" paths are returned as-is (after home expansion); relative names are
// joined with securejoin so they cannot escape DataDir.
func (p *Paths) DataFile(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	expanded := expandHome(name, p.HomeDir)
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	path, err := securejoin.SecureJoin(p.DataDir, expanded)
	if err != nil {
		return "", fmt.Errorf("invalid data file %q: %w", name, err)
	}
	return path, nil
}

// HistoryFile is the reconciliation history log.
func (p *Paths) HistoryFile() string {
	return filepath.Join(p.StateDir, "history.jsonl")
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
