package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.DefaultPrefix != "172.31" {
		t.Errorf("DefaultPrefix = %q, want %q", cfg.DefaultPrefix, "172.31")
	}
	if cfg.Port != 3128 {
		t.Errorf("Port = %d, want 3128", cfg.Port)
	}
	if cfg.ProbeTimeout.Duration != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s", cfg.ProbeTimeout.Duration)
	}
	if cfg.PollInterval.Duration != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval.Duration)
	}
	if !cfg.History {
		t.Error("History should default to true")
	}
	if len(cfg.Redirect.Whitelist) != len(DefaultWhitelist) {
		t.Errorf("Whitelist has %d entries, want %d", len(cfg.Redirect.Whitelist), len(DefaultWhitelist))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.User != DefaultUser {
		t.Errorf("User = %q, want default", cfg.User)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_prefix = "10.20"
port = 8080
user = "alice"
password = "pw"
probe_timeout = "2s"
notify = true

[desktop]
group = "Custom Proxy"

[redirect]
local_port = 31338
whitelist = ["10.0.0.0/8"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.DefaultPrefix != "10.20" {
		t.Errorf("DefaultPrefix = %q", cfg.DefaultPrefix)
	}
	if cfg.Port != 8080 || cfg.User != "alice" || cfg.Password != "pw" {
		t.Errorf("endpoint defaults = %d %s %s", cfg.Port, cfg.User, cfg.Password)
	}
	if cfg.ProbeTimeout.Duration != 2*time.Second {
		t.Errorf("ProbeTimeout = %v", cfg.ProbeTimeout.Duration)
	}
	if !cfg.Notify {
		t.Error("Notify should be true")
	}
	if cfg.Desktop.Group != "Custom Proxy" {
		t.Errorf("Desktop.Group = %q", cfg.Desktop.Group)
	}
	// Unset keys in a table keep their defaults.
	if cfg.Desktop.File != DefaultDesktopFile {
		t.Errorf("Desktop.File = %q, want default", cfg.Desktop.File)
	}
	if cfg.Redirect.LocalPort != 31338 {
		t.Errorf("Redirect.LocalPort = %d", cfg.Redirect.LocalPort)
	}
	if len(cfg.Redirect.Whitelist) != 1 {
		t.Errorf("Redirect.Whitelist = %v", cfg.Redirect.Whitelist)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "port = ", "failed to parse"},
		{"bad port", "port = 70000", "port must be"},
		{"bad scheme", `scheme = "ftp"`, "unsupported scheme"},
		{"bad duration", `probe_timeout = "soon"`, "failed to parse"},
		{"poll too fast", `poll_interval = "100ms"`, "poll_interval must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Resolver(t *testing.T) {
	cfg := Default()
	cfg.User = "bob"

	ep, err := cfg.Resolver().Resolve("5.9")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if ep.Host != "172.31.5.9" || ep.User != "bob" || ep.Port != 3128 {
		t.Errorf("Resolve = %+v", ep)
	}
}

func TestPaths_DataFile(t *testing.T) {
	home := t.TempDir()
	paths := &Paths{HomeDir: home, DataDir: filepath.Join(home, ".dotfiles", "proxy")}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "proxies.json", filepath.Join(home, ".dotfiles", "proxy", "proxies.json")},
		{"absolute", "/etc/proxy.txt", "/etc/proxy.txt"},
		{"home", "~/lists/proxy.txt", filepath.Join(home, "lists", "proxy.txt")},
		{"escape attempt", "../../etc/passwd", filepath.Join(home, ".dotfiles", "proxy", "etc", "passwd")},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paths.DataFile(tt.in)
			if err != nil {
				t.Fatalf("DataFile(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("DataFile(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaths_ApplyConfig(t *testing.T) {
	paths := &Paths{HomeDir: "/home/u", DataDir: "/home/u/.dotfiles/proxy"}
	cfg := Default()
	cfg.DataDir = "~/proxy-lists"

	paths.ApplyConfig(cfg)

	if paths.DataDir != "/home/u/proxy-lists" {
		t.Errorf("DataDir = %q", paths.DataDir)
	}
}

func TestDefaultPaths_EnvOverride(t *testing.T) {
	t.Setenv(ConfigEnvVar, "/tmp/custom.toml")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	paths := DefaultPaths()

	if paths.ConfigFile != "/tmp/custom.toml" {
		t.Errorf("ConfigFile = %q", paths.ConfigFile)
	}
	if paths.ConfigDir != "/tmp/xdg/proxyctl" {
		t.Errorf("ConfigDir = %q", paths.ConfigDir)
	}
	if paths.LockFile != "/tmp/xdg/proxyctl.lock" {
		t.Errorf("LockFile = %q", paths.LockFile)
	}
	if paths.HistoryFile() != "/tmp/state/proxyctl/history.jsonl" {
		t.Errorf("HistoryFile() = %q", paths.HistoryFile())
	}
}
