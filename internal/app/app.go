package app

import (
	"os"
	"time"

	"github.com/firefly-engineering/proxyctl/internal/audit"
	"github.com/firefly-engineering/proxyctl/internal/config"
	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/kconfig"
	"github.com/firefly-engineering/proxyctl/internal/layer"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/monitor"
	"github.com/firefly-engineering/proxyctl/internal/notify"
	"github.com/firefly-engineering/proxyctl/internal/privilege"
	"github.com/firefly-engineering/proxyctl/internal/probe"
	"github.com/firefly-engineering/proxyctl/internal/reconcile"
	"github.com/firefly-engineering/proxyctl/internal/redirect"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// App holds the application dependencies
type App struct {
	Config *config.Config
	Paths  *config.Paths
	Exec   system.CommandExecutor
	FS     system.FileSystem
	Env    system.Environment

	// Helper is the binary pkexec runs for the redirect layer.
	Helper string

	Shell    *layer.Shell
	Registry *layer.Registry
	Notifier *notify.Notifier

	// History is nil when the config disables it.
	History *audit.Logger
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithExecutor sets the command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Exec = exec
	}
}

// WithFS sets the file system
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithEnv sets the environment
func WithEnv(env system.Environment) Option {
	return func(a *App) {
		a.Env = env
	}
}

// WithHelper sets the privileged helper binary
func WithHelper(path string) Option {
	return func(a *App) {
		a.Helper = path
	}
}

// WithRegistry replaces the layer registry built from the config
func WithRegistry(r *layer.Registry) Option {
	return func(a *App) {
		a.Registry = r
	}
}

// New creates a new App with the given options. Layers not supplied via
// WithRegistry are built from the config.
func New(opts ...Option) *App {
	a := &App{
		Config: config.Default(),
		Paths:  config.DefaultPaths(),
		Exec:   system.DefaultExecutor(),
		FS:     system.DefaultFS(),
		Env:    system.DefaultEnv(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Helper == "" {
		a.Helper = helperPath(a.Config)
	}
	if a.Shell == nil {
		a.Shell = layer.NewShell(a.Env, a.Config.NoProxy)
	}
	if a.Registry == nil {
		a.Registry = a.buildRegistry()
	}
	if a.Notifier == nil {
		a.Notifier = notify.New(a.Exec, a.Config.Notify)
	}
	if a.History == nil && a.Config.History {
		a.History = audit.NewLogger(a.Paths.HistoryFile())
	}

	return a
}

// Load reads the config file (configPath, or the default location when
// empty) and creates an App from it.
func Load(configPath string, opts ...Option) (*App, error) {
	paths := config.DefaultPaths()
	if configPath != "" {
		paths.ConfigFile = configPath
	}

	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, proxyerrors.ConfigError("cannot load configuration", err)
	}
	paths.ApplyConfig(cfg)

	return New(append([]Option{WithConfig(cfg), WithPaths(paths)}, opts...)...), nil
}

func helperPath(cfg *config.Config) string {
	if cfg.Redirect.Helper != "" {
		return cfg.Redirect.Helper
	}
	exe, err := os.Executable()
	if err != nil {
		logging.Debug("cannot locate own executable", "error", err)
		return "proxy"
	}
	return exe
}

func (a *App) buildRegistry() *layer.Registry {
	store := &kconfig.Store{
		Exec:         a.Exec,
		File:         a.Config.Desktop.File,
		Group:        a.Config.Desktop.Group,
		ReadCommand:  a.Config.Desktop.ReadCommand,
		WriteCommand: a.Config.Desktop.WriteCommand,
		LockPath:     a.Paths.LockFile,
	}

	return layer.NewRegistry(
		a.Shell,
		layer.NewDesktop(store, a.Config.NoProxy),
		layer.NewRedirect(a.Exec, a.FS, a.Config.Redirect,
			privilege.New(a.Exec, a.Helper)),
	)
}

// Resolver returns the configured endpoint resolver
func (a *App) Resolver() endpoint.Resolver {
	return a.Config.Resolver()
}

// Catalog loads the proxy catalogue from the data directory
func (a *App) Catalog() ([]endpoint.Entry, error) {
	jsonPath, err := a.Paths.DataFile(a.Config.CatalogFile)
	if err != nil {
		return nil, proxyerrors.ConfigError("invalid catalog_file", err)
	}
	txtPath, err := a.Paths.DataFile(a.Config.CandidatesFile)
	if err != nil {
		return nil, proxyerrors.ConfigError("invalid candidates_file", err)
	}
	return endpoint.LoadCatalog(a.FS, jsonPath, txtPath)
}

// Candidates loads the newline-separated candidate list used by probes
func (a *App) Candidates(override string) ([]string, error) {
	name := a.Config.CandidatesFile
	if override != "" {
		name = override
	}
	path, err := a.Paths.DataFile(name)
	if err != nil {
		return nil, proxyerrors.ConfigError("invalid candidates file", err)
	}
	return endpoint.LoadCandidates(a.FS, path)
}

// DefaultEndpoint returns the first catalogue entry, or nil when the
// catalogue is empty
func (a *App) DefaultEndpoint() (*endpoint.Endpoint, error) {
	entries, err := a.Catalog()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0].Endpoint(a.Resolver())
}

// Reconciler returns a reconciler over the app's layers
func (a *App) Reconciler() *reconcile.Reconciler {
	return reconcile.New(a.Registry, reconcile.WithFallback(a.DefaultEndpoint))
}

// Monitor returns a layer monitor. A zero interval uses poll_interval.
func (a *App) Monitor(interval time.Duration, opts ...monitor.Option) *monitor.Monitor {
	if interval <= 0 {
		interval = a.Config.PollInterval.Duration
	}
	return monitor.New(interval, a.Registry, opts...)
}

// RedirectController returns the privileged redirect controller for the
// configured settings with o applied on top.
func (a *App) RedirectController(o redirect.Override) (*redirect.Controller, error) {
	cfg, err := o.Apply(a.Config.Redirect)
	if err != nil {
		return nil, proxyerrors.UsageError(err.Error())
	}
	return redirect.NewController(a.Exec, a.FS, cfg), nil
}

// Prober returns a prober using the configured URL and timeout
func (a *App) Prober() *probe.Prober {
	return probe.New(probe.Config{
		URL:     a.Config.ProbeURL,
		Timeout: a.Config.ProbeTimeout.Duration,
	})
}

// Default is the application instance used by commands. It is nil until
// the root command loads the configuration or a test installs one.
var Default *App

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault clears the default application instance
func ResetDefault() {
	Default = nil
}
