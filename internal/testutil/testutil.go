package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/proxyctl/internal/app"
	"github.com/firefly-engineering/proxyctl/internal/config"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// KReadPrefix is the command line prefix of a desktop config read.
const KReadPrefix = "kreadconfig6 --file kioslaverc --group Proxy Settings --key "

// TestEnv holds the test environment
type TestEnv struct {
	T      *testing.T
	TmpDir string
	Paths  *config.Paths
	Config *config.Config
	Exec   *system.MockExecutor
	Env    *system.MockEnv
	FS     *system.MockFS
	App    *app.App
}

// NewTestEnv creates a test environment with mocked commands, environment
// and file system, installs its App as app.Default and restores the
// previous default when the test ends.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	paths := &config.Paths{
		ConfigFile: filepath.Join(tmpDir, "config", "config.toml"),
		ConfigDir:  filepath.Join(tmpDir, "config"),
		HomeDir:    tmpDir,
		DataDir:    filepath.Join(tmpDir, "data"),
		StateDir:   filepath.Join(tmpDir, "state"),
		LockFile:   filepath.Join(tmpDir, "proxyctl.lock"),
	}
	for _, dir := range []string{paths.ConfigDir, paths.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	cfg := config.Default()
	exec := system.NewMockExecutor()
	// A fresh machine: no desktop proxy and an inactive redirect service.
	exec.AddResponse(KReadPrefix+"ProxyType", []byte("0\n"), nil)
	exec.AddResponse("systemctl is-active", nil, &system.MockExitError{Code: 3})
	exec.SetMissing("notify-send")

	env := system.NewMockEnv(nil)
	fs := system.NewMockFS()

	testApp := app.New(
		app.WithConfig(cfg),
		app.WithPaths(paths),
		app.WithExecutor(exec),
		app.WithEnv(env),
		app.WithFS(fs),
		app.WithHelper("/usr/bin/proxy"),
	)

	originalDefault := app.Default
	app.SetDefault(testApp)
	t.Cleanup(func() {
		app.SetDefault(originalDefault)
		logging.SetUserOutput(nil, nil)
	})

	return &TestEnv{
		T:      t,
		TmpDir: tmpDir,
		Paths:  paths,
		Config: cfg,
		Exec:   exec,
		Env:    env,
		FS:     fs,
		App:    testApp,
	}
}

// SetDesktop makes the desktop layer read as mode with httpProxy set to
// proxyURL.
func (e *TestEnv) SetDesktop(mode, proxyURL string) {
	e.Exec.AddResponse(KReadPrefix+"ProxyType", []byte(mode+"\n"), nil)
	e.Exec.AddResponse(KReadPrefix+"httpProxy", []byte(proxyURL+"\n"), nil)
}

// SetRedirectActive makes systemctl report the redirect service active.
func (e *TestEnv) SetRedirectActive(active bool) {
	if active {
		e.Exec.AddResponse("systemctl is-active", nil, nil)
		return
	}
	e.Exec.AddResponse("systemctl is-active", nil, &system.MockExitError{Code: 3})
}

// AddDataFile adds a file under the data directory.
func (e *TestEnv) AddDataFile(name string, data []byte) {
	e.FS.AddFile(filepath.Join(e.Paths.DataDir, name), data, 0644)
}

// AddCatalog installs the catalogue fixture as proxies.json.
func (e *TestEnv) AddCatalog() {
	e.T.Helper()
	data, err := LoadFixture("proxies.json")
	if err != nil {
		e.T.Fatalf("Failed to load catalogue fixture: %v", err)
	}
	e.AddDataFile("proxies.json", data)
}
