// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/valid_config.toml
//	fixtures/invalid_config.toml
//	fixtures/proxies.json
//	fixtures/proxy.txt
//
// Config fixtures are loaded through config.Load so they exercise the real
// TOML decoding:
//
//	cfg, err := testutil.ValidConfig(t.TempDir())
//	entries, err := testutil.Catalog()
//
// # Test Environment
//
// NewTestEnv builds an App over mocked commands, environment and file
// system and installs it as app.Default for command tests. The mocks start
// out as a fresh machine: desktop proxy off, redirect service inactive.
//
//	env := testutil.NewTestEnv(t)
//	env.SetDesktop(layer.ModeManual, "http://172.31.5.9:3128")
//	env.SetRedirectActive(true)
package testutil
