package testutil

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/firefly-engineering/proxyctl/internal/config"
	"github.com/firefly-engineering/proxyctl/internal/endpoint"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadConfigFixture writes a TOML fixture to a temp file and loads it
// through config.Load, so fixtures exercise the real decoding path.
func LoadConfigFixture(dir, name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, err
	}
	return config.Load(path)
}

// LoadCatalogFixture loads a JSON catalogue fixture.
func LoadCatalogFixture(name string) ([]endpoint.Entry, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var entries []endpoint.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ValidConfig returns the valid config fixture.
func ValidConfig(dir string) (*config.Config, error) {
	return LoadConfigFixture(dir, "valid_config.toml")
}

// InvalidConfig loads the invalid config fixture; the error is expected.
func InvalidConfig(dir string) (*config.Config, error) {
	return LoadConfigFixture(dir, "invalid_config.toml")
}

// Catalog returns the catalogue fixture.
func Catalog() ([]endpoint.Entry, error) {
	return LoadCatalogFixture("proxies.json")
}
