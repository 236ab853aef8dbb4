package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the application
type Config struct {
	CatalogDir   string `koanf:"catalog"`       // Directory of catalog entity YAML files
	CatalogURL   string `koanf:"catalog-url"`   // Remote catalog API base URL (takes precedence over catalog dir)
	CatalogToken string `koanf:"catalog-token"` // Bearer token for the remote catalog
	Demo         bool   `koanf:"demo"`          // Use the built-in banking fixture
	WebMode      bool   `koanf:"web"`
	Port         int    `koanf:"port"`
	Watch        bool   `koanf:"watch"` // Rebuild on catalog file changes (file source only)
	JSONLogs     bool   `koanf:"json-logs"`
	VerboseCnt   int    `koanf:"verbose"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"catalog":       ".",
		"catalog-url":   "",
		"catalog-token": "",
		"demo":          false,
		"web":           false,
		"port":          8080,
		"watch":         false,
		"json-logs":     false,
		"verbose":       0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - contextmap.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("contextmap.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: CONTEXTMAP_ (e.g., CONTEXTMAP_PORT=9090, CONTEXTMAP_CATALOG_URL=...)
	if err := k.Load(env.Provider("CONTEXTMAP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "CONTEXTMAP_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
