package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFileName     = ".msgscan.yaml"
	defaultCatalogPath = ".msgscan/catalog.json"
)

// ProjectConfig holds the contents of .msgscan.yaml at the workspace root.
// Every field is optional; flags override config, config overrides defaults.
type ProjectConfig struct {
	// Pattern is the translator call prefix, e.g. "$this->translate".
	Pattern string `yaml:"pattern"`

	// DefaultCategory for calls without a literal category argument.
	DefaultCategory string `yaml:"default_category"`

	// Include / Exclude are glob patterns relative to the workspace root.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// CatalogPath is where scan writes and serve reads the catalog,
	// relative to the workspace root unless absolute.
	CatalogPath string `yaml:"catalog_path"`

	// MCPLogPath enables JSONL logging of MCP tool calls when set.
	MCPLogPath string `yaml:"mcp_log_path"`
}

// loadProjectConfig reads .msgscan.yaml from root. Returns an empty config
// (no error) if the file does not exist.
func loadProjectConfig(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, configFileName))
	if os.IsNotExist(err) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve returns flagValue if set, then the config value, then fallback.
func resolve(flagValue, configValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	return fallback
}

// resolveCatalogPath applies the flag > config > default chain and anchors
// relative paths at the workspace root.
func resolveCatalogPath(root, flagValue string, cfg *ProjectConfig) string {
	path := resolve(flagValue, cfg.CatalogPath, defaultCatalogPath)
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return path
}
