package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed JSON returns an error.
func Load(globalPath, projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	return cfg, nil
}

// LoadDefault loads configuration from conventional paths.
// Global: ~/.geoflow/config.json
// Project: .geoflow/config.json (relative to cwd)
func LoadDefault() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	globalPath := filepath.Join(homeDir, ".geoflow", "config.json")
	projectPath := filepath.Join(".geoflow", "config.json")

	return Load(globalPath, projectPath)
}

// mergeConfigFile reads a JSON config file and merges it into the base config.
// Missing files are silently skipped. Malformed JSON returns an error.
func mergeConfigFile(base *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if loaded.Pool.Workers != 0 {
		base.Pool.Workers = loaded.Pool.Workers
	}

	for key, conn := range loaded.Postgres {
		if base.Postgres == nil {
			base.Postgres = make(map[string]PostgresConfig)
		}
		base.Postgres[key] = conn
	}

	if len(loaded.Osm.HighwaySelection) > 0 {
		base.Osm.HighwaySelection = loaded.Osm.HighwaySelection
	}
	if loaded.Osm.SourceTable != "" {
		base.Osm.SourceTable = loaded.Osm.SourceTable
	}

	if loaded.Routing.MaxBacktrackingDistance != 0 {
		base.Routing.MaxBacktrackingDistance = loaded.Routing.MaxBacktrackingDistance
	}
	if loaded.Routing.SkipStrategy != "" {
		base.Routing.SkipStrategy = loaded.Routing.SkipStrategy
	}

	if loaded.Graph.MaxNodeMergeDistance != 0 {
		base.Graph.MaxNodeMergeDistance = loaded.Graph.MaxNodeMergeDistance
	}

	return nil
}
