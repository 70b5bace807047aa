package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveCreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	cfg := &Config{
		Pool: PoolConfig{Workers: 6},
		Postgres: map[string]PostgresConfig{
			"default": {Host: "db.internal", Port: 5432, Database: "osm", Strategy: "local"},
		},
	}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Config file was not created: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Config file contains invalid JSON: %v", err)
	}

	if loaded.Postgres["default"].Host != "db.internal" {
		t.Errorf("Postgres[default].Host = %q, want %q", loaded.Postgres["default"].Host, "db.internal")
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "deep", "config.json")

	cfg := &Config{}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Config file was not created: %s", path)
	}

	parentDir := filepath.Dir(path)
	if _, err := os.Stat(parentDir); os.IsNotExist(err) {
		t.Fatalf("Parent directory was not created: %s", parentDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	cfg := &Config{
		Pool: PoolConfig{Workers: 12},
		Postgres: map[string]PostgresConfig{
			"primary": {Host: "primary.db", Port: 5432, Database: "osm", User: "osm", Strategy: "global-unlocked"},
			"replica": {Host: "replica.db", Port: 5432, Database: "osm", User: "osm", Strategy: "local"},
		},
		Osm: OsmConfig{
			HighwaySelection: []string{"motorway", "primary"},
			SourceTable:      "planet_osm_line",
		},
		Routing: RoutingConfig{
			MaxBacktrackingDistance: 250,
			SkipStrategy:            "furthest",
		},
		Graph: GraphConfig{
			MaxNodeMergeDistance: 1.5,
		},
	}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Pool.Workers != 12 {
		t.Errorf("Pool.Workers mismatch: got %d", loaded.Pool.Workers)
	}
	if loaded.Postgres["primary"].Host != "primary.db" {
		t.Errorf("Postgres[primary].Host mismatch: got %q", loaded.Postgres["primary"].Host)
	}
	if loaded.Postgres["replica"].Strategy != "local" {
		t.Errorf("Postgres[replica].Strategy mismatch: got %q", loaded.Postgres["replica"].Strategy)
	}
	if loaded.Routing.SkipStrategy != "furthest" {
		t.Errorf("Routing.SkipStrategy mismatch: got %q", loaded.Routing.SkipStrategy)
	}
	if loaded.Graph.MaxNodeMergeDistance != 1.5 {
		t.Errorf("Graph.MaxNodeMergeDistance mismatch: got %v", loaded.Graph.MaxNodeMergeDistance)
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	cfg1 := &Config{Pool: PoolConfig{Workers: 1}}
	if err := Save(cfg1, path); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	cfg2 := &Config{Pool: PoolConfig{Workers: 2}}
	if err := Save(cfg2, path); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if loaded.Pool.Workers != 2 {
		t.Errorf("Pool.Workers = %d, want 2", loaded.Pool.Workers)
	}
}
