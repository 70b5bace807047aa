package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		globalConfig  *Config
		projectConfig *Config
		checkWorkers  int
		checkStrategy string // Postgres["default"].Strategy, if non-empty
	}{
		{
			name:         "no config files - returns defaults",
			checkWorkers: 4,
		},
		{
			name: "global only - overrides worker count",
			globalConfig: &Config{
				Pool: PoolConfig{Workers: 8},
			},
			checkWorkers: 8,
		},
		{
			name: "project only - overrides postgres strategy",
			projectConfig: &Config{
				Postgres: map[string]PostgresConfig{
					"default": {Strategy: "local"},
				},
			},
			checkWorkers:  4,
			checkStrategy: "local",
		},
		{
			name: "project overrides global - project wins",
			globalConfig: &Config{
				Pool: PoolConfig{Workers: 2},
			},
			projectConfig: &Config{
				Pool: PoolConfig{Workers: 16},
			},
			checkWorkers: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			globalPath := ""
			if tt.globalConfig != nil {
				globalPath = filepath.Join(tmpDir, "global.json")
				writeJSON(t, globalPath, tt.globalConfig)
			}

			projectPath := ""
			if tt.projectConfig != nil {
				projectPath = filepath.Join(tmpDir, "project.json")
				writeJSON(t, projectPath, tt.projectConfig)
			}

			cfg, err := Load(globalPath, projectPath)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.Pool.Workers != tt.checkWorkers {
				t.Errorf("Pool.Workers = %d, want %d", cfg.Pool.Workers, tt.checkWorkers)
			}
			if tt.checkStrategy != "" {
				if got := cfg.Postgres["default"].Strategy; got != tt.checkStrategy {
					t.Errorf("Postgres[default].Strategy = %q, want %q", got, tt.checkStrategy)
				}
			}
		})
	}
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()

	globalPath := filepath.Join(tmpDir, "global.json")
	if err := os.WriteFile(globalPath, []byte("{invalid json"), 0644); err != nil {
		t.Fatalf("writing malformed config: %v", err)
	}

	_, err := Load(globalPath, "")
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestLoad_MissingFilesNotError(t *testing.T) {
	cfg, err := Load("/nonexistent/global.json", "/nonexistent/project.json")
	if err != nil {
		t.Fatalf("expected no error for missing files, got: %v", err)
	}

	if cfg.Pool.Workers != 4 {
		t.Errorf("Pool.Workers = %d, want 4", cfg.Pool.Workers)
	}
	if len(cfg.Osm.HighwaySelection) == 0 {
		t.Error("expected default highway selection to be non-empty")
	}
}
