package postgres

import (
	"strings"
	"testing"

	"github.com/aristath/geoflow/internal/config"
)

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New(config.PostgresConfig{Strategy: "global"})
	if err == nil {
		t.Fatal("New() error = nil, want error for unknown strategy")
	}
}

func TestNewAcceptsKnownStrategies(t *testing.T) {
	for _, s := range []string{"global-locked", "global-unlocked", "local"} {
		t.Run(s, func(t *testing.T) {
			conn, err := New(config.PostgresConfig{Strategy: s, Host: "localhost", Port: 5432, Database: "osm"})
			if err != nil {
				t.Fatalf("New() error = %v, want nil", err)
			}
			if conn.strategy != Strategy(s) {
				t.Errorf("strategy = %v, want %v", conn.strategy, s)
			}
		})
	}
}

func TestDSNIncludesAllFields(t *testing.T) {
	conn, err := New(config.PostgresConfig{
		Strategy: "local",
		Host:     "db.example.com",
		Port:     5433,
		Database: "osm",
		User:     "importer",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	dsn := conn.dsn()
	for _, want := range []string{"host=db.example.com", "port=5433", "dbname=osm", "user=importer", "password=secret"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn() = %q, want it to contain %q", dsn, want)
		}
	}
}
