package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := `
logging:
  level: debug
search:
  query: "HELB loans"
  country: KE
pipeline:
  startDate: "2025-01-01"
storage:
  driver: sqlite
dashboard:
  cacheTTL: 30m
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(searchQueryEnv, "HELB Kenya override")
	t.Setenv(sqlitePathEnv, "/tmp/mentions.db")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected level: %s", cfg.Logging.Level)
	}
	if cfg.Search.Query != "HELB Kenya override" {
		t.Errorf("env override lost: %s", cfg.Search.Query)
	}
	if cfg.Search.Country != "KE" {
		t.Errorf("unexpected country: %s", cfg.Search.Country)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("unexpected driver: %s", cfg.Storage.Driver)
	}
	if cfg.Storage.SQLite.Path != "/tmp/mentions.db" {
		t.Errorf("unexpected sqlite path: %s", cfg.Storage.SQLite.Path)
	}
	if cfg.Dashboard.TTL() != 30*time.Minute {
		t.Errorf("unexpected ttl: %s", cfg.Dashboard.TTL())
	}
	if cfg.Storage.Sheets.Worksheet != "Sheet1" {
		t.Errorf("default worksheet lost: %s", cfg.Storage.Sheets.Worksheet)
	}
}

func TestStartDate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pipeline.StartDate = "2025-01-01"
	cfg.bindTimezone()

	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := cfg.StartDate(); !got.Equal(want) {
		t.Fatalf("StartDate = %v, want %v", got, want)
	}

	cfg.Pipeline.StartDate = ""
	got := cfg.StartDate()
	if got.Month() != time.January || got.Day() != 1 {
		t.Fatalf("empty startDate should resolve to Jan 1, got %v", got)
	}
	if got.Year() != time.Now().UTC().Year() {
		t.Fatalf("empty startDate should use the current year, got %v", got)
	}
}

func TestDashboardTTLFallback(t *testing.T) {
	t.Parallel()

	d := DashboardConfig{CacheTTL: "not-a-duration"}
	if d.TTL() != time.Hour {
		t.Fatalf("invalid ttl should fall back to 1h, got %s", d.TTL())
	}
	if (DashboardConfig{}).TTL() != time.Hour {
		t.Fatalf("empty ttl should default to 1h")
	}
}
