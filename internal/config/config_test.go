package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Delimiter != "," {
		t.Fatalf("delimiter=%q", cfg.Delimiter)
	}
	if cfg.ColumnProfile != "auto" {
		t.Fatalf("profile=%q", cfg.ColumnProfile)
	}
	if cfg.FetchTimeoutMs != 30000 {
		t.Fatalf("timeout=%d", cfg.FetchTimeoutMs)
	}
	if cfg.ImportSkipBackup {
		t.Fatalf("backup should default on")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/custom.db")
	t.Setenv("COLUMN_PROFILE", "nova")
	t.Setenv("FETCH_TIMEOUT_MS", "5000")
	t.Setenv("IMPORT_SKIP_BACKUP", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Fatalf("db path=%q", cfg.DBPath)
	}
	if cfg.ColumnProfile != "nova" {
		t.Fatalf("profile=%q", cfg.ColumnProfile)
	}
	if cfg.FetchTimeoutMs != 5000 {
		t.Fatalf("timeout=%d", cfg.FetchTimeoutMs)
	}
	if !cfg.ImportSkipBackup {
		t.Fatalf("skip backup not read")
	}
}

func TestGetEnvIntBadValue(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT_MS", "soon")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FetchTimeoutMs != 30000 {
		t.Fatalf("timeout=%d", cfg.FetchTimeoutMs)
	}
}

func TestRequire(t *testing.T) {
	var cfg Config
	if err := cfg.Require("SHEET_URL", ""); err == nil {
		t.Fatalf("expected error")
	}
	if err := cfg.Require("SHEET_URL", "https://example.com/sheet.csv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
