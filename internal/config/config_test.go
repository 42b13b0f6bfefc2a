package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("explicit missing config file should error")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("defaults should load: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Fatalf("unexpected server addr %q", cfg.Server.Addr)
	}
	if cfg.Server.Heartbeat != 30*time.Second {
		t.Fatalf("unexpected heartbeat %v", cfg.Server.Heartbeat)
	}
	if cfg.Gold.PollInterval != 100*time.Millisecond || cfg.Gold.RetryInterval != time.Second {
		t.Fatalf("unexpected gold cadence %+v", cfg.Gold)
	}
	if cfg.Gold.HistorySize != 1441 || cfg.Gold.LedgerCap != 5000 {
		t.Fatalf("unexpected gold sizing %+v", cfg.Gold)
	}
	if cfg.UsdIdr.HistorySize != 11 || cfg.UsdIdr.StartupDelay != 2*time.Second {
		t.Fatalf("unexpected usdidr config %+v", cfg.UsdIdr)
	}
	if cfg.Telegram.Enabled {
		t.Fatal("telegram should be disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  addr: \":9100\"\n  heartbeat: 10s\ngold:\n  history_size: 100\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9100" || cfg.Server.Heartbeat != 10*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.Server)
	}
	if cfg.Gold.HistorySize != 100 {
		t.Fatalf("file override not applied: %+v", cfg.Gold)
	}
	// Untouched keys keep their defaults.
	if cfg.Gold.LedgerCap != 5000 {
		t.Fatalf("default lost: %+v", cfg.Gold)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("gold:\n  history_size: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("zero history size should fail validation")
	}

	if err := os.WriteFile(path, []byte("telegram:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("enabled telegram without token should fail validation")
	}
}
