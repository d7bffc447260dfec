package main

import (
	"os"
	"path/filepath"
	"testing"

	"pulseboard/config"
)

func newTestConfigService(t *testing.T) *ConfigService {
	t.Helper()
	cs := NewConfigService(nil)
	cs.SetStorageDir(t.TempDir())
	return cs
}

func TestGetConfig_DefaultsWhenMissing(t *testing.T) {
	cs := newTestConfigService(t)

	cfg, err := cs.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.Organization != "PulseBoard" {
		t.Errorf("Organization = %q", cfg.Organization)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if !cfg.IncludeCharts {
		t.Error("IncludeCharts should default to true")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cs := newTestConfigService(t)

	cfg, err := cs.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	cfg.DefaultUser = "ops-team"
	cfg.DetailedLog = true
	cfg.RowCaps = config.RowCaps{PDF: 40}
	cfg.PerformanceSeed = 7

	if err := cs.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := cs.GetConfig()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.DefaultUser != "ops-team" || !loaded.DetailedLog {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.RowCaps.PDF != 40 {
		t.Errorf("RowCaps.PDF = %d, want 40", loaded.RowCaps.PDF)
	}
	if loaded.PerformanceSeed != 7 {
		t.Errorf("PerformanceSeed = %d, want 7", loaded.PerformanceSeed)
	}
}

func TestSaveConfig_ValidatesLimits(t *testing.T) {
	cs := newTestConfigService(t)

	cfg, _ := cs.GetConfig()
	cfg.HistoryLimit = -5
	if err := cs.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := cs.GetConfig()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want clamped to 10", loaded.HistoryLimit)
	}
}

func TestSaveConfig_WritesFile(t *testing.T) {
	cs := newTestConfigService(t)
	cfg, _ := cs.GetConfig()
	if err := cs.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	dir, _ := cs.GetStorageDir()
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("config.json not written: %v", err)
	}
}

func TestOnConfigChanged_CallbackFires(t *testing.T) {
	cs := newTestConfigService(t)

	var got []config.Config
	cs.OnConfigChanged(func(c config.Config) { got = append(got, c) })

	cfg, _ := cs.GetConfig()
	cfg.DefaultUser = "watcher"
	if err := cs.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if len(got) != 1 || got[0].DefaultUser != "watcher" {
		t.Errorf("callback payloads = %+v", got)
	}
}
